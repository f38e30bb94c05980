package manifestlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"daml.com/x/manifestgen/pkg/schema"
	"daml.com/x/manifestgen/pkg/utils/stringset"
	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"oras.land/oras-go/v2/registry"
)

const (
	LockKind       = "ManifestLock"
	LockVersion    = "v1"
	LockAPIVersion = schema.APIGroup + "/" + LockVersion
)

var ErrInvalidLock = fmt.Errorf("invalid manifest lock")

// ManifestLock pins the closure set artifacts a manifest was generated
// from, so repeated generation is reproducible and drift is detectable.
type ManifestLock struct {
	schema.ManifestMeta `yaml:",inline"`
	ClosureSets         []*ClosureSetRef `yaml:"closure-sets"`
}

// ClosureSetRef points at one pulled closure set artifact
type ClosureSetRef struct {
	URI    string `yaml:"uri"`
	Digest string `yaml:"digest,omitempty"`
}

func ReadLock(filePath string) (*ManifestLock, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	bytes, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return ReadLockContents(bytes)
}

func ReadLockContents(contents []byte) (*ManifestLock, error) {
	var l ManifestLock
	if err := yaml.Unmarshal(contents, &l); err != nil {
		return nil, err
	}

	s := schema.ManifestMeta{
		APIVersion: LockAPIVersion,
		Kind:       LockKind,
	}
	if err := s.ValidateSchema(l.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLock, err.Error())
	}

	return &l, nil
}

// IsFloaty reports whether a tag is a moving reference: anything that
// isn't a canonical semver, e.g. 'latest' or a shorthand like '3.4'
func IsFloaty(tag string) bool {
	v, err := semver.NewVersion(tag)
	if err != nil {
		return true
	}
	return v.String() != tag
}

// toDiffableMap separates the tag from the rest of the URI which is helpful for
// diffing an existing lockfile against the expected one
// example: { "example.com/closures/org.foo/bar" -> [latest, 3.4], ... }
func (l *ManifestLock) toDiffableMap() (map[string]stringset.StringSet, error) {
	m := map[string]stringset.StringSet{}
	for _, ref := range l.ClosureSets {
		parsed, err := registry.ParseReference(strings.TrimPrefix(ref.URI, "oci://"))
		if err != nil {
			return nil, err
		}
		k := fmt.Sprintf("%s/%s", parsed.Registry, parsed.Repository)

		if _, ok := m[k]; !ok {
			m[k] = make(stringset.StringSet)
		}
		m[k].Add(parsed.Reference)
	}
	return m, nil
}

// isInSync checks whether this (existing) lockfile matches an expected lockfile.
// it takes into account the fact that tags in the expected lockfile might be floaty
func (l *ManifestLock) isInSync(expected *ManifestLock) (bool, error) {
	expectedMap, err := expected.toDiffableMap()
	if err != nil {
		return false, err
	}
	existingMap, err := l.toDiffableMap()
	if err != nil {
		return false, err
	}

	if len(existingMap) != len(expectedMap) {
		return false, nil
	}

	for k, xs := range expectedMap {
		ys, ok := existingMap[k]
		if !ok {
			return false, nil
		}

		if len(xs) != len(ys) {
			return false, nil
		}

		for x := range xs {
			if IsFloaty(x) {
				continue
			}
			if !ys.Contains(x) {
				return false, nil
			}
		}
	}

	return true, nil
}
