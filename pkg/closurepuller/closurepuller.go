// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package closurepuller

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	"daml.com/x/manifestgen/pkg/exclusions"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"daml.com/x/manifestgen/pkg/utils"
	"github.com/Masterminds/semver/v3"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote/errcode"
)

// Puller fetches ClosureSet artifacts from the configured OCI registry,
// answering blob fetches from the shared oci-layout cache where possible.
type Puller struct {
	config *dmgconfig.Config
	client *dmgremote.Remote
}

func New(config *dmgconfig.Config, client *dmgremote.Remote) *Puller {
	return &Puller{config: config, client: client}
}

func NewFromConfig(config *dmgconfig.Config) (*Puller, error) {
	client, err := dmgremote.NewFromConfig(config)
	if err != nil {
		return nil, err
	}
	return New(config, client), nil
}

// PulledClosureSet is one fetched closure artifact plus the registry
// identity needed for lockfile pinning.
type PulledClosureSet struct {
	Descriptor *v1.Descriptor
	Version    *semver.Version
	Set        *closure.ClosureSet
}

func (p *PulledClosureSet) URI(registry string, ga coordinate.GA) string {
	artifact := &ociconsts.ClosureSetArtifact{GA: ga}
	return fmt.Sprintf("oci://%s/%s:%s", registry, artifact.RepoName(), p.Version.String())
}

// PullClosureSet fetches the closure set published for coord, using the
// coordinate's version as the tag. Returns errdef.ErrNotFound (wrapped) if
// the registry has no closure for the coordinate.
func (p *Puller) PullClosureSet(ctx context.Context, coord coordinate.Coordinate) (*PulledClosureSet, error) {
	artifact := &ociconsts.ClosureSetArtifact{GA: coord.GA()}

	var pulled *PulledClosureSet
	// registry pulls write blobs to the shared oci-layout cache
	err := utils.WithCacheLock(ctx, p.config.CacheLockFilePath, func() error {
		var err error
		pulled, err = p.pull(ctx, artifact, coord.Version)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pulled, nil
}

func (p *Puller) pull(ctx context.Context, artifact ociconsts.Artifact, tag string) (*PulledClosureSet, error) {
	repo, err := p.client.CachedRepo(artifact.RepoName(), p.config.OciLayoutCache)
	if err != nil {
		return nil, err
	}

	desc, manifestBytes, err := oras.FetchBytes(ctx, repo, tag, oras.DefaultFetchBytesOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch '%s:%s': %w", artifact.RepoName(), tag, err)
	}

	var manifest v1.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, err
	}

	version, err := resolveVersion(manifest.Annotations, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve version of '%s:%s': %w", artifact.RepoName(), tag, err)
	}

	layer, err := findClosureSetLayer(artifact, manifest.Layers)
	if err != nil {
		return nil, err
	}

	blob, err := content.FetchAll(ctx, repo, *layer)
	if err != nil {
		return nil, err
	}

	set, err := closure.ReadFromContents(blob)
	if err != nil {
		return nil, fmt.Errorf("artifact '%s:%s' does not contain a valid closure set: %w", artifact.RepoName(), tag, err)
	}

	return &PulledClosureSet{
		Descriptor: &desc,
		Version:    version,
		Set:        set,
	}, nil
}

// Closures implements closure.Provider. Coordinates with no published
// closure set are absent from the result; the exclusion resolver turns
// that absence into its contract error.
func (p *Puller) Closures(ctx context.Context, coords []coordinate.Coordinate) (map[coordinate.Coordinate]exclusions.Closure, error) {
	out := make(map[coordinate.Coordinate]exclusions.Closure, len(coords))

	for _, coord := range coords {
		if _, ok := out[coord]; ok {
			// duplicate declaration, one pull is enough
			continue
		}

		pulled, err := p.PullClosureSet(ctx, coord)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		closures, err := pulled.Set.Materialize()
		if err != nil {
			return nil, err
		}
		cl, ok := closures[coord]
		if !ok {
			// published set doesn't cover the coordinate it is tagged for
			continue
		}
		out[coord] = cl
	}

	return out, nil
}

var _ closure.Provider = (*Puller)(nil)

// IsNotFound reports whether err means the artifact (or its repo)
// does not exist in the registry
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errdef.ErrNotFound) {
		return true
	}
	var ec errcode.Error
	if errors.As(err, &ec) {
		return ec.Code == errcode.ErrorCodeNameUnknown || ec.Code == errcode.ErrorCodeManifestUnknown
	}
	return false
}

// figure out the closure set's non-floaty semver
func resolveVersion(annotations map[string]string, tag string) (*semver.Version, error) {
	if v, err := ociconsts.VersionFromDescriptorAnnotations(annotations); err == nil {
		return v, nil
	}
	return semver.NewVersion(cmp.Or(tag, "unknown"))
}

func findClosureSetLayer(artifact ociconsts.Artifact, layers []v1.Descriptor) (*v1.Descriptor, error) {
	for _, l := range layers {
		if l.MediaType == artifact.FileMediaType() {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("artifact in repo %q has no layer of media type %q", artifact.RepoName(), artifact.FileMediaType())
}
