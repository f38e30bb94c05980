// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package manifest is the outbound side of manifest generation: it owns the
// DependencyManifest document and its renderings. The exclusion computation
// itself never touches serialization.
package manifest

import (
	"fmt"

	"daml.com/x/manifestgen/pkg/exclusions"
	"daml.com/x/manifestgen/pkg/schema"
	"github.com/goccy/go-yaml"
)

const (
	Kind       = "DependencyManifest"
	Version    = "v1"
	APIVersion = schema.APIGroup + "/" + Version
)

var ErrInvalidManifest = fmt.Errorf("invalid dependency manifest")

// Manifest is the declarative dependency manifest generated for one package:
// the package's own coordinates plus one entry per direct dependency, each
// carrying the exclusions that make it behave non-transitively.
type Manifest struct {
	schema.ManifestMeta `yaml:",inline"`

	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
	Version  string `yaml:"version"`

	// Annotations carry provenance, e.g. git.commit / git.tag
	Annotations map[string]string `yaml:"annotations,omitempty"`

	Dependencies []exclusions.ManifestEntry `yaml:"dependencies"`
}

func New(group, artifact, version string, entries []exclusions.ManifestEntry, annotations map[string]string) *Manifest {
	return &Manifest{
		ManifestMeta: schema.ForKind(Kind, Version),
		Group:        group,
		Artifact:     artifact,
		Version:      version,
		Annotations:  annotations,
		Dependencies: entries,
	}
}

func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func ReadFromContents(contents []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(contents, &m); err != nil {
		return nil, err
	}

	s := schema.ForKind(Kind, Version)
	if err := s.ValidateSchema(m.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, err.Error())
	}
	return &m, nil
}
