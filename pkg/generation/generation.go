// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generation

import (
	"daml.com/x/manifestgen/cmd/dmg/cmd/generate/generationerrors"
	"daml.com/x/manifestgen/pkg/manifest"
	"daml.com/x/manifestgen/pkg/schema"
)

const (
	Kind       = "Generation"
	Version    = "v1"
	APIVersion = schema.APIGroup + "/" + Version
)

// Generation is the outcome of one generation run across a workspace or a
// single package. Failed packages carry their errors instead of a manifest,
// so one broken dmg.yaml never hides the manifests of its siblings.
type Generation struct {
	schema.ManifestMeta `yaml:",inline"`
	Packages            Packages `yaml:"packages"`
}

// Packages is a <package path> -> Package mapping
type Packages map[string]*Package

type Package struct {
	Errors   []*generationerrors.GenerationError `yaml:"errors,omitempty"`
	Manifest *manifest.Manifest                  `yaml:"manifest,omitempty"`
}
