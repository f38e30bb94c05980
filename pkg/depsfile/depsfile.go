// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package depsfile

import (
	"fmt"
	"os"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/exclusions"
	"daml.com/x/manifestgen/pkg/schema"
	"daml.com/x/manifestgen/pkg/utils"
	"daml.com/x/manifestgen/pkg/utils/stringset"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const (
	Kind       = "DependencySet"
	Version    = "v1"
	APIVersion = schema.APIGroup + "/" + Version
)

var ErrInvalidDepsFile = fmt.Errorf("invalid dependency set")

// DepsFile is a package's dmg.yaml: the directly declared coordinates plus
// the groups that keep normal transitive behavior.
type DepsFile struct {
	schema.ManifestMeta `yaml:",inline"`

	// ProjectGroup is the Maven group the generated manifest is published under.
	// It is implicitly on the transitive allow list.
	ProjectGroup string `yaml:"project-group"`

	// ProjectArtifact and ProjectVersion identify the generated manifest itself
	ProjectArtifact string `yaml:"project-artifact"`
	ProjectVersion  string `yaml:"project-version"`

	// TransitiveGroups lists groups exempt from the exclusion treatment
	TransitiveGroups []string `yaml:"transitive-groups,omitempty"`

	Dependencies []coordinate.Coordinate `yaml:"dependencies"`
}

func Read(filePath string) (*DepsFile, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ReadFromContents(bytes)
}

func ReadFromContents(contents []byte) (*DepsFile, error) {
	expanded, err := utils.ExpandEnv(contents)
	if err != nil {
		return nil, err
	}

	var obj DepsFile
	if err := yaml.Unmarshal(expanded, &obj); err != nil {
		return nil, err
	}

	s := schema.ForKind(Kind, Version)
	if err := s.ValidateSchema(obj.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDepsFile, err.Error())
	}

	if obj.ProjectGroup == "" {
		return nil, fmt.Errorf("%w: missing required field 'project-group'", ErrInvalidDepsFile)
	}

	return &obj, nil
}

// DirectDependencies maps the declared coordinates to resolver inputs,
// flagging every dependency outside the transitive allow list for the
// exclusion treatment. Declaration order is preserved.
func (d *DepsFile) DirectDependencies() []exclusions.DirectDependency {
	allowed := make(stringset.StringSet).Add(d.ProjectGroup)
	for _, g := range d.TransitiveGroups {
		allowed.Add(g)
	}

	return lo.Map(d.Dependencies, func(c coordinate.Coordinate, _ int) exclusions.DirectDependency {
		return exclusions.DirectDependency{
			Coordinate:    c,
			NonTransitive: !allowed.Contains(c.Group),
		}
	})
}

// NonTransitiveCoordinates returns the distinct coordinates that need a
// closure entry, in first-declaration order
func (d *DepsFile) NonTransitiveCoordinates() []coordinate.Coordinate {
	deps := lo.Filter(d.DirectDependencies(), func(dep exclusions.DirectDependency, _ int) bool {
		return dep.NonTransitive
	})
	coords := lo.Map(deps, func(dep exclusions.DirectDependency, _ int) coordinate.Coordinate {
		return dep.Coordinate
	})
	return lo.Uniq(coords)
}
