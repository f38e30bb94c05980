// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/xml"

	"daml.com/x/manifestgen/pkg/exclusions"
	"github.com/samber/lo"
)

const pomModelVersion = "4.0.0"
const pomNamespace = "http://maven.apache.org/POM/4.0.0"

type pomProject struct {
	XMLName      xml.Name         `xml:"project"`
	Xmlns        string           `xml:"xmlns,attr"`
	ModelVersion string           `xml:"modelVersion"`
	GroupID      string           `xml:"groupId"`
	ArtifactID   string           `xml:"artifactId"`
	Version      string           `xml:"version"`
	Packaging    string           `xml:"packaging"`
	Dependencies *pomDependencies `xml:"dependencies,omitempty"`
}

type pomDependencies struct {
	Dependency []pomDependency `xml:"dependency"`
}

type pomDependency struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Exclusions *pomExclusions `xml:"exclusions,omitempty"`
}

type pomExclusions struct {
	Exclusion []pomExclusion `xml:"exclusion"`
}

type pomExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// RenderPOM renders the manifest as a Maven POM. Entry and exclusion order
// is taken as-is from the manifest, which is already deterministic.
func RenderPOM(m *Manifest) ([]byte, error) {
	project := pomProject{
		Xmlns:        pomNamespace,
		ModelVersion: pomModelVersion,
		GroupID:      m.Group,
		ArtifactID:   m.Artifact,
		Version:      m.Version,
		Packaging:    "pom",
	}

	if len(m.Dependencies) > 0 {
		deps := lo.Map(m.Dependencies, func(e exclusions.ManifestEntry, _ int) pomDependency {
			return toPomDependency(e)
		})
		project.Dependencies = &pomDependencies{Dependency: deps}
	}

	out, err := xml.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func toPomDependency(e exclusions.ManifestEntry) pomDependency {
	dep := pomDependency{
		GroupID:    e.Coordinate.Group,
		ArtifactID: e.Coordinate.Artifact,
		Version:    e.Coordinate.Version,
	}

	if len(e.Exclusions) > 0 {
		excl := lo.Map(e.Exclusions, func(x exclusions.ExclusionRecord, _ int) pomExclusion {
			return pomExclusion{GroupID: x.Group, ArtifactID: x.Artifact}
		})
		dep.Exclusions = &pomExclusions{Exclusion: excl}
	}
	return dep
}
