// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"daml.com/x/manifestgen/pkg/coordinate"
)

type Artifact interface {
	RepoName() string
	ArtifactType() string
	FileMediaType() string
}

// ClosureSetArtifact is one coordinate's published transitive closure.
// Repo layout: closures/<group>/<artifact>, tagged by version.
type ClosureSetArtifact struct {
	GA coordinate.GA
}

func (a *ClosureSetArtifact) RepoName() string {
	return ClosureSetRepoPrefix + a.GA.Group + "/" + a.GA.Artifact
}

func (a *ClosureSetArtifact) ArtifactType() string  { return ClosureSetArtifactType }
func (a *ClosureSetArtifact) FileMediaType() string { return ClosureSetFileMediaType }

var _ Artifact = (*ClosureSetArtifact)(nil)
