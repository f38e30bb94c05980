// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package exclusions computes the exclusion records that make a declarative
// dependency manifest behave non-transitively: for each direct dependency,
// every artifact its normal transitive resolution would pull in gets an
// explicit exclusion, so a downstream consumer of the manifest resolves
// exactly what the build itself resolved.
package exclusions

import (
	"fmt"
	"slices"

	"daml.com/x/manifestgen/pkg/coordinate"
)

// DirectDependency is a directly declared coordinate.
// NonTransitive marks dependencies that get the exclusion treatment;
// dependencies whose group is on the project's transitive-groups allow list
// keep normal transitive behavior and pass through untouched.
type DirectDependency struct {
	Coordinate    coordinate.Coordinate
	NonTransitive bool
}

// Closure is the full set of coordinates that a normal, transitive
// resolution of one declared coordinate would produce. A well-formed
// closure always contains its own root coordinate.
type Closure map[coordinate.Coordinate]struct{}

func NewClosure(coords ...coordinate.Coordinate) Closure {
	c := make(Closure, len(coords))
	for _, coord := range coords {
		c[coord] = struct{}{}
	}
	return c
}

func (c Closure) Contains(coord coordinate.Coordinate) bool {
	_, ok := c[coord]
	return ok
}

// ExclusionRecord tells a manifest consumer not to pull in one transitive
// artifact. Versions are deliberately absent: manifest exclusion semantics
// are version-agnostic, so a diamond closure (same group/artifact at two
// versions) collapses to a single record.
type ExclusionRecord struct {
	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
}

func (e ExclusionRecord) GA() coordinate.GA {
	return coordinate.GA{Group: e.Group, Artifact: e.Artifact}
}

// ManifestEntry is one direct dependency's representation in the output
// manifest: its coordinate plus the exclusions attached to it.
type ManifestEntry struct {
	Coordinate coordinate.Coordinate `yaml:"coordinate"`
	Exclusions []ExclusionRecord     `yaml:"exclusions,omitempty"`
}

// MissingClosureError signals a caller contract violation: a dependency
// flagged for non-transitive treatment had no entry in the supplied closures.
// It always aborts the manifest pass; emitting a manifest without complete
// exclusion information would silently produce an incorrect artifact.
type MissingClosureError struct {
	Coordinate coordinate.Coordinate
}

func (e *MissingClosureError) Error() string {
	return fmt.Sprintf("no transitive closure supplied for direct dependency %q", e.Coordinate.String())
}

// ComputeExclusions produces one ManifestEntry per direct dependency, in
// input order. For every non-transitive dependency it emits an exclusion
// record per group/artifact pair in the dependency's closure, minus the
// dependency's own pair, deduplicated across versions. Exclusions within an
// entry are sorted lexicographically by group then artifact, so repeated
// runs produce byte-identical manifests.
//
// The computation is pure: it reads only its inputs and is safe to run
// concurrently for independent packages.
func ComputeExclusions(directDeps []DirectDependency, closures map[coordinate.Coordinate]Closure) ([]ManifestEntry, error) {
	entries := make([]ManifestEntry, 0, len(directDeps))

	for _, dep := range directDeps {
		if !dep.NonTransitive {
			entries = append(entries, ManifestEntry{Coordinate: dep.Coordinate})
			continue
		}

		closure, ok := closures[dep.Coordinate]
		if !ok {
			return nil, &MissingClosureError{Coordinate: dep.Coordinate}
		}

		entries = append(entries, ManifestEntry{
			Coordinate: dep.Coordinate,
			Exclusions: exclusionsFor(dep.Coordinate, closure),
		})
	}

	return entries, nil
}

func exclusionsFor(root coordinate.Coordinate, closure Closure) []ExclusionRecord {
	// only the root itself in the closure means nothing transitive to exclude
	if len(closure) <= 1 {
		return nil
	}

	seen := map[coordinate.GA]struct{}{}
	var records []ExclusionRecord

	for coord := range closure {
		ga := coord.GA()
		if ga == root.GA() {
			continue
		}
		if _, ok := seen[ga]; ok {
			continue
		}
		seen[ga] = struct{}{}
		records = append(records, ExclusionRecord{Group: ga.Group, Artifact: ga.Artifact})
	}

	slices.SortFunc(records, func(a, b ExclusionRecord) int {
		return a.GA().Compare(b.GA())
	})
	return records
}
