// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"testing"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/exclusions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(t *testing.T, s string) coordinate.Coordinate {
	c, err := coordinate.Parse(s)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	grpc := coord(t, "io.grpc:grpc-api:1.67.1")
	daml := coord(t, "com.daml:util:3.4.0")
	jsr := coord(t, "com.google.code.findbugs:jsr305:3.0.2")

	deps := []exclusions.DirectDependency{
		{Coordinate: grpc, NonTransitive: true},
		{Coordinate: daml, NonTransitive: false},
	}
	entries := []exclusions.ManifestEntry{
		{Coordinate: grpc, Exclusions: []exclusions.ExclusionRecord{
			{Group: jsr.Group, Artifact: jsr.Artifact},
		}},
		{Coordinate: daml},
	}
	closures := map[coordinate.Coordinate]exclusions.Closure{
		grpc: exclusions.NewClosure(grpc, jsr),
	}

	r := New(entries, deps, closures)
	require.Len(t, r, 2)

	assert.Equal(t, grpc, r[0].Coordinate)
	assert.False(t, r[0].Transitive)
	assert.Equal(t, 2, r[0].ClosureSize)
	assert.Equal(t, 1, r[0].Exclusions)

	assert.Equal(t, daml, r[1].Coordinate)
	assert.True(t, r[1].Transitive)
	assert.Equal(t, 0, r[1].Exclusions)
}

func TestTable(t *testing.T) {
	grpc := coord(t, "io.grpc:grpc-api:1.67.1")
	r := Report{
		{Coordinate: grpc, ClosureSize: 2, Exclusions: 1},
	}

	table := r.Table()
	assert.Contains(t, table, "DEPENDENCY")
	assert.Contains(t, table, "grpc-api")

	// Table works on a copy
	assert.Len(t, r, 1)
}
