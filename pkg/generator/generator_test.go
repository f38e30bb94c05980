// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"path/filepath"
	"testing"

	"daml.com/x/manifestgen/cmd/dmg/cmd/generate/generationerrors"
	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/exclusions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(t *testing.T, s string) coordinate.Coordinate {
	c, err := coordinate.Parse(s)
	require.NoError(t, err)
	return c
}

func fixtureProvider(t *testing.T) closure.Fixed {
	protobuf := coord(t, "com.google.protobuf:protobuf-java:3.25.5")
	grpc := coord(t, "io.grpc:grpc-api:1.67.1")

	return closure.Fixed{
		protobuf: exclusions.NewClosure(protobuf),
		grpc: exclusions.NewClosure(
			grpc,
			coord(t, "com.google.code.findbugs:jsr305:3.0.2"),
			coord(t, "io.grpc:grpc-context:1.67.1"),
		),
	}
}

func testConfig() *dmgconfig.Config {
	// no puller is wired in these tests, so the lockfile setting is inert
	return &dmgconfig.Config{Lockfile: false}
}

func mustResolve(t *testing.T, rel string) string {
	abs, err := filepath.Abs(rel)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(abs)
	require.NoError(t, err)
	return resolved
}

func TestGeneratePackage(t *testing.T) {
	g := New(testConfig(), fixtureProvider(t), nil)

	result, err := g.GeneratePackage(t.Context(), mustResolve(t, "testdata/single"))
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, "com.daml", m.Group)
	assert.Equal(t, "platform-dependencies", m.Artifact)
	assert.Equal(t, "3.4.0", m.Version)
	require.Len(t, m.Dependencies, 3)

	// protobuf-java's closure is trivial
	assert.Equal(t, "com.google.protobuf:protobuf-java:3.25.5", m.Dependencies[0].Coordinate.String())
	assert.Empty(t, m.Dependencies[0].Exclusions)

	// grpc-api keeps everything but itself out, including its group siblings
	assert.Equal(t, "io.grpc:grpc-api:1.67.1", m.Dependencies[1].Coordinate.String())
	assert.Equal(t, []exclusions.ExclusionRecord{
		{Group: "com.google.code.findbugs", Artifact: "jsr305"},
		{Group: "io.grpc", Artifact: "grpc-context"},
	}, m.Dependencies[1].Exclusions)

	// com.daml.extras is on the transitive allow list
	assert.Equal(t, "com.daml.extras:util:3.4.0", m.Dependencies[2].Coordinate.String())
	assert.Empty(t, m.Dependencies[2].Exclusions)
}

func TestGeneratePackageErrors(t *testing.T) {
	g := New(testConfig(), fixtureProvider(t), nil)

	t.Run("dmg.yaml not found", func(t *testing.T) {
		_, err := g.GeneratePackage(t.Context(), t.TempDir())
		var genErr *generationerrors.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, generationerrors.DepsFileNotFound, genErr.Code)
	})

	t.Run("malformed dmg.yaml", func(t *testing.T) {
		_, err := g.GeneratePackage(t.Context(), mustResolve(t, "testdata/malformed"))
		var genErr *generationerrors.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, generationerrors.MalformedDepsFile, genErr.Code)
	})

	t.Run("missing closure", func(t *testing.T) {
		empty := closure.Fixed{}
		g := New(testConfig(), empty, nil)

		_, err := g.GeneratePackage(t.Context(), mustResolve(t, "testdata/single"))
		var genErr *generationerrors.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, generationerrors.MissingClosure, genErr.Code)

		var missing *exclusions.MissingClosureError
		assert.ErrorAs(t, err, &missing)
	})
}

func TestRunGenerationWorkspace(t *testing.T) {
	t.Setenv(dmgconfig.WorkspaceEnvVar, "testdata/ws")

	g := New(testConfig(), fixtureProvider(t), nil)
	result, err := g.RunGeneration(t.Context())
	require.NoError(t, err)

	require.Len(t, result.Packages, 2)

	app := result.Packages[mustResolve(t, "testdata/ws/app")]
	require.NotNil(t, app)
	assert.Empty(t, app.Errors)
	require.NotNil(t, app.Manifest)
	assert.Equal(t, "app-dependencies", app.Manifest.Artifact)

	// the broken sibling fails in isolation
	broken := result.Packages[mustResolve(t, "testdata/ws/broken")]
	require.NotNil(t, broken)
	assert.Nil(t, broken.Manifest)
	require.Len(t, broken.Errors, 1)
	assert.Equal(t, generationerrors.MalformedDepsFile, broken.Errors[0].Code)
}

func TestRunGenerationSinglePackage(t *testing.T) {
	t.Setenv(dmgconfig.PackageEnvVar, "testdata/single")

	g := New(testConfig(), fixtureProvider(t), nil)
	result, err := g.RunGeneration(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "digitalasset.com/v1", result.APIVersion)
	assert.Equal(t, "Generation", result.Kind)

	require.Len(t, result.Packages, 1)
	for _, pkg := range result.Packages {
		assert.Empty(t, pkg.Errors)
		require.NotNil(t, pkg.Manifest)
		assert.Equal(t, "platform-dependencies", pkg.Manifest.Artifact)
	}
}
