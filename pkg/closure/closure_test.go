// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package closure

import (
	"testing"

	"daml.com/x/manifestgen/pkg/coordinate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
apiVersion: digitalasset.com/v1
kind: ClosureSet
closures:
  com.google.protobuf:protobuf-java:3.25.5:
    - com.google.protobuf:protobuf-java:3.25.5
    - com.google.code.gson:gson:2.11.0
  io.grpc:grpc-api:1.67.1:
    - io.grpc:grpc-api:1.67.1
`

func TestReadFromContents(t *testing.T) {
	set, err := ReadFromContents([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, set.Closures, 2)
}

func TestMaterialize(t *testing.T) {
	set, err := ReadFromContents([]byte(doc))
	require.NoError(t, err)

	closures, err := set.Materialize()
	require.NoError(t, err)

	protobuf := coordinate.Coordinate{Group: "com.google.protobuf", Artifact: "protobuf-java", Version: "3.25.5"}
	require.Contains(t, closures, protobuf)
	assert.Len(t, closures[protobuf], 2)
	assert.True(t, closures[protobuf].Contains(protobuf))

	grpc := coordinate.Coordinate{Group: "io.grpc", Artifact: "grpc-api", Version: "1.67.1"}
	require.Contains(t, closures, grpc)
	assert.Len(t, closures[grpc], 1)
}

func TestMaterializeRejectsClosureWithoutRoot(t *testing.T) {
	set, err := ReadFromContents([]byte(`
apiVersion: digitalasset.com/v1
kind: ClosureSet
closures:
  com.google.protobuf:protobuf-java:3.25.5:
    - com.google.code.gson:gson:2.11.0
`))
	require.NoError(t, err)

	_, err = set.Materialize()
	assert.ErrorIs(t, err, ErrInvalidClosureSet)
}

func TestWrongKindRejected(t *testing.T) {
	_, err := ReadFromContents([]byte(`
apiVersion: digitalasset.com/v1
kind: DependencySet
closures: {}
`))
	assert.ErrorIs(t, err, ErrInvalidClosureSet)
}

func TestAddAppendsRoot(t *testing.T) {
	root := coordinate.Coordinate{Group: "org.foo", Artifact: "bar", Version: "1.0.0"}
	dep := coordinate.Coordinate{Group: "org.baz", Artifact: "qux", Version: "2.0.0"}

	set := New()
	set.Add(root, []coordinate.Coordinate{dep})

	closures, err := set.Materialize()
	require.NoError(t, err)
	assert.True(t, closures[root].Contains(root))
	assert.True(t, closures[root].Contains(dep))
}

func TestFileProviderFiltersRequested(t *testing.T) {
	set, err := ReadFromContents([]byte(doc))
	require.NoError(t, err)
	all, err := set.Materialize()
	require.NoError(t, err)

	fixed := Fixed(all)
	grpc := coordinate.Coordinate{Group: "io.grpc", Artifact: "grpc-api", Version: "1.67.1"}
	absent := coordinate.Coordinate{Group: "org.absent", Artifact: "x", Version: "0.0.1"}

	got, err := fixed.Closures(t.Context(), []coordinate.Coordinate{grpc, absent})
	require.NoError(t, err)
	assert.Contains(t, got, grpc)
	assert.NotContains(t, got, absent)
	assert.Len(t, got, 1)
}
