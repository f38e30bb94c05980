// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocilister_test

import (
	"testing"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/closurepusher"
	"daml.com/x/manifestgen/pkg/coordinate"
	ociconsts "daml.com/x/manifestgen/pkg/oci"
	"daml.com/x/manifestgen/pkg/ocilister"
	"daml.com/x/manifestgen/pkg/testutil"
	"daml.com/x/manifestgen/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListClosureSetVersions(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)

	root := coordinate.Coordinate{Group: "io.grpc", Artifact: "grpc-api", Version: "1.67.1"}
	set := closure.New()
	set.Add(root, nil)
	_, err := closurepusher.New(utils.StdPrinter{}).PushClosureSet(ctx, client, &closurepusher.PushArgs{
		Coordinate:       root,
		Set:              set,
		ExtraAnnotations: map[string]string{},
		ExtraTags:        []string{"latest", "1.67"},
	})
	require.NoError(t, err)

	tags, found, err := ocilister.ListTags(ctx, client, (&ociconsts.ClosureSetArtifact{GA: root.GA()}).RepoName())
	require.NoError(t, err)
	assert.True(t, found)
	assert.ElementsMatch(t, []string{"1.67.1", "latest", "1.67"}, tags)

	// only the canonical semver tag counts as a version
	versions, err := ocilister.ListClosureSetVersions(ctx, client, root.GA())
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "1.67.1", versions[0].String())
}

func TestListClosureSetVersionsUnknownRepo(t *testing.T) {
	ctx := testutil.Context(t)
	client, _ := testutil.StartRegistry(t)

	versions, err := ocilister.ListClosureSetVersions(ctx, client, coordinate.GA{Group: "org.missing", Artifact: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, versions)
}
