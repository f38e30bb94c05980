// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"daml.com/x/manifestgen/pkg/closure"
	"daml.com/x/manifestgen/pkg/closurepusher"
	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/dmgconfig/dmgremote"
	"daml.com/x/manifestgen/pkg/utils"
	"github.com/google/go-containerregistry/pkg/registry"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"oras.land/oras-go/v2/registry/remote/auth"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// PushClosureSet publishes a closure set artifact for the given root
// coordinate into the test registry
func PushClosureSet(t *testing.T, ctx context.Context, registry *httptest.Server, root coordinate.Coordinate, members ...coordinate.Coordinate) {
	r := GetRemote(registry)

	set := closure.New()
	set.Add(root, members)
	args := &closurepusher.PushArgs{
		Coordinate:       root,
		Set:              set,
		ExtraAnnotations: map[string]string{},
	}
	_, err := closurepusher.New(utils.StdPrinter{}).PushClosureSet(ctx, r, args)
	require.NoError(t, err)
}

func GetRemote(registry *httptest.Server) *dmgremote.Remote {
	prefix := "http://"
	insecure := strings.HasPrefix(registry.URL, prefix)
	if !insecure {
		prefix = "https://"
	}
	return dmgremote.NewWithCustomClient(strings.TrimPrefix(registry.URL, prefix), &auth.Client{Client: registry.Client()}, insecure)
}

func StartRegistry(t *testing.T) (client *dmgremote.Remote, reg *httptest.Server) {
	reg = httptest.NewServer(registry.New())
	t.Cleanup(func() { reg.Close() })
	regUrl := strings.TrimPrefix(reg.URL, "http://")

	t.Setenv(dmgconfig.OciRegistryEnvVar, regUrl)
	t.Setenv(dmgconfig.RegistryAuthConfigPathEnvVar, TestdataPath(t, "empty-docker-config.json"))
	t.Setenv(dmgconfig.AllowInsecureRegistryEnvVar, "true")

	return GetRemote(reg), reg
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// randomize DMG_HOME per test so the cache and lock files of one
	// test never leak into another
	tmpDmgHome, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(dmgconfig.DmgHomeEnvVar, tmpDmgHome)
	suite.T().Cleanup(func() {
		deleteFn()
	})
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
