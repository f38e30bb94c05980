package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"daml.com/x/manifestgen/pkg/dmgconfig"
	"daml.com/x/manifestgen/pkg/manifest"
	"daml.com/x/manifestgen/pkg/manifestlock"
	"daml.com/x/manifestgen/pkg/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRootCmd(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	cmd, err := RootCmd()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	return cmd, out
}

func writePackage(t *testing.T, contents string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dmgconfig.DepsFilename), []byte(contents), 0644))
	return dir
}

const simpleDepsFile = `
apiVersion: digitalasset.com/v1
kind: DependencySet
project-group: com.daml
project-artifact: app-dependencies
project-version: 1.0.0
dependencies:
  - io.grpc:grpc-api:1.67.1
`

func TestGenerateAgainstRegistry(t *testing.T) {
	ctx := testutil.Context(t)
	t.Setenv(dmgconfig.DmgHomeEnvVar, t.TempDir())
	_, reg := testutil.StartRegistry(t)

	pkgDir := writePackage(t, simpleDepsFile)
	t.Setenv(dmgconfig.PackageEnvVar, pkgDir)

	root := coord(t, "io.grpc:grpc-api:1.67.1")
	member := coord(t, "com.google.code.findbugs:jsr305:3.0.2")
	testutil.PushClosureSet(t, ctx, reg, root, member)

	cmd, out := createTestRootCmd(t, "generate", "--write-manifest", "--pom")
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "app-dependencies")

	t.Run("manifest", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(pkgDir, dmgconfig.ManifestFilename))
		require.NoError(t, err)

		m, err := manifest.ReadFromContents(data)
		require.NoError(t, err)
		assert.Equal(t, "com.daml", m.Group)
		require.Len(t, m.Dependencies, 1)
		require.Len(t, m.Dependencies[0].Exclusions, 1)
		assert.Equal(t, "jsr305", m.Dependencies[0].Exclusions[0].Artifact)
	})

	t.Run("pom", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(pkgDir, dmgconfig.DefaultPomFilename))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<exclusion>")
		assert.Contains(t, string(data), "<artifactId>jsr305</artifactId>")
	})

	t.Run("lockfile", func(t *testing.T) {
		lock, err := manifestlock.ReadLock(filepath.Join(pkgDir, dmgconfig.LockFilename))
		require.NoError(t, err)
		require.Len(t, lock.ClosureSets, 1)
		assert.Equal(t,
			fmt.Sprintf("oci://%s/closures/io.grpc/grpc-api:1.67.1", os.Getenv(dmgconfig.OciRegistryEnvVar)),
			lock.ClosureSets[0].URI)
		assert.NotEmpty(t, lock.ClosureSets[0].Digest)
	})
}

func TestGenerateMissingClosureFails(t *testing.T) {
	ctx := testutil.Context(t)
	t.Setenv(dmgconfig.DmgHomeEnvVar, t.TempDir())
	testutil.StartRegistry(t)

	pkgDir := writePackage(t, simpleDepsFile)
	t.Setenv(dmgconfig.PackageEnvVar, pkgDir)

	cmd, out := createTestRootCmd(t, "generate")
	require.Error(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "MISSING_CLOSURE")
}

func TestUpdateCheck(t *testing.T) {
	ctx := testutil.Context(t)
	t.Setenv(dmgconfig.DmgHomeEnvVar, t.TempDir())
	_, reg := testutil.StartRegistry(t)

	pkgDir := writePackage(t, simpleDepsFile)
	t.Setenv(dmgconfig.PackageEnvVar, pkgDir)

	testutil.PushClosureSet(t, ctx, reg, coord(t, "io.grpc:grpc-api:1.67.1"))

	cmd, _ := createTestRootCmd(t, "update")
	require.NoError(t, cmd.ExecuteContext(ctx))

	cmd, _ = createTestRootCmd(t, "update", "--check")
	require.NoError(t, cmd.ExecuteContext(ctx))

	t.Run("out of sync after a new dependency", func(t *testing.T) {
		testutil.PushClosureSet(t, ctx, reg, coord(t, "com.google.protobuf:protobuf-java:3.25.5"))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, dmgconfig.DepsFilename), []byte(simpleDepsFile+"  - com.google.protobuf:protobuf-java:3.25.5\n"), 0644))

		cmd, _ := createTestRootCmd(t, "update", "--check")
		err := cmd.ExecuteContext(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, manifestlock.ErrLockfileOutOfSync)

		cmd, _ = createTestRootCmd(t, "update")
		require.NoError(t, cmd.ExecuteContext(ctx))

		cmd, _ = createTestRootCmd(t, "update", "--check")
		require.NoError(t, cmd.ExecuteContext(ctx))
	})
}
