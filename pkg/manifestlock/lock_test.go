package manifestlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(uris ...string) *ManifestLock {
	l := &ManifestLock{}
	for _, u := range uris {
		l.ClosureSets = append(l.ClosureSets, &ClosureSetRef{URI: u})
	}
	return l
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		expected *ManifestLock
		existing *ManifestLock
		want     bool
	}{
		{
			name:     "no diff",
			expected: mk("oci://example1.com/closures/org.foo/a:latest", "oci://example2.com/closures/org.foo/b:1.2.3"),
			existing: mk("oci://example1.com/closures/org.foo/a:latest", "oci://example2.com/closures/org.foo/b:1.2.3"),
			want:     true,
		},
		{
			name:     "only removed",
			expected: mk("oci://example1.com/closures/org.foo/a:latest", "oci://example2.com/closures/org.foo/b:1.2.3"),
			existing: mk("oci://example1.com/closures/org.foo/a:latest"),
			want:     false,
		},
		{
			name:     "only added",
			expected: mk("oci://example1.com/closures/org.foo/a:latest"),
			existing: mk("oci://example1.com/closures/org.foo/a:latest", "oci://example2.com/closures/org.foo/b:1.2.3"),
			want:     false,
		},
		{
			name:     "added and removed",
			expected: mk("oci://example1.com/closures/org.foo/a:latest", "oci://example2.com/closures/org.foo/b:1.2.3"),
			existing: mk("oci://example2.com/closures/org.foo/b:1.2.3", "oci://example3.com/closures/org.foo/c:4.5.6"),
			want:     false,
		},
		{
			name:     "only floaty diff",
			expected: mk("oci://example2.com/closures/org.foo/b:latest"),
			existing: mk("oci://example2.com/closures/org.foo/b:1.2.3"),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.existing.isInSync(tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsFloaty(t *testing.T) {
	assert.True(t, IsFloaty("latest"))
	assert.True(t, IsFloaty("main"))
	// shorthands parse as semver but don't round-trip, so they float too
	assert.True(t, IsFloaty("3.4"))
	assert.True(t, IsFloaty("3.4.0.generic"))
	assert.False(t, IsFloaty("1.2.3"))
	assert.False(t, IsFloaty("2.0.0-snapshot.20250101.0"))
}

func TestCoordFromURI(t *testing.T) {
	c, err := coordFromURI("oci://example.com/closures/com.google.protobuf/protobuf-java:3.25.5")
	require.NoError(t, err)
	assert.Equal(t, "com.google.protobuf", c.Group)
	assert.Equal(t, "protobuf-java", c.Artifact)
	assert.Equal(t, "3.25.5", c.Version)

	// registries with a port must not lose their tag to the port colon
	c, err = coordFromURI("oci://127.0.0.1:43571/closures/io.grpc/grpc-api:1.67.1")
	require.NoError(t, err)
	assert.Equal(t, "io.grpc", c.Group)
	assert.Equal(t, "grpc-api", c.Artifact)
	assert.Equal(t, "1.67.1", c.Version)

	_, err = coordFromURI("oci://example.com/closures/untagged")
	assert.Error(t, err)

	_, err = coordFromURI("oci://example.com/other/org.foo/bar:1.0.0")
	assert.Error(t, err)
}

func TestReadLockContentsValidatesSchema(t *testing.T) {
	_, err := ReadLockContents([]byte(`
apiVersion: digitalasset.com/v1
kind: DependencySet
closure-sets: []
`))
	assert.ErrorIs(t, err, ErrInvalidLock)

	l, err := ReadLockContents([]byte(`
apiVersion: digitalasset.com/v1
kind: ManifestLock
closure-sets:
  - uri: oci://example.com/closures/org.foo/bar:1.0.0
    digest: sha256:deadbeef
`))
	require.NoError(t, err)
	assert.Len(t, l.ClosureSets, 1)
}
