// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package coordinate

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "full triple",
			input: "com.daml:ledger-api:2.10.0",
			want:  Coordinate{Group: "com.daml", Artifact: "ledger-api", Version: "2.10.0"},
		},
		{
			name:  "snapshot version",
			input: "com.daml:daml-script:2.10.0-snapshot.20250101.0",
			want:  Coordinate{Group: "com.daml", Artifact: "daml-script", Version: "2.10.0-snapshot.20250101.0"},
		},
		{
			name:    "missing version",
			input:   "com.daml:ledger-api",
			wantErr: true,
		},
		{
			name:    "empty segment",
			input:   "com.daml::2.10.0",
			wantErr: true,
		},
		{
			name:    "too many segments",
			input:   "com.daml:ledger-api:jar:2.10.0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestCompare(t *testing.T) {
	unordered := []Coordinate{
		{Group: "org.b", Artifact: "x", Version: "1.0.0"},
		{Group: "org.a", Artifact: "y", Version: "1.0.0"},
		{Group: "org.a", Artifact: "x", Version: "2.0.0"},
		{Group: "org.a", Artifact: "x", Version: "1.0.0"},
	}

	slices.SortFunc(unordered, Coordinate.Compare)

	assert.Equal(t, []Coordinate{
		{Group: "org.a", Artifact: "x", Version: "1.0.0"},
		{Group: "org.a", Artifact: "x", Version: "2.0.0"},
		{Group: "org.a", Artifact: "y", Version: "1.0.0"},
		{Group: "org.b", Artifact: "x", Version: "1.0.0"},
	}, unordered)
}

func TestGA(t *testing.T) {
	c, err := Parse("com.daml:ledger-api:2.10.0")
	require.NoError(t, err)
	assert.Equal(t, GA{Group: "com.daml", Artifact: "ledger-api"}, c.GA())
	assert.Equal(t, "com.daml:ledger-api", c.GA().String())
}

func TestSemVer(t *testing.T) {
	c := Coordinate{Group: "com.daml", Artifact: "ledger-api", Version: "2.10.0"}
	v, err := c.SemVer()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Major())

	nonSemver := Coordinate{Group: "org.scala-lang", Artifact: "scala-library", Version: "latest"}
	_, err = nonSemver.SemVer()
	assert.Error(t, err)
}
