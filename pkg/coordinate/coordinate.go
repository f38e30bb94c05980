// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package coordinate

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Coordinate identifies an artifact by its full Maven-style triple.
// It is a comparable value type: two Coordinates are equal iff all
// three fields are equal, so it can be used directly as a map key.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// GA is the version-agnostic identity of an artifact.
// Manifest exclusions are expressed in terms of GA pairs only.
type GA struct {
	Group    string
	Artifact string
}

var ErrMalformedCoordinate = fmt.Errorf("malformed coordinate")

// Parse parses a 'group:artifact:version' string.
// None of the three segments may be empty.
func Parse(s string) (Coordinate, error) {
	segments := strings.Split(s, ":")
	if len(segments) != 3 {
		return Coordinate{}, fmt.Errorf("%w: %q must be of the form '<group>:<artifact>:<version>'", ErrMalformedCoordinate, s)
	}
	for _, seg := range segments {
		if seg == "" {
			return Coordinate{}, fmt.Errorf("%w: %q has an empty segment", ErrMalformedCoordinate, s)
		}
	}
	return Coordinate{
		Group:    segments[0],
		Artifact: segments[1],
		Version:  segments[2],
	}, nil
}

func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

func (c Coordinate) GA() GA {
	return GA{Group: c.Group, Artifact: c.Artifact}
}

func (g GA) String() string {
	return g.Group + ":" + g.Artifact
}

// Compare orders by group, then artifact, then version, all lexicographic.
// Used to keep document output stable across runs.
func (c Coordinate) Compare(other Coordinate) int {
	return cmp.Or(
		strings.Compare(c.Group, other.Group),
		strings.Compare(c.Artifact, other.Artifact),
		strings.Compare(c.Version, other.Version),
	)
}

func (g GA) Compare(other GA) int {
	return cmp.Or(
		strings.Compare(g.Group, other.Group),
		strings.Compare(g.Artifact, other.Artifact),
	)
}

// SemVer parses the version segment as a semantic version.
// Closure artifacts tagged in a registry must have semver versions;
// coordinates inside a closure document need not.
func (c Coordinate) SemVer() (*semver.Version, error) {
	return semver.NewVersion(c.Version)
}

func (c Coordinate) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *Coordinate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
