// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package closure models ClosureSet documents: per-coordinate transitive
// closures, computed elsewhere (a real resolver, CI, or test fixtures) and
// consumed by manifest generation.
package closure

import (
	"context"
	"fmt"
	"os"
	"slices"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/exclusions"
	"daml.com/x/manifestgen/pkg/schema"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const (
	Kind       = "ClosureSet"
	Version    = "v1"
	APIVersion = schema.APIGroup + "/" + Version
)

var ErrInvalidClosureSet = fmt.Errorf("invalid closure set")

// ClosureSet is the wire form of one or more transitive closures.
// Keys and members are 'group:artifact:version' strings.
type ClosureSet struct {
	schema.ManifestMeta `yaml:",inline"`
	Closures            map[string][]coordinate.Coordinate `yaml:"closures"`
}

func New() *ClosureSet {
	return &ClosureSet{
		ManifestMeta: schema.ForKind(Kind, Version),
		Closures:     map[string][]coordinate.Coordinate{},
	}
}

func Read(filePath string) (*ClosureSet, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ReadFromContents(bytes)
}

func ReadFromContents(contents []byte) (*ClosureSet, error) {
	var c ClosureSet
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return nil, err
	}

	s := schema.ForKind(Kind, Version)
	if err := s.ValidateSchema(c.ManifestMeta); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClosureSet, err.Error())
	}

	return &c, nil
}

func (c *ClosureSet) Marshal() ([]byte, error) {
	// fix member order so the document is diff-friendly
	for _, members := range c.Closures {
		slices.SortFunc(members, coordinate.Coordinate.Compare)
	}
	return yaml.Marshal(c)
}

// Add registers a closure for coord. The root coordinate is appended if the
// caller's member list omitted it; a closure always contains itself.
func (c *ClosureSet) Add(coord coordinate.Coordinate, members []coordinate.Coordinate) {
	if !lo.Contains(members, coord) {
		members = append(members, coord)
	}
	c.Closures[coord.String()] = members
}

// Materialize converts the wire form into resolver inputs, validating that
// every key parses and every closure contains its own root.
func (c *ClosureSet) Materialize() (map[coordinate.Coordinate]exclusions.Closure, error) {
	out := make(map[coordinate.Coordinate]exclusions.Closure, len(c.Closures))

	for key, members := range c.Closures {
		root, err := coordinate.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("%w: closure key %q: %s", ErrInvalidClosureSet, key, err.Error())
		}

		cl := exclusions.NewClosure(members...)
		if !cl.Contains(root) {
			return nil, fmt.Errorf("%w: closure for %q does not contain its own coordinate", ErrInvalidClosureSet, key)
		}
		out[root] = cl
	}

	return out, nil
}

// Provider supplies transitive closures for a set of coordinates.
// Implementations may hit a registry, a local file, or fixtures; a
// coordinate they cannot supply is simply absent from the result, and
// the resolver turns that absence into a MissingClosureError.
type Provider interface {
	Closures(ctx context.Context, coords []coordinate.Coordinate) (map[coordinate.Coordinate]exclusions.Closure, error)
}

// Fixed is an in-memory Provider for tests and pre-materialized sets
type Fixed map[coordinate.Coordinate]exclusions.Closure

func (f Fixed) Closures(_ context.Context, coords []coordinate.Coordinate) (map[coordinate.Coordinate]exclusions.Closure, error) {
	out := make(map[coordinate.Coordinate]exclusions.Closure, len(coords))
	for _, coord := range coords {
		if cl, ok := f[coord]; ok {
			out[coord] = cl
		}
	}
	return out, nil
}

// File is a Provider reading a single ClosureSet document from disk
type File struct {
	Path string
}

func (f *File) Closures(_ context.Context, coords []coordinate.Coordinate) (map[coordinate.Coordinate]exclusions.Closure, error) {
	set, err := Read(f.Path)
	if err != nil {
		return nil, err
	}
	all, err := set.Materialize()
	if err != nil {
		return nil, err
	}

	out := make(map[coordinate.Coordinate]exclusions.Closure, len(coords))
	for _, coord := range coords {
		if cl, ok := all[coord]; ok {
			out[coord] = cl
		}
	}
	return out, nil
}

var _ Provider = (Fixed)(nil)
var _ Provider = (*File)(nil)
