// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"slices"

	"daml.com/x/manifestgen/pkg/coordinate"
	"daml.com/x/manifestgen/pkg/exclusions"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

// Row summarizes one direct dependency of a generated manifest
type Row struct {
	Coordinate  coordinate.Coordinate
	Transitive  bool
	ClosureSize int
	Exclusions  int
}

type Report []*Row

func New(entries []exclusions.ManifestEntry, deps []exclusions.DirectDependency, closures map[coordinate.Coordinate]exclusions.Closure) Report {
	transitive := map[coordinate.Coordinate]bool{}
	for _, d := range deps {
		if !d.NonTransitive {
			transitive[d.Coordinate] = true
		}
	}

	r := lo.Map(entries, func(e exclusions.ManifestEntry, _ int) *Row {
		return &Row{
			Coordinate:  e.Coordinate,
			Transitive:  transitive[e.Coordinate],
			ClosureSize: len(closures[e.Coordinate]),
			Exclusions:  len(e.Exclusions),
		}
	})

	return Report(r)
}

// Sort by coordinate (group, artifact, version)
func (r Report) Sort() {
	slices.SortFunc(r, func(a, b *Row) int {
		return a.Coordinate.Compare(b.Coordinate)
	})
}

func (r Report) Copy() Report {
	c := make(Report, len(r))
	lo.ForEach(r, func(e *Row, i int) {
		row := *e
		c[i] = &row
	})
	return c
}

func (r Report) Table() string {
	newR := r.Copy()
	newR.Sort()

	rows := lo.Map(newR, func(row *Row, _ int) []string {
		coord := row.Coordinate.String()
		mode := "pinned"
		closureSize := fmt.Sprintf("%d", row.ClosureSize)
		excluded := fmt.Sprintf("%d", row.Exclusions)

		if row.Transitive {
			mode = "transitive"
			closureSize = "-"
			excluded = "-"
			coord = lipgloss.NewStyle().
				Faint(true).
				Italic(true).
				Render(coord)
		} else if row.Exclusions > 0 {
			coord = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Bold(true).
				Render(coord)
		}

		return []string{
			coord,
			mode,
			closureSize,
			excluded,
		}
	})

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("DEPENDENCY", "MODE", "CLOSURE", "EXCLUDED").
		Rows(rows...).
		String()
}
