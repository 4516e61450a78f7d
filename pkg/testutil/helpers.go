// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/optional"
)

// FindProject finds a project by display title in the projects slice.
// Returns nil if no project matches.
func FindProject(projects []*project.Project, title string) *project.Project {
	for _, p := range projects {
		if p != nil && p.DisplayTitle() == title {
			return p
		}
	}
	return nil
}

// CloseTo reports whether an optional figure is set and within tolerance of want.
func CloseTo(v optional.Float, want, tolerance float64) bool {
	got, ok := v.Get()
	if !ok {
		return false
	}
	return math.Abs(got-want) <= tolerance
}
