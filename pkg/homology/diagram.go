// Package homology computes persistence diagrams for the two complex types
// this system relies on: cubical complexes filtered by a scalar grid, and
// Euclidean relaxed witness complexes over landmark/witness point samples.
// Both builders feed a shared boundary-matrix reduction core.
package homology

import "math"

// Interval is one persistence interval: a topological feature of the given
// homology dimension born at Birth and dying at Death. Death is +Inf for
// essential features that survive the whole filtration.
type Interval struct {
	Dim   int
	Birth float64
	Death float64
}

// Lifetime returns Death - Birth, which is +Inf for essential intervals.
func (iv Interval) Lifetime() float64 {
	return iv.Death - iv.Birth
}

// Infinite reports whether the interval never dies.
func (iv Interval) Infinite() bool {
	return math.IsInf(iv.Death, 1)
}

// Diagram is a persistence diagram: a data-dependent, possibly empty list of
// intervals mixing homology dimensions.
type Diagram []Interval

// FilterDim returns the intervals of a single homology dimension.
func (d Diagram) FilterDim(dim int) Diagram {
	var out Diagram
	for _, iv := range d {
		if iv.Dim == dim {
			out = append(out, iv)
		}
	}
	return out
}
