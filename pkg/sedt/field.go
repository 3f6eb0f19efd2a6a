// Package sedt derives signed Euclidean distance fields between two
// cell-type regions of a classified density grid. The field is the
// filtration input for cubical-complex persistence over the type pair's
// interface geometry.
package sedt

import (
	"math"

	"github.com/pkg/errors"

	"tissuetopo/internal/models"
	"tissuetopo/pkg/density"
)

// Field is a real-valued grid of the same shape as the density grid it was
// derived from. Cells belonging to neither compared type hold +Inf, which
// removes them from the sublevel filtration.
type Field struct {
	// Res is the grid resolution along each axis.
	Res int

	// Values holds the field in row-major order. Distances are measured
	// in grid-cell units.
	Values []float64
}

// Compute builds the signed field for the pair (t1, t2) over a classified
// grid. The value at a cell is the distance to the t2 region minus the depth
// inside the t1 region, so the t1 side of the interface sits below the t2
// side in the sublevel filtration. Cells of any other type are set to +Inf.
//
// A grid where either type claims no cells has no interface to analyze;
// Compute reports that as an error so the caller can substitute an
// all-missing result for the pair.
func Compute(g *density.Grid, t1, t2 models.CellType) (*Field, error) {
	if g.Count(t1) == 0 || g.Count(t2) == 0 {
		return nil, errors.Errorf("degenerate geometry: type %d or %d absent from grid", t1, t2)
	}

	n := g.Res * g.Res
	in1 := make([]bool, n)
	not2 := make([]bool, n)
	for i, c := range g.Cells {
		in1[i] = c == t1
		not2[i] = c != t2
	}

	// depth inside the t1 region: distance from t1 cells to the nearest
	// non-t1 cell
	depth1 := distanceTransform(in1, g.Res, g.Res)
	// distance from every non-t2 cell to the nearest t2 cell
	dist2 := distanceTransform(not2, g.Res, g.Res)

	f := &Field{Res: g.Res, Values: make([]float64, n)}
	for i := range f.Values {
		if c := g.Cells[i]; c != t1 && c != t2 {
			f.Values[i] = math.Inf(1)
			continue
		}
		f.Values[i] = dist2[i] - depth1[i]
	}
	return f, nil
}
