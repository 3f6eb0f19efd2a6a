// Package density assigns a cell type to every cell of a regular grid over
// the unit square, based on per-type Gaussian kernel density estimates of a
// labeled point pattern. The resulting grid is the shared substrate for all
// downstream cell-type-pair comparisons, so it is computed once per image.
package density

import (
	"gonum.org/v1/gonum/floats"

	"tissuetopo/internal/models"
)

// DefaultResolution is the grid resolution used when none is configured.
const DefaultResolution = 100

// DefaultBandwidthFactor is the covariance scaling factor of the kernel
// density estimator.
const DefaultBandwidthFactor = 0.5

// Grid is a square grid over [0,1]x[0,1] whose cells each hold one assigned
// cell type. Cell (row, col) is centered at (xs[col], ys[row]) where xs and
// ys are Res evenly spaced values from 0 to 1 inclusive.
type Grid struct {
	// Res is the grid resolution along each axis.
	Res int

	// Cells holds the assigned type per cell in row-major order.
	Cells []models.CellType
}

// At returns the assigned type of cell (row, col).
func (g *Grid) At(row, col int) models.CellType {
	return g.Cells[row*g.Res+col]
}

// Count returns how many cells are assigned the given type.
func (g *Grid) Count(t models.CellType) int {
	n := 0
	for _, c := range g.Cells {
		if c == t {
			n++
		}
	}
	return n
}

// Classifier evaluates per-type kernel density estimates on a fixed grid and
// assigns each cell the type with maximum density.
type Classifier struct {
	vocab  models.Vocabulary
	res    int
	factor float64
}

// NewClassifier returns a classifier for the given vocabulary. Non-positive
// resolution or bandwidth factor fall back to the defaults.
func NewClassifier(vocab models.Vocabulary, resolution int, bandwidthFactor float64) *Classifier {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	if bandwidthFactor <= 0 {
		bandwidthFactor = DefaultBandwidthFactor
	}
	return &Classifier{vocab: vocab, res: resolution, factor: bandwidthFactor}
}

// Classify fits one KDE per cell type with at least one point and evaluates
// all of them on every grid cell center. A type with zero points contributes
// zero density everywhere, so it can only win a cell if every density is zero
// there, in which case the lowest type index wins. The result is
// deterministic for identical input.
func (c *Classifier) Classify(ps *models.PointSet) *Grid {
	n := c.res * c.res
	centers := c.cellCenters()

	densities := make([][]float64, c.vocab.Len())
	for i := range densities {
		densities[i] = make([]float64, n)
		pts := ps.Subset(c.vocab.Label(models.CellType(i)))
		if len(pts) == 0 {
			continue
		}
		kde := newKDE(pts, c.factor)
		kde.evaluate(centers, densities[i])
	}

	grid := &Grid{Res: c.res, Cells: make([]models.CellType, n)}
	for cell := 0; cell < n; cell++ {
		best := 0
		for t := 1; t < len(densities); t++ {
			if densities[t][cell] > densities[best][cell] {
				best = t
			}
		}
		grid.Cells[cell] = models.CellType(best)
	}
	return grid
}

// cellCenters returns the grid cell centers in row-major order: Res values
// from 0 to 1 inclusive along each axis, x varying fastest.
func (c *Classifier) cellCenters() []models.Point {
	axis := make([]float64, c.res)
	if c.res == 1 {
		axis[0] = 0
	} else {
		floats.Span(axis, 0, 1)
	}

	centers := make([]models.Point, 0, c.res*c.res)
	for _, y := range axis {
		for _, x := range axis {
			centers = append(centers, models.Point{X: x, Y: y})
		}
	}
	return centers
}
