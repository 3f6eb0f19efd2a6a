package homology

import "math"

// CubicalDiagram computes the persistence diagram of the sublevel filtration
// of a rows x cols scalar grid, read in row-major order. Grid cells are the
// top-dimensional cells of the complex; every vertex and edge takes the
// minimum value over the grid cells it touches, so two neighboring cells are
// connected as soon as the later of the two appears. Cells holding +Inf never
// contribute intervals.
func CubicalDiagram(values []float64, rows, cols int) Diagram {
	if rows <= 0 || cols <= 0 || len(values) != rows*cols {
		return nil
	}

	vCount := (rows + 1) * (cols + 1)
	hCount := (rows + 1) * cols
	tCount := rows * (cols + 1)

	vertex := func(r, c int) int { return r*(cols+1) + c }
	hEdge := func(r, c int) int { return vCount + r*cols + c }
	vEdge := func(r, c int) int { return vCount + hCount + r*(cols+1) + c }
	square := func(r, c int) int { return vCount + hCount + tCount + r*cols + c }

	pixel := func(r, c int) float64 {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return math.Inf(1)
		}
		return values[r*cols+c]
	}

	cells := make([]cell, vCount+hCount+tCount+rows*cols)

	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			v := math.Min(
				math.Min(pixel(r-1, c-1), pixel(r-1, c)),
				math.Min(pixel(r, c-1), pixel(r, c)),
			)
			cells[vertex(r, c)] = cell{dim: 0, value: v}
		}
	}
	for r := 0; r <= rows; r++ {
		for c := 0; c < cols; c++ {
			cells[hEdge(r, c)] = cell{
				dim:      1,
				value:    math.Min(pixel(r-1, c), pixel(r, c)),
				boundary: []int{vertex(r, c), vertex(r, c+1)},
			}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c <= cols; c++ {
			cells[vEdge(r, c)] = cell{
				dim:      1,
				value:    math.Min(pixel(r, c-1), pixel(r, c)),
				boundary: []int{vertex(r, c), vertex(r+1, c)},
			}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells[square(r, c)] = cell{
				dim:      2,
				value:    pixel(r, c),
				boundary: []int{hEdge(r, c), hEdge(r+1, c), vEdge(r, c), vEdge(r, c+1)},
			}
		}
	}

	f := filtration{cells: cells}
	return f.persistence()
}
