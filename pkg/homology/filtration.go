package homology

import (
	"math"
	"sort"
)

// cell is one cell of a filtered complex: its dimension, its filtration
// value, and the indices of its boundary facets within the same filtration.
// Builders must keep values monotone: no cell may appear before a facet.
type cell struct {
	dim      int
	value    float64
	boundary []int
}

// filtration is a filtered cell complex over Z/2 coefficients.
type filtration struct {
	cells []cell
}

// persistence reduces the boundary matrix in filtration order and collects
// the resulting intervals. Zero-persistence pairs are dropped, as are
// essential classes born at +Inf (cells that never actually enter the
// filtration, such as masked grid regions).
func (f *filtration) persistence() Diagram {
	n := len(f.cells)

	// order cells by (value, dim, insertion index); dimension second so a
	// cell never precedes its facets at equal value
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := f.cells[order[a]], f.cells[order[b]]
		if ca.value != cb.value {
			return ca.value < cb.value
		}
		return ca.dim < cb.dim
	})
	rank := make([]int, n) // original index -> position in filtration
	for pos, idx := range order {
		rank[idx] = pos
	}

	// reduced columns, indexed by filtration position; entries are sorted
	// filtration positions of boundary cells
	columns := make([][]int, n)
	pivotOwner := make([]int, n) // pivot position -> column that holds it
	for i := range pivotOwner {
		pivotOwner[i] = -1
	}

	var diagram Diagram
	paired := make([]bool, n)

	for pos, idx := range order {
		c := f.cells[idx]
		col := make([]int, len(c.boundary))
		for i, b := range c.boundary {
			col[i] = rank[b]
		}
		sort.Ints(col)

		for len(col) > 0 {
			pivot := col[len(col)-1]
			owner := pivotOwner[pivot]
			if owner == -1 {
				break
			}
			col = symmetricDifference(col, columns[owner])
		}

		if len(col) == 0 {
			// positive cell: creates a class, possibly essential
			continue
		}

		pivot := col[len(col)-1]
		pivotOwner[pivot] = pos
		columns[pos] = col
		paired[pivot] = true
		paired[pos] = true

		birthCell := f.cells[order[pivot]]
		if c.value > birthCell.value {
			diagram = append(diagram, Interval{
				Dim:   birthCell.dim,
				Birth: birthCell.value,
				Death: c.value,
			})
		}
	}

	// unpaired positive cells are essential classes
	for pos, idx := range order {
		if paired[pos] {
			continue
		}
		c := f.cells[idx]
		if math.IsInf(c.value, 1) {
			continue
		}
		diagram = append(diagram, Interval{
			Dim:   c.dim,
			Birth: c.value,
			Death: math.Inf(1),
		})
	}

	return diagram
}

// symmetricDifference merges two sorted index slices mod 2.
func symmetricDifference(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
