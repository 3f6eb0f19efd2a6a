package homology

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"tissuetopo/internal/models"
)

// landmark tags a 2-D point with its index in the landmark sample so kd-tree
// query results can be mapped back to simplex vertices.
type landmark struct {
	models.Point
	id int
}

// Compare implements the kdtree.Comparable interface.
func (l landmark) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(landmark)
	switch d {
	case 0:
		return l.X - q.X
	case 1:
		return l.Y - q.Y
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree.
func (l landmark) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between two points. The
// witness relaxation works in squared distances throughout, so keeper Dist
// values are used directly.
func (l landmark) Distance(c kdtree.Comparable) float64 {
	q := c.(landmark)
	dx := l.X - q.X
	dy := l.Y - q.Y
	return dx*dx + dy*dy
}

// landmarkSet is a collection of landmarks that satisfies kdtree.Interface.
type landmarkSet []landmark

func (s landmarkSet) Index(i int) kdtree.Comparable         { return s[i] }
func (s landmarkSet) Len() int                              { return len(s) }
func (s landmarkSet) Slice(start, end int) kdtree.Interface { return s[start:end] }

// Pivot implements the kdtree.Interface method.
func (s landmarkSet) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(landmarkPlane{landmarkSet: s, Dim: d}, kdtree.MedianOfRandoms(landmarkPlane{landmarkSet: s, Dim: d}, 100))
}

// landmarkPlane implements sort.Interface and kdtree.SortSlicer for landmarkSet.
type landmarkPlane struct {
	landmarkSet
	kdtree.Dim
}

func (p landmarkPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.landmarkSet[i].X < p.landmarkSet[j].X
	case 1:
		return p.landmarkSet[i].Y < p.landmarkSet[j].Y
	default:
		panic("illegal dimension")
	}
}

func (p landmarkPlane) Slice(start, end int) kdtree.SortSlicer {
	return landmarkPlane{landmarkSet: p.landmarkSet[start:end], Dim: p.Dim}
}

func (p landmarkPlane) Swap(i, j int) {
	p.landmarkSet[i], p.landmarkSet[j] = p.landmarkSet[j], p.landmarkSet[i]
}
