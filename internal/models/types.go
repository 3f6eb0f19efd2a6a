package models

// CellType indexes a category in an ordered vocabulary of cell-type labels.
// The index order matters: ties in density classification are broken toward
// the lowest index.
type CellType int

// Unknown marks a label that is not part of the vocabulary.
const Unknown CellType = -1

// Vocabulary is an ordered set of cell-type labels. The default biomedical
// vocabulary is {immune, stromal, tumor}, but any ordered label set works.
type Vocabulary []string

// DefaultVocabulary returns the standard three-type tissue vocabulary in its
// canonical order.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{"immune", "stromal", "tumor"}
}

// Index returns the type index for a label, or Unknown if the label is not
// part of the vocabulary.
func (v Vocabulary) Index(label string) CellType {
	for i, l := range v {
		if l == label {
			return CellType(i)
		}
	}
	return Unknown
}

// Label returns the label for a type index.
func (v Vocabulary) Label(t CellType) string {
	return v[t]
}

// Len returns the number of types in the vocabulary.
func (v Vocabulary) Len() int {
	return len(v)
}

// Pair names two cell types whose spatial relationship is analyzed.
type Pair struct {
	// A is the first cell type of the pair. For the cubical complex it is
	// the "inside" type of the signed field; for the witness complex its
	// points supply the landmarks.
	A string

	// B is the second cell type. Its points supply the witnesses.
	B string
}

// Name returns the flat pair name used in output column names, e.g.
// "tumor_immune".
func (p Pair) Name() string {
	return p.A + "_" + p.B
}

// DefaultPairs returns the three canonical cell-type pairs in the order they
// appear in output records.
func DefaultPairs() []Pair {
	return []Pair{
		{A: "tumor", B: "immune"},
		{A: "tumor", B: "stromal"},
		{A: "immune", B: "stromal"},
	}
}

// Point is a 2-D coordinate in the unit square.
type Point struct {
	X, Y float64
}

// PointSet is a labeled 2-D point pattern: parallel slices of coordinates and
// cell-type labels. It is built once per image by the loader and treated as
// immutable afterward.
type PointSet struct {
	// Points are the 2-D coordinates, one per observed cell.
	Points []Point

	// Labels are the raw cell-type labels, parallel to Points. Labels
	// outside the active vocabulary are retained here but never selected
	// by Subset.
	Labels []string
}

// Len returns the number of points in the set.
func (ps *PointSet) Len() int {
	return len(ps.Points)
}

// Subset returns the coordinates of every point carrying the given label.
// The returned slice is freshly allocated; mutating it does not affect the
// point set.
func (ps *PointSet) Subset(label string) []Point {
	var out []Point
	for i, l := range ps.Labels {
		if l == label {
			out = append(out, ps.Points[i])
		}
	}
	return out
}
