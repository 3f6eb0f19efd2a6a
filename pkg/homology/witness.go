package homology

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"tissuetopo/internal/models"
)

// WitnessParams configures the Euclidean relaxed witness complex.
type WitnessParams struct {
	// MaxAlphaSquare truncates the filtration: simplices needing a larger
	// squared relaxation never enter the complex.
	MaxAlphaSquare float64

	// LimitDimension caps the simplex dimension (2 builds up to triangles).
	LimitDimension int
}

// DefaultWitnessParams returns the fixed parameters used by the feature
// pipeline.
func DefaultWitnessParams() WitnessParams {
	return WitnessParams{MaxAlphaSquare: 0.1, LimitDimension: 2}
}

// WitnessDiagram computes the persistence diagram of the Euclidean relaxed
// witness complex on the given landmarks, guided by the witnesses.
//
// A witness w alpha-witnesses a k-simplex when the largest squared distance
// from w to a simplex vertex is at most w's (k+1)-th smallest squared
// landmark distance plus alpha. A simplex enters the filtration at the
// smallest alpha at which it and all its faces are witnessed, and the complex
// is truncated at MaxAlphaSquare.
func WitnessDiagram(landmarks, witnesses []models.Point, p WitnessParams) Diagram {
	if len(landmarks) == 0 || len(witnesses) == 0 {
		return nil
	}
	maxDim := p.LimitDimension
	if maxDim > 2 {
		maxDim = 2
	}
	alpha := p.MaxAlphaSquare

	set := make(landmarkSet, len(landmarks))
	for i, pt := range landmarks {
		set[i] = landmark{Point: pt, id: i}
	}
	tree := kdtree.New(set, true)

	vertexVal := make(map[int]float64)
	edgeVal := make(map[[2]int]float64)
	triVal := make(map[[3]int]float64)

	type cand struct {
		id   int
		dist float64 // squared
	}

	for _, w := range witnesses {
		q := landmark{Point: w, id: -1}

		// the maxDim+1 nearest landmark distances give the witnessing
		// thresholds d2[k] per simplex dimension k
		nk := kdtree.NewNKeeper(maxDim + 1)
		tree.NearestSet(nk, q)
		d2 := make([]float64, 0, maxDim+1)
		for _, item := range nk.Heap {
			if item.Comparable == nil {
				continue
			}
			d2 = append(d2, item.Dist)
		}
		if len(d2) == 0 {
			continue
		}
		sort.Float64s(d2)

		// every landmark this witness can support lies within the
		// loosest threshold plus alpha
		bound := d2[len(d2)-1] + alpha
		dk := kdtree.NewDistKeeper(bound)
		tree.NearestSet(dk, q)
		cands := make([]cand, 0, dk.Len())
		for _, item := range dk.Heap {
			if item.Comparable == nil {
				continue
			}
			cands = append(cands, cand{id: item.Comparable.(landmark).id, dist: item.Dist})
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

		for i, a := range cands {
			if r := a.dist - d2[0]; r <= alpha {
				updateMin(vertexVal, a.id, r)
			}
			if maxDim < 1 || len(d2) < 2 {
				continue
			}
			for j := i + 1; j < len(cands); j++ {
				b := cands[j]
				// cands are sorted, so b.dist is the edge max
				r := b.dist - d2[1]
				if r > alpha {
					break
				}
				updateMin(edgeVal, edgeKey(a.id, b.id), r)
				if maxDim < 2 || len(d2) < 3 {
					continue
				}
				for k := j + 1; k < len(cands); k++ {
					c := cands[k]
					rt := c.dist - d2[2]
					if rt > alpha {
						break
					}
					updateMin(triVal, triKey(a.id, b.id, c.id), rt)
				}
			}
		}
	}

	return witnessFiltration(vertexVal, edgeVal, triVal, alpha).persistence()
}

// witnessFiltration assembles the filtered complex from raw per-simplex
// relaxations, propagating face values upward so the filtration is monotone
// and dropping anything that ends above the alpha cutoff.
func witnessFiltration(vertexVal map[int]float64, edgeVal map[[2]int]float64, triVal map[[3]int]float64, alpha float64) *filtration {
	f := &filtration{}

	vertexCell := make(map[int]int)
	for _, id := range sortedKeys(vertexVal) {
		vertexCell[id] = len(f.cells)
		f.cells = append(f.cells, cell{dim: 0, value: vertexVal[id]})
	}

	edgeCell := make(map[[2]int]int)
	finalEdge := make(map[[2]int]float64)
	edges := make([][2]int, 0, len(edgeVal))
	for k := range edgeVal {
		edges = append(edges, k)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	for _, e := range edges {
		va, okA := vertexVal[e[0]]
		vb, okB := vertexVal[e[1]]
		if !okA || !okB {
			continue
		}
		v := max3(edgeVal[e], va, vb)
		if v > alpha {
			continue
		}
		edgeCell[e] = len(f.cells)
		finalEdge[e] = v
		f.cells = append(f.cells, cell{
			dim:      1,
			value:    v,
			boundary: []int{vertexCell[e[0]], vertexCell[e[1]]},
		})
	}

	tris := make([][3]int, 0, len(triVal))
	for k := range triVal {
		tris = append(tris, k)
	}
	sort.Slice(tris, func(i, j int) bool {
		if tris[i][0] != tris[j][0] {
			return tris[i][0] < tris[j][0]
		}
		if tris[i][1] != tris[j][1] {
			return tris[i][1] < tris[j][1]
		}
		return tris[i][2] < tris[j][2]
	})
	for _, t := range tris {
		e0 := [2]int{t[0], t[1]}
		e1 := [2]int{t[0], t[2]}
		e2 := [2]int{t[1], t[2]}
		f0, ok0 := finalEdge[e0]
		f1, ok1 := finalEdge[e1]
		f2, ok2 := finalEdge[e2]
		if !ok0 || !ok1 || !ok2 {
			continue
		}
		v := max3(triVal[t], f0, max3(f1, f2, 0))
		if v > alpha {
			continue
		}
		f.cells = append(f.cells, cell{
			dim:      2,
			value:    v,
			boundary: []int{edgeCell[e0], edgeCell[e1], edgeCell[e2]},
		})
	}

	return f
}

func updateMin[K comparable](m map[K]float64, k K, v float64) {
	if old, ok := m[k]; !ok || v < old {
		m[k] = v
	}
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func triKey(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func max3(a, b, c float64) float64 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
