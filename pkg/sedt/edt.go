package sedt

import "math"

// edtInf stands in for infinity inside the squared-distance transform. The
// lower-envelope recurrence degenerates to NaN on true infinities, so a large
// finite value is used instead; it exceeds any reachable squared distance on
// the grids this package handles.
const edtInf = 1e20

// distanceTransform computes the exact Euclidean distance from every
// foreground cell to the nearest background cell of a rows x cols mask in
// row-major order. Background cells get 0. The mask must contain at least one
// background cell.
//
// This is the two-pass lower-envelope algorithm of Felzenszwalb and
// Huttenlocher, which is exact for the Euclidean metric (no chessboard or
// manhattan approximation).
func distanceTransform(foreground []bool, rows, cols int) []float64 {
	sq := make([]float64, rows*cols)
	for i, fg := range foreground {
		if fg {
			sq[i] = edtInf
		}
	}

	size := cols
	if rows > size {
		size = rows
	}
	f := make([]float64, size)
	d := make([]float64, size)
	v := make([]int, size)
	z := make([]float64, size+1)

	// rows first, then columns
	for r := 0; r < rows; r++ {
		copy(f[:cols], sq[r*cols:(r+1)*cols])
		envelope(f[:cols], d[:cols], v, z)
		copy(sq[r*cols:(r+1)*cols], d[:cols])
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			f[r] = sq[r*cols+c]
		}
		envelope(f[:rows], d[:rows], v, z)
		for r := 0; r < rows; r++ {
			sq[r*cols+c] = d[r]
		}
	}

	for i, s := range sq {
		sq[i] = math.Sqrt(s)
	}
	return sq
}

// envelope performs the 1-D squared distance transform of sampled function f
// into d, using v and z as scratch space for the parabola lower envelope.
func envelope(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		for {
			p := v[k]
			s = ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*(q-p))
			if s <= z[k] {
				k--
				continue
			}
			break
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
