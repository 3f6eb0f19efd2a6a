package density

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"tissuetopo/internal/models"
)

// covarianceRidge is added to the diagonal of a degenerate bandwidth matrix
// (coincident or collinear points) so the estimator stays finite instead of
// failing the whole image. The value is in squared unit-square coordinates
// and corresponds to a kernel width of 1% of the image side.
const covarianceRidge = 1e-4

// kde is a 2-D Gaussian kernel density estimator with a full bandwidth
// matrix H = factor^2 * Cov(points).
type kde struct {
	points []models.Point

	// inverse bandwidth matrix entries (symmetric 2x2)
	inv00, inv01, inv11 float64

	// norm is the per-kernel normalization 1 / (2*pi*sqrt(det H) * n).
	norm float64
}

func newKDE(points []models.Point, factor float64) *kde {
	n := len(points)

	var h00, h01, h11 float64
	if n > 1 {
		data := mat.NewDense(n, 2, nil)
		for i, p := range points {
			data.Set(i, 0, p.X)
			data.Set(i, 1, p.Y)
		}
		cov := mat.NewSymDense(2, nil)
		stat.CovarianceMatrix(cov, data, nil)
		f2 := factor * factor
		h00 = f2 * cov.At(0, 0)
		h01 = f2 * cov.At(0, 1)
		h11 = f2 * cov.At(1, 1)
	}

	det := h00*h11 - h01*h01
	if !(det > covarianceRidge*covarianceRidge) || math.IsNaN(det) {
		h00 += covarianceRidge
		h11 += covarianceRidge
		det = h00*h11 - h01*h01
	}

	return &kde{
		points: points,
		inv00:  h11 / det,
		inv01:  -h01 / det,
		inv11:  h00 / det,
		norm:   1 / (2 * math.Pi * math.Sqrt(det) * float64(n)),
	}
}

// evaluate writes the density at each query point into out.
func (k *kde) evaluate(queries []models.Point, out []float64) {
	for i, q := range queries {
		sum := 0.0
		for _, p := range k.points {
			dx := q.X - p.X
			dy := q.Y - p.Y
			e := dx*dx*k.inv00 + 2*dx*dy*k.inv01 + dy*dy*k.inv11
			sum += math.Exp(-0.5 * e)
		}
		out[i] = sum * k.norm
	}
}
