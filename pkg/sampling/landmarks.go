// Package sampling draws bounded-size landmark and witness subsets from the
// labeled point subsets of a cell-type pair, so that witness-complex
// construction stays tractable on dense images.
package sampling

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/sampleuv"

	"tissuetopo/internal/models"
)

const (
	// MinPoints is the smallest subset size that carries topological
	// signal; pairs below it are reported as insufficient data.
	MinPoints = 3

	// SmallImageDivisor sets the sample size to 1/10 of the larger subset
	// for images with at most CapThreshold points of the larger type.
	SmallImageDivisor = 10

	// CapThreshold is the larger-subset size above which the fixed cap
	// applies instead of the divisor rule.
	CapThreshold = 2000

	// SampleCap bounds the sample size for dense images.
	SampleCap = 200
)

// Sample holds the equal-size landmark and witness subsets for one pair.
// Landmarks come from the pair's first type, witnesses from its second.
type Sample struct {
	Landmarks []models.Point
	Witnesses []models.Point
}

// Size returns the sampling-rule size for subsets of the given lengths,
// before checking the MinPoints precondition: floor(m/10) for the larger
// subset size m up to CapThreshold, SampleCap beyond, clamped to
// [MinPoints, min(n1, n2)].
func Size(n1, n2 int) int {
	m := n1
	if n2 > m {
		m = n2
	}
	size := SampleCap
	if m <= CapThreshold {
		size = m / SmallImageDivisor
	}
	if n1 < size {
		size = n1
	}
	if n2 < size {
		size = n2
	}
	if size < MinPoints {
		size = MinPoints
	}
	return size
}

// Draw samples landmarks from pool1 and witnesses from pool2, independently
// and uniformly without replacement. The second return value is false when
// either pool has fewer than MinPoints points; such a pair is topologically
// uninformative and yields an empty diagram downstream rather than an error.
func Draw(pool1, pool2 []models.Point, src rand.Source) (*Sample, bool) {
	if len(pool1) < MinPoints || len(pool2) < MinPoints {
		return nil, false
	}

	size := Size(len(pool1), len(pool2))
	return &Sample{
		Landmarks: pick(pool1, size, src),
		Witnesses: pick(pool2, size, src),
	}, true
}

// pick draws n distinct points from the pool uniformly at random.
func pick(pool []models.Point, n int, src rand.Source) []models.Point {
	idx := make([]int, n)
	sampleuv.WithoutReplacement(idx, len(pool), src)

	out := make([]models.Point, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
