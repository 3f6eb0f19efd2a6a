// Package features reduces persistence diagrams to fixed-schema statistic
// records and orchestrates the full per-image extraction pipeline across
// cell-type pairs.
package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tissuetopo/pkg/homology"
)

// Policy controls how infinite death times are folded into statistics.
type Policy struct {
	// ExcludeInfinite drops intervals with infinite death entirely.
	ExcludeInfinite bool

	// MaxFiniteValue, when set and ExcludeInfinite is false, replaces
	// infinite deaths with a finite value. When nil the infinity is
	// retained and propagates into the resulting statistics.
	MaxFiniteValue *float64
}

// Stats is the fixed statistics record extracted from one diagram. The
// numeric fields are NaN when the diagram is empty after filtering; the
// schema never changes with diagram size, so records from heterogeneous
// images concatenate into fixed-width rows.
type Stats struct {
	BirthMin, BirthMax, BirthMean, BirthStd             float64
	DeathMin, DeathMax, DeathMean, DeathStd             float64
	LifetimeMin, LifetimeMax, LifetimeMean, LifetimeStd float64
	NFeatures                                           int
}

// Summarize reduces a diagram to summary statistics under the given infinite
// policy. It is a pure function of its inputs: min, max, arithmetic mean and
// population standard deviation over births, deaths and lifetimes, plus the
// retained interval count.
func Summarize(d homology.Diagram, pol Policy) Stats {
	var births, deaths []float64
	for _, iv := range d {
		death := iv.Death
		if iv.Infinite() {
			if pol.ExcludeInfinite {
				continue
			}
			if pol.MaxFiniteValue != nil {
				death = *pol.MaxFiniteValue
			}
		}
		births = append(births, iv.Birth)
		deaths = append(deaths, death)
	}

	if len(births) == 0 {
		return missingStats()
	}

	lifetimes := make([]float64, len(births))
	floats.SubTo(lifetimes, deaths, births)

	return Stats{
		BirthMin:     floats.Min(births),
		BirthMax:     floats.Max(births),
		BirthMean:    stat.Mean(births, nil),
		BirthStd:     popStd(births),
		DeathMin:     floats.Min(deaths),
		DeathMax:     floats.Max(deaths),
		DeathMean:    stat.Mean(deaths, nil),
		DeathStd:     popStd(deaths),
		LifetimeMin:  floats.Min(lifetimes),
		LifetimeMax:  floats.Max(lifetimes),
		LifetimeMean: stat.Mean(lifetimes, nil),
		LifetimeStd:  popStd(lifetimes),
		NFeatures:    len(births),
	}
}

// missingStats returns the all-missing record emitted for empty or fully
// filtered diagrams.
func missingStats() Stats {
	nan := math.NaN()
	return Stats{
		BirthMin: nan, BirthMax: nan, BirthMean: nan, BirthStd: nan,
		DeathMin: nan, DeathMax: nan, DeathMean: nan, DeathStd: nan,
		LifetimeMin: nan, LifetimeMax: nan, LifetimeMean: nan, LifetimeStd: nan,
		NFeatures: 0,
	}
}

// popStd is the population standard deviation (divisor n, not n-1).
func popStd(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
