package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"tissuetopo/internal/models"
)

// ComplexType distinguishes the two persistence computations contributing to
// a record.
type ComplexType string

const (
	Cubical ComplexType = "cubical"
	Witness ComplexType = "witness"
)

// AggregateDim marks statistics computed over a whole diagram rather than a
// single homology dimension.
const AggregateDim = -1

// Key identifies one numeric field of a feature record. Records are keyed
// structurally; field names are produced only at the output boundary.
type Key struct {
	Complex ComplexType
	Pair    string // flat pair name, e.g. "tumor_immune"
	Dim     int    // homology dimension, or AggregateDim
	Stat    string
}

// String returns the flat field name, following the pattern
// {complex}_{pair}[_h{dim}]_{stat}.
func (k Key) String() string {
	if k.Dim == AggregateDim {
		return fmt.Sprintf("%s_%s_%s", k.Complex, k.Pair, k.Stat)
	}
	return fmt.Sprintf("%s_%s_h%d_%s", k.Complex, k.Pair, k.Dim, k.Stat)
}

// statNames lists the statistics of one summary in output order.
var statNames = []string{
	"birth_min", "birth_max", "birth_mean", "birth_std",
	"death_min", "death_max", "death_mean", "death_std",
	"lifetime_min", "lifetime_max", "lifetime_mean", "lifetime_std",
	"n_features",
}

// Record is one image's flat feature record. Missing values are NaN.
type Record map[Key]float64

// Merge copies all fields of other into r. Field key spaces of distinct
// pairs and complex types are disjoint, so merging per-pair records into one
// image record is conflict-free.
func (r Record) Merge(other Record) {
	for k, v := range other {
		r[k] = v
	}
}

// add writes one summary into the record under the given key prefix.
func (r Record) add(c ComplexType, pair string, dim int, s Stats) {
	values := []float64{
		s.BirthMin, s.BirthMax, s.BirthMean, s.BirthStd,
		s.DeathMin, s.DeathMax, s.DeathMean, s.DeathStd,
		s.LifetimeMin, s.LifetimeMax, s.LifetimeMean, s.LifetimeStd,
		float64(s.NFeatures),
	}
	for i, name := range statNames {
		r[Key{Complex: c, Pair: pair, Dim: dim, Stat: name}] = values[i]
	}
}

// Keys returns the full key space of a record in deterministic output order:
// pairs outermost, then cubical before witness, then dimension, then
// statistic. dims may be nil for aggregate-only records.
func Keys(pairs []models.Pair, dims []int) []Key {
	if len(dims) == 0 {
		dims = []int{AggregateDim}
	}
	var keys []Key
	for _, p := range pairs {
		for _, c := range []ComplexType{Cubical, Witness} {
			for _, d := range dims {
				for _, s := range statNames {
					keys = append(keys, Key{Complex: c, Pair: p.Name(), Dim: d, Stat: s})
				}
			}
		}
	}
	return keys
}

// WriteCSV writes one row per record with a leading image identifier column.
// Missing values (NaN) become empty cells; infinities are written as "inf"
// and "-inf".
func WriteCSV(w io.Writer, ids []string, records []Record, keys []Key) error {
	if len(ids) != len(records) {
		return errors.Errorf("got %d ids for %d records", len(ids), len(records))
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(keys)+1)
	header = append(header, "image")
	for _, k := range keys {
		header = append(header, k.String())
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}

	row := make([]string, len(keys)+1)
	for i, rec := range records {
		row[0] = ids[i]
		for j, k := range keys {
			row[j+1] = formatValue(rec[k])
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write record %s", ids[i])
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush output")
}

func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
