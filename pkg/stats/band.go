// Package stats computes the confidence band drawn behind line charts.
//
// A band is derived from the baseline partition of a record set: the records
// a [Predicate] selects (for example every row flagged "B"). Their mean and
// population standard deviation give a symmetric normal-approximation
// interval around a baseline index value:
//
//	lower = baseline - z*stddev
//	upper = baseline + z*stddev
//
// With the defaults (baseline 100, z 1.96) this is an approximate 95%
// interval around an index of 100. No small-sample correction is applied.
package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

const (
	// DefaultBaseline is the assumed index value the band is centered on.
	DefaultBaseline = 100.0

	// DefaultZ is the two-sided 95% normal quantile.
	DefaultZ = 1.96
)

// Predicate selects the baseline partition.
type Predicate func(dataset.Record) bool

// FieldEquals selects records whose field label displays as want.
func FieldEquals(label, want string) Predicate {
	return func(r dataset.Record) bool {
		v, ok := r.Get(label)
		return ok && v.String() == want
	}
}

// Options configures band computation. Zero values select the defaults.
type Options struct {
	// Baseline is the center of the band; nil selects DefaultBaseline, so a
	// band can be centered on zero. Ignored when DeriveBaseline is set.
	Baseline *float64

	// Z scales the standard deviation into the band half-width.
	Z float64

	// DeriveBaseline centers the band on the baseline partition's own mean
	// instead of the fixed Baseline value.
	DeriveBaseline bool
}

func (o Options) withDefaults() Options {
	if o.Baseline == nil {
		o.Baseline = BaselineAt(DefaultBaseline)
	}
	if o.Z == 0 {
		o.Z = DefaultZ
	}
	return o
}

// BaselineAt returns v as an explicit Options.Baseline.
func BaselineAt(v float64) *float64 { return &v }

// Band is a symmetric confidence interval and the statistics it came from.
type Band struct {
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stddev"`
	Baseline float64 `json:"baseline"`
	N        int     `json:"n"`
}

// Contains reports whether v lies within the band, bounds included.
func (b Band) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Compute derives the band from the numeric field of the records selected
// by pred. It fails with EMPTY_BASELINE when pred selects nothing and with
// TYPE_MISMATCH when a selected record holds a non-numeric field.
func Compute(records []dataset.Record, pred Predicate, field string, opts Options) (Band, error) {
	opts = opts.withDefaults()

	var values []float64
	for _, r := range records {
		if !pred(r) {
			continue
		}
		v, err := r.Number(field)
		if err != nil {
			return Band{}, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return Band{}, errors.New(errors.ErrCodeEmptyBaseline, "no baseline records for field %q", field)
	}

	mean, std := MeanStdDev(values)
	center := *opts.Baseline
	if opts.DeriveBaseline {
		center = mean
	}

	return Band{
		Lower:    center - opts.Z*std,
		Upper:    center + opts.Z*std,
		Mean:     mean,
		StdDev:   std,
		Baseline: center,
		N:        len(values),
	}, nil
}

// MeanStdDev returns the arithmetic mean and the population standard
// deviation (divisor n) of values. values must not be empty.
func MeanStdDev(values []float64) (mean, std float64) {
	return stat.PopMeanStdDev(values, nil)
}
