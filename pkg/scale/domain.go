package scale

import (
	"math"

	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// DefaultLinePad widens the line chart domain beyond its data on both ends.
const DefaultLinePad = 2.0

// Categories returns the distinct display values of field in order of first
// appearance across records. Values that display alike are one category,
// whatever their kind, since an axis could not tell them apart.
func Categories(records []dataset.Record, field string) ([]string, error) {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		c, err := r.Category(field)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// BarDomain returns [0, max(field)]. The lower bound is always zero,
// whatever the sign of the data; an empty record set yields [0, 0].
func BarDomain(records []dataset.Record, field string) (Domain, error) {
	if len(records) == 0 {
		return Domain{0, 0}, nil
	}
	hi := math.Inf(-1)
	for _, r := range records {
		v, err := r.Number(field)
		if err != nil {
			return Domain{}, err
		}
		hi = math.Max(hi, v)
	}
	return Domain{0, hi}, nil
}

// LineDomain returns the extent of both series and the band, widened by pad
// on each side:
//
//	[min(y1, y2, band.Lower) - pad, max(y1, y2, band.Upper) + pad]
func LineDomain(records []dataset.Record, y1, y2 string, band stats.Band, pad float64) (Domain, error) {
	lo, hi := band.Lower, band.Upper
	for _, r := range records {
		for _, field := range [...]string{y1, y2} {
			v, err := r.Number(field)
			if err != nil {
				return Domain{}, err
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return Domain{lo - pad, hi + pad}, nil
}
