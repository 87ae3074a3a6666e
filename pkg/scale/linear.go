package scale

import (
	"math"
	"strconv"
)

// Domain is a numeric [Min, Max] extent.
type Domain [2]float64

// Min returns the lower bound.
func (d Domain) Min() float64 { return d[0] }

// Max returns the upper bound.
func (d Domain) Max() float64 { return d[1] }

// Linear maps a numeric domain onto a pixel range by linear interpolation.
type Linear struct {
	domain Domain
	r0, r1 float64
}

// NewLinear creates a linear scale. Passing r0 > r1 inverts the direction,
// which charts use so that larger values sit higher on screen.
func NewLinear(d Domain, r0, r1 float64) *Linear {
	return &Linear{domain: d, r0: r0, r1: r1}
}

// Domain returns the numeric domain.
func (l *Linear) Domain() Domain { return l.domain }

// Range returns the pixel range.
func (l *Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Position maps v onto the range. Values outside the domain extrapolate.
// A degenerate domain (min == max) maps every value to the range midpoint.
func (l *Linear) Position(v float64) float64 {
	d0, d1 := l.domain[0], l.domain[1]
	t := 0.5
	if d1 != d0 {
		t = (v - d0) / (d1 - d0)
	}
	return l.r0 + t*(l.r1-l.r0)
}

// Ticks returns roughly count round values spanning the domain.
func (l *Linear) Ticks(count int) []float64 {
	return Ticks(l.domain[0], l.domain[1], count)
}

// TickFormat formats a tick value with the fewest digits that keep it exact.
func TickFormat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns round values in [start, stop], about count of them.
// Steps are 1, 2 or 5 times a power of ten.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		r0, r1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inc = -inc
		r0, r1 := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i/inc)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// tickIncrement returns the tick step for the extent. Negative results
// encode the reciprocal of a fractional step so that ticks stay exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
