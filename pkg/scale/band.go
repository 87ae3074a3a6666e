package scale

import (
	"math"

	"github.com/matzehuels/ddcharts/pkg/errors"
)

// ordinal is the shared category index of Band and Point.
type ordinal struct {
	domain []string
	index  map[string]int
}

func newOrdinal(domain []string) ordinal {
	o := ordinal{index: make(map[string]int, len(domain))}
	for _, v := range domain {
		if _, dup := o.index[v]; dup {
			continue
		}
		o.index[v] = len(o.domain)
		o.domain = append(o.domain, v)
	}
	return o
}

// Band maps categories onto equal-width bands with padding between them.
type Band struct {
	ordinal
	r0, r1    float64
	padding   float64
	step      float64
	bandwidth float64
	start     float64
}

// NewBand creates a band scale over domain spanning [r0, r1]. padding is the
// fraction of a step left empty between bands and at both ends, clamped to
// [0, 1]. Duplicate domain entries are ignored after their first occurrence.
func NewBand(domain []string, r0, r1, padding float64) *Band {
	p := clamp01(padding)
	b := &Band{ordinal: newOrdinal(domain), r0: r0, r1: r1, padding: p}
	b.step, b.start = layout(len(b.domain), r0, r1, p, p)
	b.bandwidth = b.step * (1 - p)
	return b
}

// Domain returns the categories in order. The slice must not be modified.
func (b *Band) Domain() []string { return b.domain }

// Range returns the pixel range.
func (b *Band) Range() (float64, float64) { return b.r0, b.r1 }

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Position returns the start of the band for v. ok is false when v is not
// part of the domain.
func (b *Band) Position(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the midpoint of the band for v.
func (b *Band) Center(v string) (float64, bool) {
	x, ok := b.Position(v)
	return x + b.bandwidth/2, ok
}

// Lookup is Position with an OUT_OF_DOMAIN error for unknown values.
func (b *Band) Lookup(v string) (float64, error) {
	x, ok := b.Position(v)
	if !ok {
		return 0, outOfDomain(v)
	}
	return x, nil
}

// Point maps categories onto evenly spaced points.
type Point struct {
	ordinal
	r0, r1  float64
	padding float64
	step    float64
	start   float64
}

// NewPoint creates a point scale over domain spanning [r0, r1]. padding is
// the outer padding in multiples of the step, clamped to be non-negative.
func NewPoint(domain []string, r0, r1, padding float64) *Point {
	p := math.Max(0, padding)
	s := &Point{ordinal: newOrdinal(domain), r0: r0, r1: r1, padding: p}
	s.step, s.start = layout(len(s.domain), r0, r1, 1, p)
	return s
}

// Domain returns the categories in order. The slice must not be modified.
func (s *Point) Domain() []string { return s.domain }

// Range returns the pixel range.
func (s *Point) Range() (float64, float64) { return s.r0, s.r1 }

// Step returns the distance between adjacent points.
func (s *Point) Step() float64 { return s.step }

// Position returns the coordinate for v. ok is false when v is not part of
// the domain.
func (s *Point) Position(v string) (float64, bool) {
	i, ok := s.index[v]
	if !ok {
		return 0, false
	}
	return s.start + s.step*float64(i), true
}

// Lookup is Position with an OUT_OF_DOMAIN error for unknown values.
func (s *Point) Lookup(v string) (float64, error) {
	x, ok := s.Position(v)
	if !ok {
		return 0, outOfDomain(v)
	}
	return x, nil
}

// layout computes the step and the first position for n categories with
// the given inner/outer padding, centered within [r0, r1].
func layout(n int, r0, r1, inner, outer float64) (step, start float64) {
	span := r1 - r0
	step = span / math.Max(1, float64(n)-inner+2*outer)
	start = r0 + (span-step*(float64(n)-inner))*0.5
	return step, start
}

func outOfDomain(v string) error {
	return errors.New(errors.ErrCodeOutOfDomain, "value %q is not in the categorical domain", v)
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
