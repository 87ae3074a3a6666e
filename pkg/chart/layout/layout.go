package layout

import (
	"strings"

	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/scale"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// Kind selects the chart type.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Kinds lists the supported chart kinds.
var Kinds = []Kind{KindBar, KindLine}

// ParseKind validates s as a chart kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindBar, KindLine:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "unknown chart kind %q (want bar or line)", s)
}

// SVG class names shared by layout and sinks.
const (
	ClassBar         = "bar"
	ClassLimitLine   = "limit-line"
	ClassBaseShading = "base-shading"
	ClassTestShading = "test-shading"
	ClassVar1Line    = "var1-line"
	ClassVar2Line    = "var2-line"
	ClassLegendText  = "legend-text"
)

// Layout is the positioned geometry of one chart.
type Layout struct {
	Kind        Kind         `json:"kind"`
	Title       string       `json:"title,omitempty"`
	FrameWidth  float64      `json:"width"`
	FrameHeight float64      `json:"height"`
	Margin      float64      `json:"margin"`
	PlotWidth   float64      `json:"plot_width"`
	PlotHeight  float64      `json:"plot_height"`
	XAxis       Axis         `json:"x_axis"`
	YAxis       Axis         `json:"y_axis"`
	YDomain     scale.Domain `json:"y_domain"`
	Bars        []Bar        `json:"bars,omitempty"`
	Limits      []Line       `json:"limits,omitempty"`
	Shadings    []Shading    `json:"shadings,omitempty"`
	Series      []Line       `json:"series,omitempty"`
	Legend      []LegendItem `json:"legend,omitempty"`
	Band        *stats.Band  `json:"band,omitempty"`
}

// Offset returns the translation of the plot area within the frame.
func (l Layout) Offset() float64 { return l.Margin / 2 }

// Axis is a titled axis with positioned ticks.
type Axis struct {
	Title string `json:"title"`
	Ticks []Tick `json:"ticks"`
}

// Tick is a labeled position along an axis. Value is the data value of
// ticks on the value axis and zero for categorical ticks.
type Tick struct {
	Label string  `json:"label"`
	Pos   float64 `json:"pos"`
	Value float64 `json:"value,omitempty"`
}

// Rect is an axis-aligned rectangle in plot coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// normalize flips negative extents so that W and H are never negative.
func (r Rect) normalize() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// Bar is one bar of a bar chart.
type Bar struct {
	Rect
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Point is a position in plot coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a polyline: a data series or a constant limit.
// Values holds the data value behind each point.
type Line struct {
	Name   string    `json:"name"`
	Class  string    `json:"class"`
	Points []Point   `json:"points"`
	Values []float64 `json:"values"`
}

// Shading is a filled rectangle behind the data.
type Shading struct {
	Rect
	Class string `json:"class"`
}

// LegendItem is a line swatch from X1 to X2 at Y with a label at TextX/TextY.
type LegendItem struct {
	Label string  `json:"label"`
	Class string  `json:"class"`
	X1    float64 `json:"x1"`
	X2    float64 `json:"x2"`
	Y     float64 `json:"y"`
	TextX float64 `json:"text_x"`
	TextY float64 `json:"text_y"`
}
