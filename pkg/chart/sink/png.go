package sink

import (
	"bytes"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithPNGScale sets the PNG scale factor (default 1.0).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

type pngChart interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

var (
	colorVar1  = drawing.Color{R: 70, G: 130, B: 180, A: 255}
	colorVar2  = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorLimit = drawing.Color{R: 136, G: 136, B: 136, A: 255}
)

// RenderPNG draws the layout as a PNG image.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}

	var c pngChart
	switch l.Kind {
	case layout.KindBar:
		if len(l.Bars) == 0 {
			c = r.frame(l)
			break
		}
		c = r.barChart(l)
	case layout.KindLine:
		c = r.lineChart(l)
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind, "png: unknown chart kind %q", l.Kind)
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "png: render %s chart", l.Kind)
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) px(v float64) int { return int(v * r.scale) }

func (r pngRenderer) padding(l layout.Layout) chart.Box {
	m := r.px(l.Offset())
	return chart.Box{Top: m, Left: m, Right: m, Bottom: m}
}

func (r pngRenderer) barChart(l layout.Layout) chart.BarChart {
	bars := make([]chart.Value, len(l.Bars))
	for i, b := range l.Bars {
		bars[i] = chart.Value{
			Label: b.Category,
			Value: b.Value,
			Style: chart.Style{FillColor: colorVar1, StrokeColor: colorVar1},
		}
	}

	// One slot per bar so the total width never exceeds the plot.
	slot := l.PlotWidth / float64(len(l.Bars))
	width := l.Bars[0].W
	if width > slot {
		width = slot
	}

	return chart.BarChart{
		Title:      l.Title,
		Width:      r.px(l.FrameWidth),
		Height:     r.px(l.FrameHeight),
		DPI:        chart.DefaultDPI * r.scale,
		Background: chart.Style{Padding: r.padding(l)},
		BarWidth:   r.px(width),
		BarSpacing: r.px(slot - width),
		YAxis: chart.YAxis{
			Name:  l.YAxis.Title,
			Range: valueRange(l),
			Ticks: valueTicks(l.YAxis),
		},
		Bars: bars,
	}
}

func (r pngRenderer) lineChart(l layout.Layout) *chart.Chart {
	series := make([]chart.Series, 0, len(l.Limits)+len(l.Series))
	for _, lim := range l.Limits {
		if len(lim.Points) == 0 {
			continue
		}
		series = append(series, continuous(lim, chart.Style{
			StrokeColor:     colorLimit,
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 2},
		}))
	}
	for _, s := range l.Series {
		if len(s.Points) == 0 {
			continue
		}
		col := colorVar1
		if s.Class == layout.ClassVar2Line {
			col = colorVar2
		}
		series = append(series, continuous(s, chart.Style{StrokeColor: col, StrokeWidth: 2}))
	}
	if len(series) == 0 {
		return r.frame(l)
	}

	c := r.axes(l, pointTicks(l))
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

// frame draws the title and axes of a layout with nothing to plot.
// go-chart needs one series to lay out the axes, so an invisible one spans
// the plot.
func (r pngRenderer) frame(l layout.Layout) *chart.Chart {
	c := r.axes(l, edgeTicks(l, nil))
	lo := valueRange(l).Min
	c.Series = []chart.Series{chart.ContinuousSeries{
		Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		XValues: []float64{0, l.PlotWidth},
		YValues: []float64{lo, lo},
	}}
	return c
}

func (r pngRenderer) axes(l layout.Layout, xTicks []chart.Tick) *chart.Chart {
	return &chart.Chart{
		Title:      l.Title,
		Width:      r.px(l.FrameWidth),
		Height:     r.px(l.FrameHeight),
		DPI:        chart.DefaultDPI * r.scale,
		Background: chart.Style{Padding: r.padding(l)},
		XAxis: chart.XAxis{
			Name:  l.XAxis.Title,
			Range: &chart.ContinuousRange{Min: 0, Max: l.PlotWidth},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:  l.YAxis.Title,
			Range: valueRange(l),
			Ticks: valueTicks(l.YAxis),
		},
	}
}

// continuous plots a layout line against its x pixel positions, which keeps
// the point padding of the SVG output.
func continuous(line layout.Line, style chart.Style) chart.ContinuousSeries {
	xs := make([]float64, len(line.Points))
	for i, p := range line.Points {
		xs[i] = p.X
	}
	return chart.ContinuousSeries{
		Name:    line.Name,
		Style:   style,
		XValues: xs,
		YValues: line.Values,
	}
}

// pointTicks labels each x position of a line chart.
func pointTicks(l layout.Layout) []chart.Tick {
	ticks := make([]chart.Tick, len(l.XAxis.Ticks))
	for i, t := range l.XAxis.Ticks {
		ticks[i] = chart.Tick{Value: t.Pos, Label: t.Label}
	}
	return edgeTicks(l, ticks)
}

// edgeTicks adds unlabeled ticks at both ends of the plot. go-chart takes
// the x range from the ticks when any are given, and a single point would
// leave it empty.
func edgeTicks(l layout.Layout, ticks []chart.Tick) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > 0 {
		out = append(out, chart.Tick{Value: 0})
	}
	out = append(out, ticks...)
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < l.PlotWidth {
		out = append(out, chart.Tick{Value: l.PlotWidth})
	}
	return out
}

// valueRange returns the y domain, widened when it has no extent.
func valueRange(l layout.Layout) *chart.ContinuousRange {
	lo, hi := widen(l.YDomain.Min(), l.YDomain.Max())
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// widen gives an empty interval a unit of extent: [0, 1] around zero,
// one unit either side otherwise.
func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	if lo == 0 && hi == 0 {
		return 0, 1
	}
	return lo - 1, hi + 1
}

// valueTicks returns nil for fewer than two distinct ticks, leaving go-chart
// to generate its own.
func valueTicks(ax layout.Axis) []chart.Tick {
	if len(ax.Ticks) < 2 || ax.Ticks[0].Value == ax.Ticks[len(ax.Ticks)-1].Value {
		return nil
	}
	ticks := make([]chart.Tick, len(ax.Ticks))
	for i, t := range ax.Ticks {
		ticks[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}
	return ticks
}
