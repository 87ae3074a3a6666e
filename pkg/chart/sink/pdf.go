package sink

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

var (
	pdfVar1    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	pdfVar2    = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	pdfLimit   = color.RGBA{R: 136, G: 136, B: 136, A: 255}
	pdfBase    = color.RGBA{R: 70, G: 130, B: 180, A: 26}
	pdfTest    = color.RGBA{R: 255, G: 165, B: 0, A: 26}
	limitDash  = []vg.Length{vg.Points(4), vg.Points(2)}
	seriesLine = vg.Points(2)
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	grid bool
}

// WithPDFGrid adds a background grid.
func WithPDFGrid() PDFOption { return func(r *pdfRenderer) { r.grid = true } }

// RenderPDF draws the layout as a single-page PDF sized to the frame.
func RenderPDF(l layout.Layout, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	p := plot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.XAxis.Title
	p.Y.Label.Text = l.YAxis.Title
	p.Y.Min, p.Y.Max = widen(l.YDomain.Min(), l.YDomain.Max())
	if len(l.YAxis.Ticks) > 0 {
		p.Y.Tick.Marker = constantTicks(l.YAxis, func(t layout.Tick) float64 { return t.Value })
	}
	if r.grid {
		p.Add(plotter.NewGrid())
	}

	var err error
	switch l.Kind {
	case layout.KindBar:
		if len(l.Bars) == 0 {
			addFrame(p, l)
			break
		}
		err = addBars(p, l)
	case layout.KindLine:
		err = addLines(p, l)
	default:
		err = errors.New(errors.ErrCodeInvalidKind, "pdf: unknown chart kind %q", l.Kind)
	}
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(vg.Points(l.FrameWidth), vg.Points(l.FrameHeight), "pdf")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pdf: create writer")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pdf: write")
	}
	return buf.Bytes(), nil
}

// addFrame spans the x axis over the empty plot with no tick labels.
func addFrame(p *plot.Plot, l layout.Layout) {
	p.X.Min, p.X.Max = 0, l.PlotWidth
	p.X.Tick.Marker = plot.ConstantTicks{}
}

func addBars(p *plot.Plot, l layout.Layout) error {
	values := make(plotter.Values, len(l.Bars))
	labels := make([]string, len(l.Bars))
	for i, b := range l.Bars {
		values[i] = b.Value
		labels[i] = b.Category
	}

	// Bar width keeps its share of the slot it has in the SVG output.
	slot := l.PlotWidth / float64(len(l.Bars))
	frac := l.Bars[0].W / slot
	if frac > 1 {
		frac = 1
	}
	plotWidth := vg.Points(l.FrameWidth - l.Margin)

	bars, err := plotter.NewBarChart(values, plotWidth/vg.Length(len(l.Bars))*vg.Length(frac))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "pdf: bars")
	}
	bars.Color = pdfVar1
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

func addLines(p *plot.Plot, l layout.Layout) error {
	addFrame(p, l)
	if len(l.XAxis.Ticks) > 0 {
		p.X.Tick.Marker = constantTicks(l.XAxis, func(t layout.Tick) float64 { return t.Pos })
	}

	if l.Band != nil {
		for _, s := range l.Shadings {
			poly, err := plotter.NewPolygon(plotter.XYs{
				{X: s.X, Y: l.Band.Lower},
				{X: s.X + s.W, Y: l.Band.Lower},
				{X: s.X + s.W, Y: l.Band.Upper},
				{X: s.X, Y: l.Band.Upper},
			})
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "pdf: %s", s.Class)
			}
			poly.Color = pdfBase
			if s.Class == layout.ClassTestShading {
				poly.Color = pdfTest
			}
			poly.LineStyle.Width = 0
			p.Add(poly)
		}
	}

	for _, lim := range l.Limits {
		if len(lim.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys(lim))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "pdf: %s limit", lim.Name)
		}
		line.Color = pdfLimit
		line.Dashes = limitDash
		p.Add(line)
	}

	for _, s := range l.Series {
		if len(s.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys(s))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "pdf: series %s", s.Name)
		}
		line.Color = pdfVar1
		if s.Class == layout.ClassVar2Line {
			line.Color = pdfVar2
		}
		line.Width = seriesLine
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true
	return nil
}

func xys(line layout.Line) plotter.XYs {
	pts := make(plotter.XYs, len(line.Points))
	for i, pt := range line.Points {
		pts[i] = plotter.XY{X: pt.X, Y: line.Values[i]}
	}
	return pts
}

func constantTicks(ax layout.Axis, at func(layout.Tick) float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(ax.Ticks))
	for i, t := range ax.Ticks {
		ticks[i] = plot.Tick{Value: at(t), Label: t.Label}
	}
	return ticks
}
