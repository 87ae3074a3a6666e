package layout

import (
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/scale"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// Input is the normalized data for one chart.
type Input struct {
	Title   string
	Columns []dataset.ColumnDescriptor
	Records []dataset.Record

	// Band, when set, is used by line charts instead of computing one
	// from Records.
	Band *stats.Band
}

// Build dispatches to the builder for kind.
func Build(kind Kind, in Input, cfg Config) (Layout, error) {
	switch kind {
	case KindBar:
		return BuildBar(in, cfg)
	case KindLine:
		return BuildLine(in, cfg)
	}
	return Layout{}, errors.New(errors.ErrCodeInvalidKind, "unknown chart kind %q", kind)
}

// Required column count per chart kind.
const (
	barColumns  = 2
	lineColumns = 4
)

func requireColumns(kind Kind, columns []dataset.ColumnDescriptor, n int) error {
	if len(columns) < n {
		return errors.New(errors.ErrCodeMalformedPayload,
			"%s chart needs %d columns, got %d", kind, n, len(columns))
	}
	return nil
}

func newLayout(kind Kind, title string, cfg Config) Layout {
	w, h := cfg.plotSize()
	return Layout{
		Kind:        kind,
		Title:       title,
		FrameWidth:  cfg.Width,
		FrameHeight: cfg.Height,
		Margin:      cfg.Margin,
		PlotWidth:   w,
		PlotHeight:  h,
	}
}

// BuildBar lays out a bar chart over columns[0] (category) and
// columns[1] (value).
func BuildBar(in Input, cfg Config) (Layout, error) {
	cfg = cfg.WithDefaults()
	if err := requireColumns(KindBar, in.Columns, barColumns); err != nil {
		return Layout{}, err
	}
	xLabel, yLabel := in.Columns[0].Label, in.Columns[1].Label

	l := newLayout(KindBar, in.Title, cfg)

	cats, err := scale.Categories(in.Records, xLabel)
	if err != nil {
		return Layout{}, err
	}
	x := scale.NewBand(cats, 0, l.PlotWidth, cfg.Padding)

	dom, err := scale.BarDomain(in.Records, yLabel)
	if err != nil {
		return Layout{}, err
	}
	y := scale.NewLinear(dom, l.PlotHeight, 0)
	l.YDomain = dom

	l.Bars = make([]Bar, 0, len(in.Records))
	for _, r := range in.Records {
		cat, err := r.Category(xLabel)
		if err != nil {
			return Layout{}, err
		}
		v, err := r.Number(yLabel)
		if err != nil {
			return Layout{}, err
		}
		bx, err := x.Lookup(cat)
		if err != nil {
			return Layout{}, err
		}
		by := y.Position(v)
		rect := Rect{X: bx, Y: by, W: x.Bandwidth(), H: l.PlotHeight - by}
		l.Bars = append(l.Bars, Bar{Rect: rect.normalize(), Category: cat, Value: v})
	}

	l.XAxis = bandAxis(xLabel, x)
	l.YAxis = valueAxis(yLabel, y, cfg.Ticks)
	return l, nil
}

// BuildLine lays out a line chart over columns[0] (x), columns[1] (flag),
// columns[2] (series 1) and columns[3] (series 2). The confidence band is
// computed from series 1 of the records whose flag equals cfg.BaselineFlag.
func BuildLine(in Input, cfg Config) (Layout, error) {
	cfg = cfg.WithDefaults()
	if err := requireColumns(KindLine, in.Columns, lineColumns); err != nil {
		return Layout{}, err
	}
	xLabel, flagLabel := in.Columns[0].Label, in.Columns[1].Label
	y1Label, y2Label := in.Columns[2].Label, in.Columns[3].Label

	band, err := LineBand(in, cfg)
	if err != nil {
		return Layout{}, err
	}

	l := newLayout(KindLine, in.Title, cfg)
	l.Band = &band

	cats, err := scale.Categories(in.Records, xLabel)
	if err != nil {
		return Layout{}, err
	}
	x := scale.NewPoint(cats, 0, l.PlotWidth, cfg.Padding)

	dom, err := scale.LineDomain(in.Records, y1Label, y2Label, band, cfg.LinePad)
	if err != nil {
		return Layout{}, err
	}
	y := scale.NewLinear(dom, l.PlotHeight, 0)
	l.YDomain = dom

	xs := make([]float64, len(in.Records))
	testIdx := -1
	for i, r := range in.Records {
		cat, err := r.Category(xLabel)
		if err != nil {
			return Layout{}, err
		}
		if xs[i], err = x.Lookup(cat); err != nil {
			return Layout{}, err
		}
		if testIdx < 0 {
			if f, ok := r.Get(flagLabel); ok && f.String() == cfg.TestFlag {
				testIdx = i
			}
		}
	}

	l.Limits = []Line{
		constantLine("lower", band.Lower, xs, y),
		constantLine("upper", band.Upper, xs, y),
	}
	l.Shadings = shadings(xs, testIdx, y.Position(band.Upper), y.Position(band.Lower))

	var2, err := seriesLine(y2Label, ClassVar2Line, in.Records, xs, y)
	if err != nil {
		return Layout{}, err
	}
	var1, err := seriesLine(y1Label, ClassVar1Line, in.Records, xs, y)
	if err != nil {
		return Layout{}, err
	}
	l.Series = []Line{var2, var1}
	l.Legend = legend(l.PlotWidth, y1Label, y2Label)

	l.XAxis = pointAxis(xLabel, x)
	l.YAxis = valueAxis(y1Label, y, cfg.Ticks)
	return l, nil
}

// LineBand returns in.Band if set, otherwise the confidence band of series 1
// over the records flagged cfg.BaselineFlag.
func LineBand(in Input, cfg Config) (stats.Band, error) {
	if in.Band != nil {
		return *in.Band, nil
	}
	cfg = cfg.WithDefaults()
	if err := requireColumns(KindLine, in.Columns, lineColumns); err != nil {
		return stats.Band{}, err
	}
	pred := stats.FieldEquals(in.Columns[1].Label, cfg.BaselineFlag)
	return stats.Compute(in.Records, pred, in.Columns[2].Label, cfg.Band)
}

func constantLine(name string, v float64, xs []float64, y *scale.Linear) Line {
	py := y.Position(v)
	line := Line{Name: name, Class: ClassLimitLine}
	for _, px := range xs {
		line.Points = append(line.Points, Point{X: px, Y: py})
		line.Values = append(line.Values, v)
	}
	return line
}

func seriesLine(label, class string, records []dataset.Record, xs []float64, y *scale.Linear) (Line, error) {
	line := Line{
		Name:   label,
		Class:  class,
		Points: make([]Point, 0, len(records)),
		Values: make([]float64, 0, len(records)),
	}
	for i, r := range records {
		v, err := r.Number(label)
		if err != nil {
			return Line{}, err
		}
		line.Points = append(line.Points, Point{X: xs[i], Y: y.Position(v)})
		line.Values = append(line.Values, v)
	}
	return line, nil
}

// shadings covers the baseline period from the first x up to the first test
// record and the test period from there to the last x. Without test records
// the base shading spans all records and no test shading is produced.
func shadings(xs []float64, testIdx int, top, bottom float64) []Shading {
	if len(xs) == 0 {
		return nil
	}
	first, last := xs[0], xs[len(xs)-1]
	split := last
	if testIdx >= 0 {
		split = xs[testIdx]
	}

	out := []Shading{{
		Class: ClassBaseShading,
		Rect:  Rect{X: first, Y: top, W: split - first, H: bottom - top}.normalize(),
	}}
	if testIdx >= 0 {
		out = append(out, Shading{
			Class: ClassTestShading,
			Rect:  Rect{X: split, Y: top, W: last - split, H: bottom - top}.normalize(),
		})
	}
	return out
}

func legend(plotWidth float64, y1Label, y2Label string) []LegendItem {
	return []LegendItem{
		{Label: y1Label, Class: ClassVar1Line, X1: plotWidth - 80, X2: plotWidth - 120, Y: 15, TextX: plotWidth - 70, TextY: 20},
		{Label: y2Label, Class: ClassVar2Line, X1: plotWidth - 80, X2: plotWidth - 120, Y: 35, TextX: plotWidth - 70, TextY: 40},
	}
}

func bandAxis(title string, x *scale.Band) Axis {
	ax := Axis{Title: title, Ticks: make([]Tick, 0, len(x.Domain()))}
	for _, c := range x.Domain() {
		pos, _ := x.Center(c)
		ax.Ticks = append(ax.Ticks, Tick{Label: c, Pos: pos})
	}
	return ax
}

func pointAxis(title string, x *scale.Point) Axis {
	ax := Axis{Title: title, Ticks: make([]Tick, 0, len(x.Domain()))}
	for _, c := range x.Domain() {
		pos, _ := x.Position(c)
		ax.Ticks = append(ax.Ticks, Tick{Label: c, Pos: pos})
	}
	return ax
}

func valueAxis(title string, y *scale.Linear, count int) Axis {
	values := y.Ticks(count)
	ax := Axis{Title: title, Ticks: make([]Tick, 0, len(values))}
	for _, v := range values {
		ax.Ticks = append(ax.Ticks, Tick{Label: scale.TickFormat(v), Pos: y.Position(v), Value: v})
	}
	return ax
}
