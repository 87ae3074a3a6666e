package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

func buildSample(t *testing.T, kind layout.Kind) layout.Layout {
	t.Helper()
	table := dataset.BarSample()
	if kind == layout.KindLine {
		table = dataset.LineSample()
	}
	records, err := table.Records()
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	l, err := layout.Build(kind, layout.Input{Title: "Sample <1>", Columns: table.Columns, Records: records}, layout.Config{})
	if err != nil {
		t.Fatalf("Build(%s) error: %v", kind, err)
	}
	return l
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{" pdf", FormatPDF, false},
		{"json", FormatJSON, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want INVALID_FORMAT", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFormatContentType(t *testing.T) {
	tests := map[Format]string{
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatPDF:  "application/pdf",
		FormatJSON: "application/json",
		"bin":      "application/octet-stream",
	}
	for f, want := range tests {
		if got := f.ContentType(); got != want {
			t.Errorf("%s.ContentType() = %q, want %q", f, got, want)
		}
	}
	if FormatSVG.Ext() != ".svg" {
		t.Errorf("Ext() = %q, want .svg", FormatSVG.Ext())
	}
}

func TestRenderSVGBar(t *testing.T) {
	svg := string(RenderSVG(buildSample(t, layout.KindBar)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 860.0 500.0"`) {
		t.Errorf("unexpected header: %.80s", svg)
	}
	if !strings.Contains(svg, "<title>Sample &lt;1&gt;</title>") {
		t.Error("title missing or not escaped")
	}
	if n := strings.Count(svg, `<rect class="bar"`); n != 8 {
		t.Errorf("bar count = %d, want 8", n)
	}
	if !strings.Contains(svg, `transform="translate(50.00,50.00)"`) {
		t.Error("plot group not translated by half the margin")
	}
	for _, want := range []string{">2000</text>", ">2007</text>", ">year</text>", ">value</text>", "<style>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(svg, "limit-line\"") {
		t.Error("bar chart contains limit lines")
	}
}

func TestRenderSVGLine(t *testing.T) {
	svg := string(RenderSVG(buildSample(t, layout.KindLine)))

	classes := map[string]int{
		`<path class="limit-line"`:   2,
		`<rect class="base-shading"`: 1,
		`<rect class="test-shading"`: 1,
		`<path class="var1-line"`:    2, // series + legend swatch
		`<path class="var2-line"`:    2,
		`<text class="legend-text"`:  2,
	}
	for tag, want := range classes {
		if got := strings.Count(svg, tag); got != want {
			t.Errorf("count(%s) = %d, want %d", tag, got, want)
		}
	}

	// Shapes are drawn in order: limits, shadings, var2, var1, legend.
	order := []string{`class="limit-line"`, `class="base-shading"`, `class="test-shading"`, `class="var2-line"`, `class="var1-line"`, `class="legend-text"`}
	last := -1
	for _, tag := range order {
		i := strings.Index(svg, tag)
		if i < last {
			t.Errorf("%s drawn before a preceding shape", tag)
		}
		last = i
	}
	if !strings.Contains(svg, `<text class="legend-text" x="690.00" y="20.00">Variable 1</text>`) {
		t.Error("legend label for series 1 missing or misplaced")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	for _, kind := range layout.Kinds {
		a := RenderSVG(buildSample(t, kind))
		b := RenderSVG(buildSample(t, kind))
		if !bytes.Equal(a, b) {
			t.Errorf("%s: rendering twice differs", kind)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := buildSample(t, layout.KindBar)

	svg := string(RenderSVG(l, WithoutTitle(), WithStylesheet("")))
	if strings.Contains(svg, "<title>Sample") {
		t.Error("WithoutTitle() kept the title")
	}
	if strings.Contains(svg, "<style>") {
		t.Error("empty stylesheet still emitted <style>")
	}

	svg = string(RenderSVG(l, WithStylesheet(".bar { fill: red; }")))
	if !strings.Contains(svg, ".bar { fill: red; }") || strings.Contains(svg, "steelblue") {
		t.Error("custom stylesheet not applied")
	}
}

func TestPathData(t *testing.T) {
	got := pathData([]layout.Point{{X: 0, Y: 1}, {X: 2.5, Y: 3}})
	if want := "M0.00,1.00L2.50,3.00"; got != want {
		t.Errorf("pathData() = %q, want %q", got, want)
	}
}

func TestRenderPNG(t *testing.T) {
	for _, kind := range layout.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			data, err := RenderPNG(buildSample(t, kind))
			if err != nil {
				t.Fatalf("RenderPNG() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("\x89PNG")) {
				t.Errorf("output is not a PNG: % x", data[:8])
			}
		})
	}
}

// buildTable lays out the given rows of a sample table, optionally with a
// precomputed band.
func buildTable(t *testing.T, kind layout.Kind, rows [][]dataset.Value, band *stats.Band) layout.Layout {
	t.Helper()
	table := dataset.BarSample()
	if kind == layout.KindLine {
		table = dataset.LineSample()
	}
	table.Payload.Rows = rows
	records, err := table.Records()
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	l, err := layout.Build(kind, layout.Input{Title: "Edge", Columns: table.Columns, Records: records, Band: band}, layout.Config{})
	if err != nil {
		t.Fatalf("Build(%s) error: %v", kind, err)
	}
	return l
}

func TestRenderRasterEdgeCases(t *testing.T) {
	zeros := [][]dataset.Value{
		{dataset.String("2000"), dataset.Number(0)},
		{dataset.String("2001"), dataset.Number(0)},
	}
	oneRow := [][]dataset.Value{
		{dataset.String("2020-01-01"), dataset.String(dataset.FlagBaseline), dataset.Number(100), dataset.Number(98)},
	}
	band := &stats.Band{Lower: 95, Upper: 105, Mean: 100, Baseline: 100}

	tests := []struct {
		name string
		kind layout.Kind
		rows [][]dataset.Value
		band *stats.Band
	}{
		{"all-zero bars", layout.KindBar, zeros, nil},
		{"single-row line", layout.KindLine, oneRow, nil},
		{"empty bar", layout.KindBar, nil, nil},
		{"empty line", layout.KindLine, nil, band},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := buildTable(t, tt.kind, tt.rows, tt.band)

			img, err := RenderPNG(l)
			if err != nil {
				t.Fatalf("RenderPNG() error = %v, want nil", err)
			}
			if !bytes.HasPrefix(img, []byte("\x89PNG")) {
				t.Errorf("RenderPNG() prefix = % x, want PNG signature", img[:8])
			}

			pdf, err := RenderPDF(l)
			if err != nil {
				t.Fatalf("RenderPDF() error = %v, want nil", err)
			}
			if !bytes.HasPrefix(pdf, []byte("%PDF")) {
				t.Errorf("RenderPDF() prefix = %q, want %%PDF", pdf[:8])
			}
		})
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 10, 0, 10},
		{0, 0, 0, 1},
		{5, 5, 4, 6},
		{-3, -3, -4, -2},
	}
	for _, tt := range tests {
		lo, hi := widen(tt.lo, tt.hi)
		if lo != tt.wantLo || hi != tt.wantHi {
			t.Errorf("widen(%v, %v) = %v, %v, want %v, %v", tt.lo, tt.hi, lo, hi, tt.wantLo, tt.wantHi)
		}
	}
}

func TestRenderPNGScale(t *testing.T) {
	l := buildSample(t, layout.KindBar)
	small, err := RenderPNG(l)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	large, err := RenderPNG(l, WithPNGScale(2))
	if err != nil {
		t.Fatalf("RenderPNG(WithPNGScale(2)) error: %v", err)
	}
	if got, want := pngWidth(t, large), 2*pngWidth(t, small); got != want {
		t.Errorf("scaled width = %d, want %d", got, want)
	}
}

func pngWidth(t *testing.T, data []byte) int {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error: %v", err)
	}
	return cfg.Width
}

func TestRenderPDF(t *testing.T) {
	for _, kind := range layout.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			data, err := RenderPDF(buildSample(t, kind), WithPDFGrid())
			if err != nil {
				t.Fatalf("RenderPDF() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Errorf("output is not a PDF: %q", data[:8])
			}
		})
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	l := buildSample(t, layout.KindLine)

	data, err := RenderJSON(l, WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("compact JSON contains newlines")
	}

	got, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if got.Kind != layout.KindLine || got.Band == nil || got.Band.Upper != l.Band.Upper {
		t.Errorf("round trip lost data: kind=%s band=%v", got.Kind, got.Band)
	}
	if !bytes.Equal(RenderSVG(got), RenderSVG(l)) {
		t.Error("SVG of the decoded layout differs from the original")
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"not json", "{", errors.ErrCodeInvalidInput},
		{"unknown kind", `{"kind":"pie"}`, errors.ErrCodeInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	l := buildSample(t, layout.KindBar)
	for _, f := range Formats {
		data, err := Render(l, f)
		if err != nil {
			t.Errorf("Render(%s) error: %v", f, err)
		}
		if len(data) == 0 {
			t.Errorf("Render(%s) returned no data", f)
		}
	}
	if _, err := Render(l, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
