package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/scale"
)

// DefaultStylesheet styles the chart classes.
const DefaultStylesheet = `
    .bar { fill: steelblue; }
    .axis path, .axis line { fill: none; stroke: #000; shape-rendering: crispEdges; }
    .axis text { font: 10px sans-serif; fill: #000; }
    .axis-title { font: 12px sans-serif; fill: #000; }
    .limit-line { fill: none; stroke: #888; stroke-width: 1; stroke-dasharray: 4 2; }
    .base-shading { fill: steelblue; opacity: 0.1; }
    .test-shading { fill: orange; opacity: 0.1; }
    .var1-line { fill: none; stroke: steelblue; stroke-width: 2; }
    .var2-line { fill: none; stroke: orange; stroke-width: 2; }
    .legend-text { font: 12px sans-serif; fill: black; }`

const tickSize = 6

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	stylesheet string
	noTitle    bool
}

// WithStylesheet replaces the embedded stylesheet. An empty css omits the
// <style> element entirely.
func WithStylesheet(css string) SVGOption { return func(r *svgRenderer) { r.stylesheet = css } }

// WithoutTitle omits the <title> element.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.noTitle = true } }

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{stylesheet: DefaultStylesheet}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" class="chart chart-%s">`+"\n",
		l.FrameWidth, l.FrameHeight, l.FrameWidth, l.FrameHeight, l.Kind)
	if l.Title != "" && !r.noTitle {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(l.Title))
	}
	if r.stylesheet != "" {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", r.stylesheet)
	}

	off := l.Offset()
	fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f)">`+"\n", off, off)
	renderXAxis(&buf, l)
	renderYAxis(&buf, l)
	renderBars(&buf, l.Bars)
	for _, lim := range l.Limits {
		renderPath(&buf, lim.Class, lim.Points)
	}
	for _, s := range l.Shadings {
		renderRect(&buf, s.Class, s.Rect)
	}
	for _, s := range l.Series {
		renderPath(&buf, s.Class, s.Points)
	}
	renderLegend(&buf, l.Legend)
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderXAxis(buf *bytes.Buffer, l layout.Layout) {
	fmt.Fprintf(buf, `    <g class="axis axis-x" transform="translate(0,%.2f)">`+"\n", l.PlotHeight)
	fmt.Fprintf(buf, `      <path class="domain" d="M0,%dH%.2f"/>`+"\n", tickSize, l.PlotWidth)
	for _, t := range l.XAxis.Ticks {
		fmt.Fprintf(buf, `      <g class="tick" transform="translate(%.2f,0)"><line y2="%d"/><text y="%d" dy="0.71em" text-anchor="middle">%s</text></g>`+"\n",
			t.Pos, tickSize, tickSize+3, escapeXML(t.Label))
	}
	fmt.Fprintf(buf, `      <text class="axis-title" x="%.2f" y="%d" text-anchor="end">%s</text>`+"\n",
		l.PlotWidth, 3*tickSize+12, escapeXML(l.XAxis.Title))
	buf.WriteString("    </g>\n")
}

func renderYAxis(buf *bytes.Buffer, l layout.Layout) {
	buf.WriteString(`    <g class="axis axis-y">` + "\n")
	fmt.Fprintf(buf, `      <path class="domain" d="M-%d,%.2fH0V0H-%d"/>`+"\n", tickSize, l.PlotHeight, tickSize)
	for _, t := range l.YAxis.Ticks {
		fmt.Fprintf(buf, `      <g class="tick" transform="translate(0,%.2f)"><line x2="-%d"/><text x="-%d" dy="0.32em" text-anchor="end">%s</text></g>`+"\n",
			t.Pos, tickSize, tickSize+3, escapeXML(t.Label))
	}
	fmt.Fprintf(buf, `      <text class="axis-title" y="6" dy="0.71em" transform="rotate(-90)" text-anchor="end">%s</text>`+"\n",
		escapeXML(l.YAxis.Title))
	buf.WriteString("    </g>\n")
}

func renderBars(buf *bytes.Buffer, bars []layout.Bar) {
	for _, b := range bars {
		fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"><title>%s: %s</title></rect>`+"\n",
			layout.ClassBar, b.X, b.Y, b.W, b.H, escapeXML(b.Category), scale.TickFormat(b.Value))
	}
}

func renderRect(buf *bytes.Buffer, class string, r layout.Rect) {
	fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		class, r.X, r.Y, r.W, r.H)
}

func renderPath(buf *bytes.Buffer, class string, pts []layout.Point) {
	if len(pts) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <path class="%s" d="%s"/>`+"\n", class, pathData(pts))
}

func renderLegend(buf *bytes.Buffer, items []layout.LegendItem) {
	for _, it := range items {
		renderPath(buf, it.Class, []layout.Point{{X: it.X1, Y: it.Y}, {X: it.X2, Y: it.Y}})
	}
	for _, it := range items {
		fmt.Fprintf(buf, `    <text class="%s" x="%.2f" y="%.2f">%s</text>`+"\n",
			layout.ClassLegendText, it.TextX, it.TextY, escapeXML(it.Label))
	}
}

func pathData(pts []layout.Point) string {
	var b bytes.Buffer
	for i, p := range pts {
		cmd := 'L'
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(&b, "%c%.2f,%.2f", cmd, p.X, p.Y)
	}
	return b.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
