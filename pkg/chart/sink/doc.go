// Package sink renders a computed [layout.Layout] into an output format.
//
// # Formats
//
//   - SVG: the primary output, written directly from the layout geometry
//   - PNG: raster output drawn with github.com/wcharczuk/go-chart/v2
//   - PDF: print output drawn with gonum.org/v1/plot
//   - JSON: the layout itself, for external tools and caching
//
// [Render] dispatches on a [Format]; each format also has its own entry
// point with functional options:
//
//	svg := sink.RenderSVG(l, sink.WithStylesheet(css))
//	png, err := sink.RenderPNG(l, sink.WithPNGScale(2))
//	pdf, err := sink.RenderPDF(l)
//	js, err := sink.RenderJSON(l, sink.WithJSONCompact())
//
// # SVG Output
//
// [RenderSVG] reproduces the element structure and class names of the
// browser charts it replaces: rect.bar for bars, path.limit-line for the
// confidence limits, rect.base-shading and rect.test-shading behind them,
// path.var1-line and path.var2-line for the series and text.legend-text for
// legend labels. A default stylesheet is embedded; [WithStylesheet] replaces
// it. Output is a pure function of the layout and options, so rendering the
// same layout twice yields byte-identical documents.
//
// PNG and PDF are drawn by their libraries from the same layout values
// (categories, data values, the value domain and the band) rather than by
// rasterizing the SVG, so they need no external converter.
//
// [layout.Layout]: github.com/matzehuels/ddcharts/pkg/chart/layout.Layout
package sink
