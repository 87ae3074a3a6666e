// Package layout computes the geometry of a chart.
//
// A [Layout] is the complete, format-independent description of one
// rendered chart: the frame, both axes with their ticks, and every shape
// in plot coordinates. Sinks in package sink turn a Layout into SVG, PNG,
// PDF or JSON; they never look at the underlying records again.
//
// # Coordinates
//
// The plot area is the frame minus the margin and is drawn translated by
// half the margin on both axes. Inside the plot, x grows to the right and
// y grows downward; the value axis uses an inverted linear scale so that
// larger values sit higher up.
//
// # Chart kinds
//
// [BuildBar] uses the first column as the category and the second as the
// value. Bars sit on a band scale with padding and grow up from zero.
//
// [BuildLine] uses four columns: x, flag, series 1 and series 2. Records
// flagged as baseline feed the confidence band computed by package stats;
// the band is drawn as two limit lines with a shaded rectangle behind the
// baseline portion and another behind the test portion. Series 2 is drawn
// before series 1, followed by a two-entry legend in the top-right corner.
package layout
