package layout

import (
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/scale"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// Config holds the drawing parameters shared by all chart kinds.
// Zero fields are replaced by the defaults below.
type Config struct {
	Width   float64
	Height  float64
	Margin  float64
	Padding float64
	Ticks   int

	// Line chart only.
	LinePad      float64
	Band         stats.Options
	BaselineFlag string
	TestFlag     string
}

const (
	DefaultWidth   = 860.0
	DefaultHeight  = 500.0
	DefaultMargin  = 100.0
	DefaultPadding = 0.4
	DefaultTicks   = 10
)

// WithDefaults returns c with zero fields filled in.
func (c Config) WithDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.Padding <= 0 {
		c.Padding = DefaultPadding
	}
	if c.Ticks <= 0 {
		c.Ticks = DefaultTicks
	}
	if c.LinePad <= 0 {
		c.LinePad = scale.DefaultLinePad
	}
	if c.BaselineFlag == "" {
		c.BaselineFlag = dataset.FlagBaseline
	}
	if c.TestFlag == "" {
		c.TestFlag = dataset.FlagTest
	}
	return c
}

func (c Config) plotSize() (w, h float64) {
	return c.Width - c.Margin, c.Height - c.Margin
}
