// Package pipeline turns host messages into rendered charts.
//
// Every inbound message runs one synchronous render cycle through a fixed
// sequence of phases:
//
//  1. Receiving: decode the message and pick live data or the sample dataset
//  2. Normalizing: zip column descriptors and rows into records
//  3. ComputingBand: derive the confidence band (line charts only)
//  4. Scaling: map data to a chart layout in plot coordinates
//  5. Drawing: render the layout into the requested output formats
//
// A cycle that fails in any phase leaves the [ChartState] holding the
// previous good render. Only a cycle that completes Drawing replaces it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	state := pipeline.NewChartState(layout.KindBar)
//	opts := pipeline.Options{Formats: []sink.Format{sink.FormatSVG}}
//	result, err := runner.Cycle(ctx, state, raw, opts)
//	if errors.Is(err, message.ErrIgnored) {
//	    return // not addressed to the chart
//	}
//	svg := state.Last().Artifacts[sink.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/message"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = sink.FormatSVG

// MaxPNGScale bounds Options.PNGScale.
const MaxPNGScale = 4

// =============================================================================
// Options - Cycle Configuration
// =============================================================================

// Options configures one render cycle. Zero values select defaults.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Kind must match the chart state it runs against. Empty means the
	// state's own kind.
	Kind    layout.Kind   `json:"kind,omitempty"`
	Formats []sink.Format `json:"formats,omitempty"`

	// PNGScale multiplies the pixel size of PNG output. Zero means 1.
	PNGScale float64 `json:"png_scale,omitempty"`

	// Frame and axes
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Margin  float64 `json:"margin,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Ticks   int     `json:"ticks,omitempty"`

	// Line chart band. A nil Baseline selects the default; 0 is a valid
	// center.
	Baseline       *float64 `json:"baseline,omitempty"`
	Z              float64  `json:"z,omitempty"`
	DeriveBaseline bool     `json:"derive_baseline,omitempty"`
	LinePad        float64  `json:"line_pad,omitempty"`
	BaselineFlag   string   `json:"baseline_flag,omitempty"`
	TestFlag       string   `json:"test_flag,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// OptionsFromConfig copies drawing parameters from c.
func OptionsFromConfig(kind layout.Kind, c layout.Config) Options {
	return Options{
		Kind:           kind,
		Width:          c.Width,
		Height:         c.Height,
		Margin:         c.Margin,
		Padding:        c.Padding,
		Ticks:          c.Ticks,
		Baseline:       c.Band.Baseline,
		Z:              c.Band.Z,
		DeriveBaseline: c.Band.DeriveBaseline,
		LinePad:        c.LinePad,
		BaselineFlag:   c.BaselineFlag,
		TestFlag:       c.TestFlag,
	}
}

// ValidateAndSetDefaults checks the options and fills every zero field.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Kind != "" {
		kind, err := layout.ParseKind(string(o.Kind))
		if err != nil {
			return err
		}
		o.Kind = kind
	}

	if len(o.Formats) == 0 {
		o.Formats = []sink.Format{DefaultFormat}
	}
	seen := make(map[sink.Format]bool, len(o.Formats))
	formats := make([]sink.Format, 0, len(o.Formats))
	for _, f := range o.Formats {
		parsed, err := sink.ParseFormat(string(f))
		if err != nil {
			return err
		}
		if !seen[parsed] {
			seen[parsed] = true
			formats = append(formats, parsed)
		}
	}
	o.Formats = formats

	c := o.LayoutConfig().WithDefaults()
	o.Width, o.Height, o.Margin = c.Width, c.Height, c.Margin
	o.Padding, o.Ticks, o.LinePad = c.Padding, c.Ticks, c.LinePad
	o.BaselineFlag, o.TestFlag = c.BaselineFlag, c.TestFlag
	if o.Baseline == nil {
		o.Baseline = stats.BaselineAt(stats.DefaultBaseline)
	}
	if o.Z == 0 {
		o.Z = stats.DefaultZ
	}
	if o.PNGScale == 0 {
		o.PNGScale = 1
	}

	switch {
	case o.Margin >= o.Width || o.Margin >= o.Height:
		return errors.New(errors.ErrCodeInvalidInput, "margin %g leaves no plot area in %gx%g", o.Margin, o.Width, o.Height)
	case o.Padding >= 1:
		return errors.New(errors.ErrCodeInvalidInput, "padding %g must be below 1", o.Padding)
	case o.Z < 0:
		return errors.New(errors.ErrCodeInvalidInput, "z %g must be positive", o.Z)
	case o.PNGScale < 0 || o.PNGScale > MaxPNGScale:
		return errors.New(errors.ErrCodeInvalidInput, "png scale %g must be in (0, %g]", o.PNGScale, float64(MaxPNGScale))
	case o.BaselineFlag == o.TestFlag:
		return errors.New(errors.ErrCodeInvalidInput, "baseline and test flag are both %q", o.TestFlag)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutConfig returns the drawing parameters for the layout builders.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Width:   o.Width,
		Height:  o.Height,
		Margin:  o.Margin,
		Padding: o.Padding,
		Ticks:   o.Ticks,
		LinePad: o.LinePad,
		Band: stats.Options{
			Baseline:       o.Baseline,
			Z:              o.Z,
			DeriveBaseline: o.DeriveBaseline,
		},
		BaselineFlag: o.BaselineFlag,
		TestFlag:     o.TestFlag,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
// Band settings only enter the key for line charts.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Kind:    string(o.Kind),
		Width:   o.Width,
		Height:  o.Height,
		Margin:  o.Margin,
		Padding: o.Padding,
		Ticks:   o.Ticks,
	}
	if o.Kind == layout.KindLine {
		k.Baseline = o.Baseline
		k.Z = o.Z
		k.DeriveBaseline = o.DeriveBaseline
		k.LinePad = o.LinePad
		k.BaselineFlag = o.BaselineFlag
		k.TestFlag = o.TestFlag
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(f sink.Format) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: string(f)}
	if f == sink.FormatPNG {
		k.Scale = o.PNGScale
	}
	return k
}

// =============================================================================
// Result - Cycle Output
// =============================================================================

// Result is one completed render.
type Result struct {
	// ResultName is the host's name for the data, used as the chart title.
	ResultName string

	Kind layout.Kind

	// Mode tells whether the data came from the message or the sample set.
	Mode message.Mode

	// PayloadHash is the content hash of the normalized input.
	PayloadHash string

	// Layout is the chart in plot coordinates.
	Layout layout.Layout

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[sink.Format][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Artifact returns the output rendered for f.
func (r *Result) Artifact(f sink.Format) ([]byte, bool) {
	data, ok := r.Artifacts[f]
	return data, ok
}

// Stats contains cycle timing and size information.
type Stats struct {
	Rows       int
	LayoutTime time.Duration
	RenderTime time.Duration
	Duration   time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}
