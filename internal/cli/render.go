package cli

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/config"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/message"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// stdio names standard input or output in place of a file path.
const stdio = "-"

// defaultTimeout bounds fetching and rendering one message.
const defaultTimeout = 30 * time.Second

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	kind    string        // chart kind: bar or line
	formats string        // output formats, comma-separated
	output  string        // output file, base path, or "-" for stdout
	url     string        // fetch the message from this URL instead of a file
	timeout time.Duration // bound on fetch plus render
	scale   float64       // PNG pixel scale

	noCache bool // bypass the configured cache
	refresh bool // recompute and overwrite cached entries

	// Overrides for the [chart] and [band] config sections.
	width          float64
	height         float64
	ticks          int
	z              float64
	deriveBaseline bool
}

// renderCommand creates the render command: one message in, chart files out.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		kind:    string(layout.KindBar),
		timeout: defaultTimeout,
		scale:   1,
	}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a host message to chart files",
		Long: `Render reads one host message (a JSON object with availableRowCount,
columns and data) from a file, standard input or a URL, and draws it as a bar
or line chart.

A message with availableRowCount -1 draws the built-in sample dataset. Messages
that carry no row count are ignored and produce no output.`,
		Example: `  ddcharts render revenue.json
  ddcharts sample --kind line | ddcharts render --kind line -f svg,png
  ddcharts render --url https://host.example/results/42 -o chart.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdio
			if len(args) == 1 {
				input = args[0]
			}
			if opts.url != "" && len(args) == 1 {
				return errors.New(errors.ErrCodeInvalidInput, "give either a file or --url, not both")
			}
			return c.runRender(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", opts.kind, "chart kind: bar, line")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVar(&opts.url, "url", "", "fetch the message from a URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "timeout for fetching and rendering")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel scale factor (e.g. 2 for high-DPI)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached entries and overwrite them")
	cmd.Flags().Float64Var(&opts.width, "width", layout.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", layout.DefaultHeight, "frame height")
	cmd.Flags().IntVar(&opts.ticks, "ticks", layout.DefaultTicks, "target number of value-axis ticks")
	cmd.Flags().Float64Var(&opts.z, "z", stats.DefaultZ, "band half-width in standard deviations (line)")
	cmd.Flags().BoolVar(&opts.deriveBaseline, "derive-baseline", false, "center the band on the baseline mean instead of the fixed baseline (line)")

	return cmd
}

// runRender loads the message, runs one cycle, and writes each artifact.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	kind, err := layout.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == stdio && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, &cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	msg, err := c.loadMessage(ctx, cmd.InOrStdin(), input, opts.url)
	if stderrors.Is(err, message.ErrIgnored) {
		c.Logger.Warn("Message ignored: no row count, nothing to draw")
		return nil
	}
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.OptionsFromConfig(kind, cfg.LayoutConfig())
	popts.Formats = formats
	popts.Refresh = opts.refresh
	popts.PNGScale = opts.scale

	res, err := runner.Execute(ctx, msg, popts)
	if stderrors.Is(err, message.ErrIgnored) {
		c.Logger.Warn("Message ignored: no row count, nothing to draw")
		return nil
	}
	if err != nil {
		return err
	}

	if opts.output == stdio {
		data, _ := res.Artifact(formats[0])
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	paths := outputPaths(opts.output, defaultBase(res.ResultName, kind), formats)
	for _, f := range formats {
		data, ok := res.Artifact(f)
		if !ok {
			return errors.New(errors.ErrCodeInternal, "no %s artifact", f)
		}
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", paths[f])
		}
	}

	title := res.ResultName
	if title == "" {
		title = "untitled"
	}
	printSuccess("Rendered %s chart %q", kind, title)
	printStats(res.Stats.Rows, res.Mode.String(), res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	for _, f := range formats {
		printFile(paths[f])
	}
	return nil
}

// loadMessage reads and decodes a message from url, stdin, or a file.
func (c *CLI) loadMessage(ctx context.Context, stdin io.Reader, input, url string) (message.Message, error) {
	if url != "" {
		p := newProgress(c.Logger)
		msg, err := message.Fetch(ctx, &http.Client{}, url)
		if err != nil {
			return msg, err
		}
		p.done("Fetched message")
		return msg, nil
	}

	var (
		data []byte
		err  error
	)
	if input == stdio {
		data, err = io.ReadAll(io.LimitReader(stdin, message.MaxFetchSize+1))
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return message.Message{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", input)
	}
	if len(data) > message.MaxFetchSize {
		return message.Message{}, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d MiB", input, message.MaxFetchSize>>20)
	}
	c.Logger.Debug("read message", "input", input, "bytes", len(data))
	return message.Decode(data)
}

// applyRenderFlags overrides config values with flags the user set.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config, opts *renderOpts) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Chart.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Chart.Height = opts.height
	}
	if flags.Changed("ticks") {
		cfg.Chart.Ticks = opts.ticks
	}
	if flags.Changed("z") {
		cfg.Band.Z = opts.z
	}
	if flags.Changed("derive-baseline") {
		cfg.Band.DeriveBaseline = opts.deriveBaseline
	}
}
