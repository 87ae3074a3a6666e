package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
	"github.com/matzehuels/ddcharts/pkg/server"
)

// serveCommand creates the serve command: a long-lived renderer holding one
// chart per kind, fed over HTTP and websocket.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		formats string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Long: `Serve keeps the current bar and line chart in memory and redraws them from
messages posted by the host application.

Routes:
  POST /charts/{kind}/messages   run one cycle, replacing the chart on success
  GET  /charts/{kind}            the current chart (?format=svg|png|pdf|json)
  GET  /charts/{kind}/ws         a websocket session with its own chart
  GET  /healthz                  liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			base := pipeline.OptionsFromConfig("", cfg.LayoutConfig())
			base.Formats = fs
			srv, err := server.New(runner, base, c.Logger)
			if err != nil {
				return err
			}

			printInfo("Serving charts on %s", cfg.Server.Addr)
			printKeyValue("formats", formatList(fs))
			printKeyValue("cache", cacheLabel(cfg.Cache.Backend, noCache))
			printNextStep("Draw the sample", "ddcharts sample --request | curl -d @- "+localURL(cfg.Server.Addr)+"/charts/bar/messages")

			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "formats drawn per cycle: svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// formatList joins formats for display.
func formatList(formats []sink.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

func cacheLabel(backend string, disabled bool) string {
	if disabled || backend == "" {
		return "none"
	}
	return backend
}

// localURL turns a listen address like ":8080" into a URL for examples.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
