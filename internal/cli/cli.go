// Package cli implements the ddcharts command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ddcharts/pkg/buildinfo"
	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/config"
	"github.com/matzehuels/ddcharts/pkg/observability"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and default file names.
const appName = "ddcharts"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose switches to debug logging and routes pipeline, cache and
// fetch events to the logger.
func (c *CLI) SetVerbose(verbose bool) {
	if !verbose {
		c.SetLogLevel(LogInfo)
		observability.Reset()
		return
	}
	c.SetLogLevel(LogDebug)
	hooks := observability.LogHooks{Logger: c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ddcharts renders bar and line charts from analytics payloads",
		Long: `ddcharts turns the column/row messages a host analytics application sends
into SVG, PNG, PDF or JSON charts: a bar chart of values per category, or a
line chart of two series against a confidence band computed from baseline rows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ddcharts/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config, or the default config file if present.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc := cfg.CacheConfig()
	if noCache {
		cc.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, cc)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, cfg.Keyer(), c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format list, dropping repeats.
// Empty means svg.
func parseFormats(s string) ([]sink.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []sink.Format{pipeline.DefaultFormat}, nil
	}
	var formats []sink.Format
	for _, part := range strings.Split(s, ",") {
		f, err := sink.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// outputPaths maps each format to a file. A single format writes to output
// as given; several formats share output as a base path with the format
// extension swapped in. An empty output derives the base from fallback.
func outputPaths(output, fallback string, formats []sink.Format) map[sink.Format]string {
	paths := make(map[sink.Format]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + f.Ext()
	}
	return paths
}

// basePath strips a known format extension from output, or returns
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// defaultBase names output files after the result, or the chart kind.
func defaultBase(resultName string, kind layout.Kind) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '.', r == '/':
			return '-'
		}
		return -1
	}, strings.TrimSpace(resultName))
	name = strings.Trim(name, "-")
	if name == "" {
		return appName + "-" + string(kind)
	}
	return name
}
