// Package config loads ddcharts settings from an optional TOML file.
//
// A config file looks like:
//
//	[chart]
//	width = 860
//	height = 500
//
//	[band]
//	baseline = 100
//	z = 1.96
//	derive_baseline = false
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	namespace = "staging"
//	ttl = "24h"
//
// Every key is optional. Missing values take the defaults of [Default];
// the merged result is checked by [Config.Validate].
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/scale"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

const appName = "ddcharts"

// Server defaults.
const (
	DefaultAddr        = ":8080"
	DefaultReadTimeout = 10 * time.Second
)

// Config is the merged file configuration.
type Config struct {
	Chart  Chart  `toml:"chart"`
	Band   Band   `toml:"band"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
}

// Chart holds frame and axis settings.
type Chart struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Margin  float64 `toml:"margin"`
	Padding float64 `toml:"padding"`
	Ticks   int     `toml:"ticks"`
}

// Band holds the line chart confidence band settings. Baseline is always
// explicit here, so baseline = 0 centers the band on zero.
type Band struct {
	Baseline       float64 `toml:"baseline"`
	Z              float64 `toml:"z"`
	Pad            float64 `toml:"pad"`
	DeriveBaseline bool    `toml:"derive_baseline"`
	BaselineFlag   string  `toml:"baseline_flag"`
	TestFlag       string  `toml:"test_flag"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr        string        `toml:"addr"`
	ReadTimeout time.Duration `toml:"read_timeout"`
}

// Cache selects the artifact cache backend. Namespace prefixes every key,
// letting several deployments share one Redis.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Namespace string        `toml:"namespace"`
	TTL       time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chart: Chart{
			Width:   layout.DefaultWidth,
			Height:  layout.DefaultHeight,
			Margin:  layout.DefaultMargin,
			Padding: layout.DefaultPadding,
			Ticks:   layout.DefaultTicks,
		},
		Band: Band{
			Baseline:     stats.DefaultBaseline,
			Z:            stats.DefaultZ,
			Pad:          scale.DefaultLinePad,
			BaselineFlag: dataset.FlagBaseline,
			TestFlag:     dataset.FlagTest,
		},
		Server: Server{
			Addr:        DefaultAddr,
			ReadTimeout: DefaultReadTimeout,
		},
		Cache: Cache{
			Backend: cache.BackendNone,
			Dir:     DefaultCacheDir(),
			TTL:     cache.TTLArtifact,
		},
	}
}

// Load reads path over the defaults. An empty path loads [DefaultPath],
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping the current value of every key
// the data omits, and validates the result.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	ch := c.Chart
	switch {
	case ch.Width <= 0 || ch.Height <= 0:
		return invalid("chart size %gx%g must be positive", ch.Width, ch.Height)
	case ch.Margin < 0 || ch.Margin >= ch.Width || ch.Margin >= ch.Height:
		return invalid("chart margin %g must be smaller than the frame", ch.Margin)
	case ch.Padding <= 0 || ch.Padding >= 1:
		return invalid("chart padding %g must be in (0, 1)", ch.Padding)
	case ch.Ticks < 1:
		return invalid("chart ticks %d must be at least 1", ch.Ticks)
	}

	b := c.Band
	switch {
	case b.Z <= 0:
		return invalid("band z %g must be positive", b.Z)
	case b.Pad <= 0:
		return invalid("band pad %g must be positive", b.Pad)
	case b.BaselineFlag == "" || b.TestFlag == "":
		return invalid("band flags must not be empty")
	case b.BaselineFlag == b.TestFlag:
		return invalid("band baseline_flag and test_flag are both %q", b.BaselineFlag)
	}

	if c.Server.Addr == "" {
		return invalid("server addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return invalid("server read_timeout %s must not be negative", c.Server.ReadTimeout)
	}

	switch c.Cache.Backend {
	case cache.BackendNone:
	case cache.BackendFile:
		if c.Cache.Dir == "" {
			return invalid("cache backend %q needs dir", c.Cache.Backend)
		}
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache backend %q needs redis_addr", c.Cache.Backend)
		}
	default:
		return invalid("cache backend %q must be one of none, file, redis", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache ttl %s must not be negative", c.Cache.TTL)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// LayoutConfig returns the drawing parameters for the layout builders.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		Width:   c.Chart.Width,
		Height:  c.Chart.Height,
		Margin:  c.Chart.Margin,
		Padding: c.Chart.Padding,
		Ticks:   c.Chart.Ticks,
		LinePad: c.Band.Pad,
		Band: stats.Options{
			Baseline:       stats.BaselineAt(c.Band.Baseline),
			Z:              c.Band.Z,
			DeriveBaseline: c.Band.DeriveBaseline,
		},
		BaselineFlag: c.Band.BaselineFlag,
		TestFlag:     c.Band.TestFlag,
	}
}

// CacheConfig returns the settings for [cache.Open].
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
	}
}

// Keyer returns the cache keyer, scoped to Namespace when one is set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace+":")
}

// DefaultPath returns $XDG_CONFIG_HOME/ddcharts/config.toml, falling back
// to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns the XDG cache directory (~/.cache/ddcharts/).
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
