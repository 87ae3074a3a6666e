package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/ddcharts/pkg/buildinfo"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/observability"
)

// isolate points config and cache lookups at fresh temp dirs.
func isolate(t *testing.T) (configHome, cacheHome string) {
	t.Helper()
	configHome, cacheHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return configHome, cacheHome
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, configHome, body string) {
	t.Helper()
	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"cache", "completion", "render", "sample", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q missing from %v", name, got)
		}
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(out, "ddcharts "+buildinfo.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "ddcharts") {
		t.Error("bash completion does not mention ddcharts")
	}
	if _, err := execute(t, "", "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(observability.Reset)
	c := New(io.Discard, LogInfo)

	c.SetVerbose(true)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if _, ok := observability.Pipeline().(observability.LogHooks); !ok {
		t.Errorf("pipeline hooks = %T, want LogHooks", observability.Pipeline())
	}
	if _, ok := observability.HTTP().(observability.LogHooks); !ok {
		t.Errorf("http hooks = %T, want LogHooks", observability.HTTP())
	}

	c.SetVerbose(false)
	if c.Logger.GetLevel() != LogInfo {
		t.Errorf("level = %v, want info", c.Logger.GetLevel())
	}
	if _, ok := observability.Pipeline().(observability.LogHooks); ok {
		t.Error("pipeline hooks still LogHooks after SetVerbose(false)")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []sink.Format
		wantErr bool
	}{
		{"", []sink.Format{sink.FormatSVG}, false},
		{"png", []sink.Format{sink.FormatPNG}, false},
		{"svg, PDF,json", []sink.Format{sink.FormatSVG, sink.FormatPDF, sink.FormatJSON}, false},
		{"svg,svg,png", []sink.Format{sink.FormatSVG, sink.FormatPNG}, false},
		{"svg,gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormats(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("parseFormats(%q) error = %v, want INVALID_FORMAT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFormats(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	svg := []sink.Format{sink.FormatSVG}
	both := []sink.Format{sink.FormatSVG, sink.FormatPNG}
	tests := []struct {
		name    string
		output  string
		formats []sink.Format
		want    map[sink.Format]string
	}{
		{"single explicit", "out/chart.image", svg, map[sink.Format]string{"svg": "out/chart.image"}},
		{"single derived", "", svg, map[sink.Format]string{"svg": "revenue.svg"}},
		{"several with ext", "out/chart.svg", both, map[sink.Format]string{"svg": "out/chart.svg", "png": "out/chart.png"}},
		{"several base", "out/chart", both, map[sink.Format]string{"svg": "out/chart.svg", "png": "out/chart.png"}},
		{"several derived", "", both, map[sink.Format]string{"svg": "revenue.svg", "png": "revenue.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "revenue", tt.formats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultBase(t *testing.T) {
	tests := []struct {
		name string
		kind layout.Kind
		want string
	}{
		{"Revenue", layout.KindBar, "revenue"},
		{"Q3 Sales/EU", layout.KindBar, "q3-sales-eu"},
		{"  ", layout.KindLine, "ddcharts-line"},
		{"!!!", layout.KindBar, "ddcharts-bar"},
	}
	for _, tt := range tests {
		if got := defaultBase(tt.name, tt.kind); got != tt.want {
			t.Errorf("defaultBase(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLocalURL(t *testing.T) {
	if got := localURL(":8080"); got != "http://localhost:8080" {
		t.Errorf("localURL(:8080) = %q", got)
	}
	if got := localURL("0.0.0.0:9000"); got != "http://0.0.0.0:9000" {
		t.Errorf("localURL(0.0.0.0:9000) = %q", got)
	}
}

func TestServeRejectsBadOptions(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"empty addr", []string{"serve", "--addr", ""}, errors.ErrCodeInvalidConfig},
		{"unknown format", []string{"serve", "-f", "gif"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
