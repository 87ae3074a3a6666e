package cli

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

const sampleRequest = `{"resultName": "Revenue", "availableRowCount": -1}`

const barMessage = `{
  "resultName": "Revenue",
  "availableRowCount": 3,
  "columns": [{"label": "year", "type": "string"}, {"label": "value", "type": "number"}],
  "data": [["2019", 12], ["2020", 7.5], ["2021", 20]]
}`

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func TestRenderFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "message.json")
	if err := os.WriteFile(in, []byte(barMessage), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "chart.svg")

	if _, err := execute(t, "", "render", in, "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg := string(readFile(t, out))
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output is not svg: %.40q", svg)
	}
	for _, label := range []string{"2019", "2020", "2021", "<title>Revenue</title>"} {
		if !strings.Contains(svg, label) {
			t.Errorf("svg missing %q", label)
		}
	}
}

func TestRenderStdinToStdout(t *testing.T) {
	isolate(t)
	out, err := execute(t, sampleRequest, "render", "--kind", "line", "-o", "-")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, "chart-line") {
		t.Errorf("stdout = %.60q", out)
	}
}

func TestRenderSeveralFormats(t *testing.T) {
	isolate(t)
	base := filepath.Join(t.TempDir(), "revenue")

	if _, err := execute(t, barMessage, "render", "-f", "svg,png,json", "-o", base+".svg"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	if data := readFile(t, base+".png"); !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("png output lacks PNG signature")
	}
	l, err := sink.ReadJSON(readFile(t, base+".json"))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(l.Bars) != 3 {
		t.Errorf("layout bars = %d, want 3", len(l.Bars))
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("svg output: %v", err)
	}
}

func TestRenderPNGScale(t *testing.T) {
	tests := []struct {
		args  []string
		width int
	}{
		{nil, 860},
		{[]string{"--scale", "2"}, 1720},
	}
	for _, tt := range tests {
		t.Run(strings.Join(append([]string{"scale"}, tt.args...), " "), func(t *testing.T) {
			isolate(t)
			out := filepath.Join(t.TempDir(), "chart.png")
			args := append([]string{"render", "-f", "png", "-o", out}, tt.args...)
			if _, err := execute(t, barMessage, args...); err != nil {
				t.Fatalf("render error: %v", err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(readFile(t, out)))
			if err != nil {
				t.Fatalf("DecodeConfig() error: %v", err)
			}
			if cfg.Width != tt.width {
				t.Errorf("width = %d, want %d", cfg.Width, tt.width)
			}
		})
	}
}

func TestRenderDerivedName(t *testing.T) {
	isolate(t)
	t.Chdir(t.TempDir())

	if _, err := execute(t, barMessage, "render"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := os.Stat("revenue.svg"); err != nil {
		t.Errorf("derived output: %v", err)
	}
}

func TestRenderURL(t *testing.T) {
	isolate(t)
	var userAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(barMessage))
	}))
	defer ts.Close()

	out, err := execute(t, "", "render", "--url", ts.URL+"/results/1", "-o", "-")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "2021") {
		t.Error("fetched chart missing category 2021")
	}
	if !strings.HasPrefix(userAgent, "ddcharts/") {
		t.Errorf("User-Agent = %q", userAgent)
	}
}

func TestRenderURLFailure(t *testing.T) {
	isolate(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	_, err := execute(t, "", "render", "--url", ts.URL, "-o", "-")
	if !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("error = %v, want FETCH_FAILED", err)
	}
}

func TestRenderIgnored(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Chdir(dir)

	for _, msg := range []string{`{"hello": "world"}`, `[1, 2, 3]`, `{"availableRowCount": -3}`} {
		out, err := execute(t, msg, "render", "-o", "-")
		if err != nil {
			t.Errorf("render %s: error %v, want nil", msg, err)
		}
		if out != "" {
			t.Errorf("render %s: wrote %d bytes", msg, len(out))
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("ignored messages wrote %d files", len(entries))
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"unknown kind", barMessage, []string{"--kind", "pie"}, errors.ErrCodeInvalidKind},
		{"unknown format", barMessage, []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"several formats to stdout", barMessage, []string{"-f", "svg,png", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"file and url", "", []string{"message.json", "--url", "http://localhost/x"}, errors.ErrCodeInvalidInput},
		{"missing file", "", []string{filepath.Join(t.TempDir(), "absent.json")}, errors.ErrCodeInvalidInput},
		{"zero width", barMessage, []string{"--width", "0", "-o", "-"}, errors.ErrCodeInvalidConfig},
		{"scale too large", barMessage, []string{"--scale", "9", "-f", "png", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"short row", `{"availableRowCount": 1, "columns": [{"label": "year", "type": "string"}, {"label": "value", "type": "number"}], "data": [["2019"]]}`, []string{"-o", "-"}, errors.ErrCodeMalformedPayload},
		{"empty baseline", `{"availableRowCount": 1, "columns": [{"label": "date", "type": "string"}, {"label": "flag", "type": "string"}, {"label": "a", "type": "number"}, {"label": "b", "type": "number"}], "data": [["2020-01-01", "T", 1, 2]]}`, []string{"--kind", "line", "-o", "-"}, errors.ErrCodeEmptyBaseline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, append([]string{"render"}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderConfigFile(t *testing.T) {
	configHome, _ := isolate(t)
	writeConfig(t, configHome, "[chart]\nwidth = 400\nheight = 300\nmargin = 40\n")

	out, err := execute(t, barMessage, "render", "-o", "-")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, `width="400" height="300"`) {
		t.Errorf("config size not applied: %.120q", out)
	}

	// Flags override the config file.
	out, err = execute(t, barMessage, "render", "-o", "-", "--width", "500")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, `width="500" height="300"`) {
		t.Errorf("flag did not override config: %.120q", out)
	}
}

func TestRenderExplicitConfigMissing(t *testing.T) {
	isolate(t)
	_, err := execute(t, barMessage, "--config", filepath.Join(t.TempDir(), "nope.toml"), "render", "-o", "-")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestRenderFileCache(t *testing.T) {
	configHome, cacheHome := isolate(t)
	writeConfig(t, configHome, "[cache]\nbackend = \"file\"\n")

	first, err := execute(t, barMessage, "render", "-o", "-")
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir empty after render (err %v)", err)
	}

	second, err := execute(t, barMessage, "render", "-o", "-")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Error("cached render differs from first render")
	}
}
