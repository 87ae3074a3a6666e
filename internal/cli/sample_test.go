package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ddcharts/pkg/message"
)

func TestSample(t *testing.T) {
	isolate(t)
	tests := []struct {
		kind string
		rows int
	}{
		{"bar", 8},
		{"line", 10},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := execute(t, "", "sample", "--kind", tt.kind, "--name", "Fixture")
			if err != nil {
				t.Fatalf("sample error: %v", err)
			}
			msg, err := message.Decode([]byte(out))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if msg.Mode() != message.ModeLive {
				t.Errorf("mode = %v, want live", msg.Mode())
			}
			if msg.ResultName != "Fixture" || len(msg.Data) != tt.rows {
				t.Errorf("message = %q with %d rows, want Fixture with %d", msg.ResultName, len(msg.Data), tt.rows)
			}
		})
	}
}

func TestSampleRequest(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "sample", "--request")
	if err != nil {
		t.Fatalf("sample error: %v", err)
	}
	msg, err := message.Decode([]byte(out))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if msg.Mode() != message.ModeSample {
		t.Errorf("mode = %v, want sample", msg.Mode())
	}
}

// The printed dataset renders the same chart as asking for the sample.
func TestSampleRoundTrip(t *testing.T) {
	isolate(t)
	dataset, err := execute(t, "", "sample", "--kind", "line", "--name", "Revenue")
	if err != nil {
		t.Fatal(err)
	}

	fromData, err := execute(t, dataset, "render", "--kind", "line", "-o", "-")
	if err != nil {
		t.Fatalf("render dataset: %v", err)
	}
	fromRequest, err := execute(t, sampleRequest, "render", "--kind", "line", "-o", "-")
	if err != nil {
		t.Fatalf("render request: %v", err)
	}
	if fromData != fromRequest {
		t.Error("sample dataset and sample request render differently")
	}
}

func TestSampleOutputFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bar.json")
	out, err := execute(t, "", "sample", "-o", path)
	if err != nil {
		t.Fatalf("sample error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"availableRowCount": 8`) {
		t.Errorf("sample file = %.80q", data)
	}
}

func TestSampleUnknownKind(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "", "sample", "--kind", "pie"); err == nil {
		t.Error("sample --kind pie: expected error")
	}
}
