package layout

import (
	"testing"

	"github.com/matzehuels/ddcharts/pkg/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"bar", KindBar, false},
		{"line", KindLine, false},
		{" LINE ", KindLine, false},
		{"pie", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidKind) {
					t.Errorf("ParseKind(%q) error = %v, want INVALID_KIND", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRectNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"positive", Rect{X: 1, Y: 2, W: 3, H: 4}, Rect{X: 1, Y: 2, W: 3, H: 4}},
		{"negative width", Rect{X: 10, Y: 0, W: -4, H: 1}, Rect{X: 6, Y: 0, W: 4, H: 1}},
		{"negative height", Rect{X: 0, Y: 10, W: 1, H: -5}, Rect{X: 0, Y: 5, W: 1, H: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.normalize(); got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	if c.Width != 860 || c.Height != 500 || c.Margin != 100 {
		t.Errorf("frame = %vx%v margin %v, want 860x500 margin 100", c.Width, c.Height, c.Margin)
	}
	if w, h := c.plotSize(); w != 760 || h != 400 {
		t.Errorf("plotSize() = %v, %v; want 760, 400", w, h)
	}
	if c.Padding != 0.4 || c.Ticks != 10 || c.LinePad != 2 {
		t.Errorf("Padding/Ticks/LinePad = %v/%v/%v, want 0.4/10/2", c.Padding, c.Ticks, c.LinePad)
	}
	if c.BaselineFlag != "B" || c.TestFlag != "T" {
		t.Errorf("flags = %q/%q, want B/T", c.BaselineFlag, c.TestFlag)
	}

	custom := Config{Width: 400, Ticks: 5}.WithDefaults()
	if custom.Width != 400 || custom.Ticks != 5 {
		t.Errorf("custom values overwritten: %+v", custom)
	}
}
