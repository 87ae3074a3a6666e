package message

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

const liveBar = `{
	"resultName": "dd40",
	"availableRowCount": 3,
	"columns": [{"label": "year", "type": "string"}, {"label": "value", "type": "number"}],
	"data": [["2000", 100], ["2001", 101], ["2002", 96]]
}`

func TestDecodeModes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		mode    Mode
		ignored bool
	}{
		{"live", liveBar, ModeLive, false},
		{"live zero rows", `{"availableRowCount": 0, "columns": [], "data": []}`, ModeLive, false},
		{"sample", `{"availableRowCount": -1}`, ModeSample, false},
		{"sample ignores bad data", `{"availableRowCount": -1, "data": [[true]]}`, ModeSample, false},
		{"other negative", `{"availableRowCount": -2}`, ModeIgnore, true},
		{"missing count", `{"columns": []}`, ModeIgnore, true},
		{"string count", `{"availableRowCount": "3"}`, ModeIgnore, true},
		{"array", `[1, 2, 3]`, ModeIgnore, true},
		{"string", `"hello"`, ModeIgnore, true},
		{"null", `null`, ModeIgnore, true},
		{"invalid json", `{`, ModeIgnore, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.in))
			if tt.ignored {
				if !stderrors.Is(err, ErrIgnored) {
					t.Errorf("Decode() error = %v, want ErrIgnored", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if msg.Mode() != tt.mode {
				t.Errorf("Mode() = %s, want %s", msg.Mode(), tt.mode)
			}
		})
	}
}

func TestDecodeLive(t *testing.T) {
	msg, err := Decode([]byte(liveBar))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if msg.ResultName != "dd40" {
		t.Errorf("ResultName = %q, want dd40", msg.ResultName)
	}
	if len(msg.Columns) != 2 || msg.Columns[1].Label != "value" || msg.Columns[1].Type != dataset.TypeNumber {
		t.Errorf("Columns = %+v", msg.Columns)
	}
	if len(msg.Data) != 3 || !msg.Data[2][1].Equal(dataset.Number(96)) {
		t.Errorf("Data = %v", msg.Data)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string]string{
		"bool cell":      `{"availableRowCount": 1, "columns": [{"label": "a"}], "data": [[true]]}`,
		"null cell":      `{"availableRowCount": 1, "columns": [{"label": "a"}], "data": [[null]]}`,
		"object columns": `{"availableRowCount": 1, "columns": {"label": "a"}, "data": []}`,
		"flat data":      `{"availableRowCount": 1, "columns": [], "data": [1, 2]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in))
			if !errors.Is(err, errors.ErrCodeMalformedPayload) {
				t.Errorf("Decode() error = %v, want MALFORMED_PAYLOAD", err)
			}
		})
	}
}

func TestResolveLive(t *testing.T) {
	msg, _ := Decode([]byte(liveBar))
	table, err := msg.Resolve(layout.KindBar)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	records, err := table.Records()
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
}

func TestResolveSampleUsesFixtureVerbatim(t *testing.T) {
	msg := SampleRequest("dd40")

	for _, kind := range layout.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			got, err := msg.Resolve(kind)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			want, _ := Sample(kind)
			if len(got.Columns) != len(want.Columns) || len(got.Payload.Rows) != len(want.Payload.Rows) {
				t.Fatalf("sample shape differs: %d cols %d rows", len(got.Columns), len(got.Payload.Rows))
			}
			for i, row := range want.Payload.Rows {
				for j, v := range row {
					if !got.Payload.Rows[i][j].Equal(v) {
						t.Errorf("row %d col %d = %v, want %v", i, j, got.Payload.Rows[i][j], v)
					}
				}
			}
		})
	}
}

func TestResolveIgnored(t *testing.T) {
	_, err := Message{}.Resolve(layout.KindBar)
	if !stderrors.Is(err, ErrIgnored) {
		t.Errorf("Resolve() error = %v, want ErrIgnored", err)
	}
}

func TestSampleUnknownKind(t *testing.T) {
	_, err := Sample("pie")
	if !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("Sample() error = %v, want INVALID_KIND", err)
	}
}

func TestFromTable(t *testing.T) {
	msg := FromTable("sales", dataset.BarSample())
	if msg.Mode() != ModeLive {
		t.Errorf("Mode() = %s, want live", msg.Mode())
	}
	if *msg.AvailableRowCount != 8 {
		t.Errorf("AvailableRowCount = %v, want 8", *msg.AvailableRowCount)
	}
}
