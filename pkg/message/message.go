// Package message decodes the host application's inbound messages.
//
// A message carries a result name, a row count, column descriptors and a
// row-major data payload:
//
//	{
//	  "resultName": "dd40",
//	  "availableRowCount": 3,
//	  "columns": [{"label": "year", "type": "string"}, {"label": "value", "type": "number"}],
//	  "data": [["2000", 100], ["2001", 101], ["2002", 96]]
//	}
//
// The row count selects what to draw: zero or more means the message
// carries live data, -1 asks for the built-in sample dataset, and anything
// else (or a missing count, or a payload that is not a JSON object) is
// ignored. Ignored messages surface as [ErrIgnored], which callers treat as
// a no-op rather than a failure.
package message

import (
	"encoding/json"
	stderrors "errors"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

// ErrIgnored reports a message that does not request a render.
var ErrIgnored = stderrors.New("message ignored")

// SampleRowCount is the row count that requests the sample dataset.
const SampleRowCount = -1

// Mode is what a message asks for.
type Mode int

const (
	ModeIgnore Mode = iota
	ModeLive
	ModeSample
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeSample:
		return "sample"
	}
	return "ignore"
}

// Message is one inbound host message.
type Message struct {
	ResultName        string                     `json:"resultName,omitempty"`
	AvailableRowCount *float64                   `json:"availableRowCount,omitempty"`
	Columns           []dataset.ColumnDescriptor `json:"columns,omitempty"`
	Data              [][]dataset.Value          `json:"data,omitempty"`
}

// Mode classifies m by its row count.
func (m Message) Mode() Mode {
	if m.AvailableRowCount == nil {
		return ModeIgnore
	}
	switch n := *m.AvailableRowCount; {
	case n >= 0:
		return ModeLive
	case n == SampleRowCount:
		return ModeSample
	}
	return ModeIgnore
}

// Decode parses a raw message. Payloads that are not JSON objects, or whose
// row count is missing or not a number, return ErrIgnored. A live message
// whose columns or cells do not decode fails with MALFORMED_PAYLOAD.
func Decode(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Message{}, ErrIgnored
	}

	var msg Message
	if raw, ok := fields["availableRowCount"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			msg.AvailableRowCount = &n
		}
	}
	if raw, ok := fields["resultName"]; ok {
		_ = json.Unmarshal(raw, &msg.ResultName)
	}

	if msg.Mode() != ModeLive {
		if msg.Mode() == ModeIgnore {
			return msg, ErrIgnored
		}
		return msg, nil
	}

	if raw, ok := fields["columns"]; ok {
		if err := json.Unmarshal(raw, &msg.Columns); err != nil {
			return Message{}, errors.Wrap(errors.ErrCodeMalformedPayload, err, "decode columns")
		}
	}
	if raw, ok := fields["data"]; ok {
		if err := json.Unmarshal(raw, &msg.Data); err != nil {
			return Message{}, errors.Wrap(errors.ErrCodeMalformedPayload, err, "decode data")
		}
	}
	return msg, nil
}

// Resolve returns the table m asks to draw: its own columns and rows for a
// live message, or the sample dataset for kind, used verbatim.
func (m Message) Resolve(kind layout.Kind) (dataset.Table, error) {
	switch m.Mode() {
	case ModeLive:
		return dataset.Table{Columns: m.Columns, Payload: dataset.RawPayload{Rows: m.Data}}, nil
	case ModeSample:
		return Sample(kind)
	}
	return dataset.Table{}, ErrIgnored
}

// Sample returns the built-in dataset for kind.
func Sample(kind layout.Kind) (dataset.Table, error) {
	switch kind {
	case layout.KindBar:
		return dataset.BarSample(), nil
	case layout.KindLine:
		return dataset.LineSample(), nil
	}
	return dataset.Table{}, errors.New(errors.ErrCodeInvalidKind, "no sample for chart kind %q", kind)
}

// FromTable builds a live message carrying t.
func FromTable(name string, t dataset.Table) Message {
	n := float64(len(t.Payload.Rows))
	return Message{
		ResultName:        name,
		AvailableRowCount: &n,
		Columns:           t.Columns,
		Data:              t.Payload.Rows,
	}
}

// SampleRequest builds a message asking for the sample dataset.
func SampleRequest(name string) Message {
	n := float64(SampleRowCount)
	return Message{ResultName: name, AvailableRowCount: &n}
}
