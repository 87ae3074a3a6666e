package sink

import (
	"encoding/json"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// RenderJSON exports the layout as JSON. [ReadJSON] reverses it.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.compact {
		return json.Marshal(l)
	}
	return json.MarshalIndent(l, "", "  ")
}

// ReadJSON parses a layout produced by [RenderJSON].
func ReadJSON(data []byte) (layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout json")
	}
	if _, err := layout.ParseKind(string(l.Kind)); err != nil {
		return layout.Layout{}, err
	}
	return l, nil
}
