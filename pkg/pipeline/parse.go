package pipeline

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/dataset"
	"github.com/matzehuels/ddcharts/pkg/message"
)

// MaxTitleLength is the longest chart title kept, in runes.
const MaxTitleLength = 256

// Receive picks the table msg asks to draw. Ignored messages return
// message.ErrIgnored.
func Receive(msg message.Message, kind layout.Kind) (dataset.Table, error) {
	if msg.Mode() == message.ModeIgnore {
		return dataset.Table{}, message.ErrIgnored
	}
	return msg.Resolve(kind)
}

// Title turns a result name into a single-line chart title: runs of
// whitespace and control characters collapse to one space, and anything
// past MaxTitleLength runes is cut.
func Title(name string) string {
	t := strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
	if utf8.RuneCountInString(t) <= MaxTitleLength {
		return t
	}
	return strings.TrimSpace(string([]rune(t)[:MaxTitleLength]))
}

// Normalize zips the table into records and titles the chart input.
func Normalize(title string, t dataset.Table) (layout.Input, error) {
	records, err := t.Records()
	if err != nil {
		return layout.Input{}, err
	}
	return layout.Input{Title: title, Columns: t.Columns, Records: records}, nil
}

// PayloadHash identifies the chart input independently of the message
// envelope, so a live message and the sample fixture with the same content
// share cache entries.
func PayloadHash(title string, t dataset.Table) string {
	data, err := json.Marshal(struct {
		Title   string                     `json:"title"`
		Columns []dataset.ColumnDescriptor `json:"columns"`
		Rows    [][]dataset.Value          `json:"rows"`
	}{title, t.Columns, t.Payload.Rows})
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
