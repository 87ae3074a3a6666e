package dataset

import (
	"github.com/matzehuels/ddcharts/pkg/errors"
)

// RawPayload is the host's row-major data. Column order matches the
// ColumnDescriptor order it was sent with.
type RawPayload struct {
	Rows [][]Value `json:"data"`
}

// Record is one row expressed as a label → value mapping.
type Record map[string]Value

// Get returns the value stored under label.
func (r Record) Get(label string) (Value, bool) {
	v, ok := r[label]
	return v, ok
}

// Number returns the numeric value of label. It fails with MALFORMED_PAYLOAD
// if the field is absent and TYPE_MISMATCH if it holds a string.
func (r Record) Number(label string) (float64, error) {
	v, ok := r[label]
	if !ok {
		return 0, errors.New(errors.ErrCodeMalformedPayload, "record has no field %q", label)
	}
	f, ok := v.Num()
	if !ok {
		return 0, errors.New(errors.ErrCodeTypeMismatch, "field %q holds %q, want a number", label, v.String())
	}
	return f, nil
}

// Category returns the display form of label, used as a categorical key.
// Both strings and numbers are valid categories. The key is the text drawn on
// the axis, so the number 2000 and the string "2000" name the same category.
func (r Record) Category(label string) (string, error) {
	v, ok := r[label]
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedPayload, "record has no field %q", label)
	}
	return v.String(), nil
}

// Map zips columns with every payload row into records.
//
// Row i yields a record whose field columns[j].Label equals
// payload.Rows[i][j]. A row with a different length than columns, an invalid
// cell, or an empty/duplicate column label fails with MALFORMED_PAYLOAD.
// No type coercion is performed.
func Map(columns []ColumnDescriptor, payload RawPayload) ([]Record, error) {
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(payload.Rows))
	for i, row := range payload.Rows {
		if len(row) != len(columns) {
			return nil, errors.New(errors.ErrCodeMalformedPayload,
				"row %d has %d values, want %d", i, len(row), len(columns))
		}
		rec := make(Record, len(columns))
		for j, c := range columns {
			if !row[j].Valid() {
				return nil, errors.New(errors.ErrCodeMalformedPayload,
					"row %d column %q holds no value", i, c.Label)
			}
			rec[c.Label] = row[j]
		}
		records = append(records, rec)
	}
	return records, nil
}

func validateColumns(columns []ColumnDescriptor) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if err := errors.ValidateLabel(c.Label); err != nil {
			return err
		}
		if _, dup := seen[c.Label]; dup {
			return errors.New(errors.ErrCodeMalformedPayload, "duplicate column label %q", c.Label)
		}
		seen[c.Label] = struct{}{}
	}
	return nil
}
