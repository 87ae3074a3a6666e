package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ColumnType is the semantic type the host declares for a column.
type ColumnType string

// Column types sent by the host. Other values are carried through unchanged.
const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
)

// ColumnDescriptor names a field and its declared type.
type ColumnDescriptor struct {
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
}

type valueKind uint8

const (
	kindInvalid valueKind = iota
	kindString
	kindNumber
)

// Value is a single cell: either a string or a number.
// The zero Value is invalid and is rejected by [Map].
type Value struct {
	kind valueKind
	str  string
	num  float64
}

// String returns a string Value.
func String(s string) Value { return Value{kind: kindString, str: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == kindString }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Valid reports whether v holds either kind of value.
func (v Value) Valid() bool { return v.kind != kindInvalid }

// Num returns the numeric content and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == kindNumber }

// Str returns the string content and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == kindString }

// String formats v for display. Numbers use the shortest exact representation.
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.str == o.str && v.num == o.num
}

// MarshalJSON encodes v as a JSON string or number.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindNumber:
		return json.Marshal(v.num)
	default:
		return nil, fmt.Errorf("marshal invalid value")
	}
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
		return nil
	default:
		return fmt.Errorf("unsupported value %s: want string or number", data)
	}
}
