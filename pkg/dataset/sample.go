package dataset

// Table bundles column metadata with its payload.
type Table struct {
	Columns []ColumnDescriptor
	Payload RawPayload
}

// Records maps the table into records.
func (t Table) Records() ([]Record, error) {
	return Map(t.Columns, t.Payload)
}

// BarSample returns the built-in bar chart fixture: yearly values for
// 2000 through 2007. Each call returns a fresh copy.
func BarSample() Table {
	years := []string{"2000", "2001", "2002", "2003", "2004", "2005", "2006", "2007"}
	values := []float64{100, 101, 102, 96, 100, 101, 102, 96}

	rows := make([][]Value, len(years))
	for i := range years {
		rows[i] = []Value{String(years[i]), Number(values[i])}
	}
	return Table{
		Columns: []ColumnDescriptor{
			{Label: "year", Type: TypeString},
			{Label: "value", Type: TypeNumber},
		},
		Payload: RawPayload{Rows: rows},
	}
}

// Flags used by LineSample to mark baseline and test rows.
const (
	FlagBaseline = "B"
	FlagTest     = "T"
)

// LineSample returns the built-in line chart fixture: ten monthly rows, the
// first seven flagged as baseline and the last three as test, with two
// series indexed around 100. Each call returns a fresh copy.
func LineSample() Table {
	type row struct {
		date, flag string
		v1, v2     float64
	}
	data := []row{
		{"2020-01-01", FlagBaseline, 100, 98},
		{"2020-02-01", FlagBaseline, 102, 101},
		{"2020-03-01", FlagBaseline, 97, 99},
		{"2020-04-01", FlagBaseline, 101, 103},
		{"2020-05-01", FlagBaseline, 99, 97},
		{"2020-06-01", FlagBaseline, 103, 100},
		{"2020-07-01", FlagBaseline, 98, 102},
		{"2020-08-01", FlagTest, 104, 96},
		{"2020-09-01", FlagTest, 105, 99},
		{"2020-10-01", FlagTest, 102, 95},
	}

	rows := make([][]Value, len(data))
	for i, d := range data {
		rows[i] = []Value{String(d.date), String(d.flag), Number(d.v1), Number(d.v2)}
	}
	return Table{
		Columns: []ColumnDescriptor{
			{Label: "date", Type: TypeString},
			{Label: "flag", Type: TypeString},
			{Label: "Variable 1", Type: TypeNumber},
			{Label: "Variable 2", Type: TypeNumber},
		},
		Payload: RawPayload{Rows: rows},
	}
}
