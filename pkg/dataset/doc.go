// Package dataset converts the host application's columnar payload into
// labeled records.
//
// # Overview
//
// The host describes a result set as an ordered list of [ColumnDescriptor]
// values and a row-major [RawPayload]. [Map] zips the two into one [Record]
// per row, keyed by column label:
//
//	columns := []dataset.ColumnDescriptor{
//	    {Label: "year", Type: dataset.TypeString},
//	    {Label: "value", Type: dataset.TypeNumber},
//	}
//	payload := dataset.RawPayload{Rows: [][]dataset.Value{
//	    {dataset.String("2000"), dataset.Number(100)},
//	}}
//	records, err := dataset.Map(columns, payload)
//
// # Values
//
// Cells are tagged [Value]s holding either a string or a number. Decoding
// from JSON accepts exactly those two shapes; anything else is rejected at
// ingestion so downstream code never guesses at a cell's type.
//
// The column Type is advisory metadata. [Map] does not coerce values to it;
// typed access goes through [Record.Number] and [Record.Category], which
// fail with TYPE_MISMATCH when a cell holds the wrong kind.
//
// # Fixtures
//
// [BarSample] and [LineSample] return the built-in tables used when the host
// signals availableRowCount == -1.
package dataset
