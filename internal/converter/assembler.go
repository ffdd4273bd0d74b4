package converter

import (
	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/writer"
)

// Table is the assembled output: the canonical header row, with the spacer
// slot rendered as a blank header, and one fully populated row per record.
type Table struct {
	Header []string
	Rows   [][]string
}

// Assemble lays records out in canonical order. Every row has exactly
// canonical.Len() cells; fields a record lacks become "".
func Assemble(records []canonical.Record) Table {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}
	return Table{
		Header: canonical.HeaderRow(),
		Rows:   rows,
	}
}

// Document hands the assembled output to the writers.
func (o *Output) Document() *writer.Document {
	return &writer.Document{
		Header:  o.Table.Header,
		Rows:    o.Table.Rows,
		Records: o.Records,
	}
}

// complete fills every data field rec lacks with "" and drops any key that
// is not part of the layout, so records returned to callers are total.
func complete(rec canonical.Record) canonical.Record {
	out := make(canonical.Record, len(canonical.DataFields()))
	for _, f := range canonical.DataFields() {
		out[f] = rec[f]
	}
	return out
}
