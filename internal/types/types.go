// =============================================================================
// Workbank Normalizer - Shared Types
// =============================================================================
//
// This package contains the raw spreadsheet types shared by the decoders
// (xlsxparser, csvparser), the rule sets and the converter. Keeping them here
// avoids import cycles between the parsers and the processing core.
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CELL VALUES
// =============================================================================

// Kind identifies the shape of a raw cell value.
type Kind int

const (
	// Empty is a missing or blank cell.
	Empty Kind = iota

	// Text is a string cell.
	Text

	// Number is a numeric cell. Spreadsheet dates stored as serial day counts
	// arrive as numbers.
	Number

	// Time is a structured date/time cell.
	Time
)

// Value is a single raw cell as produced by a decoder.
type Value struct {
	Kind Kind

	// Raw is the cell text as the decoder saw it. For numbers this is the
	// stored representation ("1001", "45000.5"), never a reformatted float.
	Raw string

	// Num is set when Kind is Number.
	Num float64

	// When is set when Kind is Time.
	When time.Time
}

// TextValue builds a text cell. Blank text becomes an Empty value.
func TextValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{Kind: Empty, Raw: s}
	}
	return Value{Kind: Text, Raw: s}
}

// NumberValue builds a numeric cell, keeping the original rendering.
func NumberValue(n float64, raw string) Value {
	if raw == "" {
		raw = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return Value{Kind: Number, Num: n, Raw: raw}
}

// TimeValue builds a structured date cell.
func TimeValue(t time.Time) Value {
	return Value{Kind: Time, When: t, Raw: t.Format(time.RFC3339)}
}

// IsEmpty reports whether the cell carries no data.
func (v Value) IsEmpty() bool {
	return v.Kind == Empty
}

// String returns the cell as text. Empty cells render as "".
func (v Value) String() string {
	switch v.Kind {
	case Empty:
		return ""
	case Time:
		return v.When.Format("02/01/2006")
	default:
		return v.Raw
	}
}

// =============================================================================
// ROWS AND SHEETS
// =============================================================================

// RawRow maps the original header text to the cell found under it.
type RawRow map[string]Value

// IsBlank reports whether every cell of the row is empty.
func (r RawRow) IsBlank() bool {
	for _, v := range r {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}

// Sheet is one decoded worksheet: the header row in column order and the
// data rows below it.
type Sheet struct {
	// Name is the worksheet name, or the file name for CSV input.
	Name string

	// Headers are the header texts of row 1, trimmed and made unique.
	Headers []string

	// Rows are the data rows, keyed by Headers.
	Rows []RawRow
}

// EmptyHeader names columns whose header cell is blank.
const EmptyHeader = "__EMPTY"

// NewSheet turns a decoded cell grid into a Sheet. The first row is the
// header row; cells beyond the last header are dropped and missing cells
// are Empty.
func NewSheet(name string, grid [][]Value) *Sheet {
	sheet := &Sheet{Name: name}
	if len(grid) == 0 {
		return sheet
	}

	sheet.Headers = UniqueHeaders(grid[0])

	for _, cells := range grid[1:] {
		row := make(RawRow, len(sheet.Headers))
		for i, h := range sheet.Headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = Value{}
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

// UniqueHeaders trims the header cells and makes them unique. A blank
// header becomes EmptyHeader and a repeated one gets a "_1", "_2" ...
// suffix, so every column keeps its data.
func UniqueHeaders(cells []Value) []string {
	out := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	suffix := make(map[string]int)

	for i, cell := range cells {
		base := strings.TrimSpace(cell.String())
		if base == "" {
			base = EmptyHeader
		}

		h := base
		for used[h] {
			suffix[base]++
			h = fmt.Sprintf("%s_%d", base, suffix[base])
		}
		used[h] = true
		out[i] = h
	}

	return out
}
