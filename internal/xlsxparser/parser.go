// =============================================================================
// Workbank Normalizer - Workbook Decoder
// =============================================================================
//
// This module decodes partner workbooks into a types.Sheet. Only the first
// worksheet is read. Row 1 holds the headers; every row below it is data.
//
// SUPPORTED FORMATS:
//   - XLSX (Office Open XML), read with excelize
//   - XLS  (BIFF8 compound document), read with xlsReader, see xls.go
//   The format is chosen from the leading bytes, never from the file name:
//   partners routinely send .xls files that are really .xlsx.
//
// CELL TYPES:
//   Numeric cells (including dates stored as serial day counts) become
//   Number values with their stored representation. Everything else is
//   text. Formatting applied by the spreadsheet is ignored.
//
// HEADERS:
//   See types.NewSheet.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/xuri/excelize/v2"
)

// Decoder errors. Their messages are shown to end users as they are.
var (
	ErrInvalidWorkbook = errors.New("Invalid Excel file data.")
	ErrNoWorksheet     = errors.New("No worksheet found in the Excel file.")
)

// =============================================================================
// FORMAT DETECTION
// =============================================================================

// Format is a workbook container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatXLS
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Sniff identifies the container format from the leading bytes.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, cfbMagic):
		return FormatXLS
	}
	return FormatUnknown
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads and decodes the workbook at path.
func ParseFile(path string) (*types.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	sheet, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sheet, nil
}

// Decode decodes an in-memory workbook.
//
// RETURNS:
//   - The first worksheet. A worksheet without rows yields a Sheet with no
//     headers and no rows; rejecting it is up to the caller.
//   - ErrInvalidWorkbook when the bytes are not a readable workbook.
//   - ErrNoWorksheet when the workbook has no worksheet.
func Decode(data []byte) (*types.Sheet, error) {
	switch Sniff(data) {
	case FormatXLSX:
		return decodeXLSX(data)
	case FormatXLS:
		return decodeXLS(data)
	}
	return nil, ErrInvalidWorkbook
}

func decodeXLSX(data []byte) (*types.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	grid := make([][]types.Value, len(rows))
	for r, row := range rows {
		cells := make([]types.Value, len(row))
		for c, raw := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
			}
			cells[c] = xlsxValue(typ, raw)
		}
		grid[r] = cells
	}

	return types.NewSheet(name, grid), nil
}

// xlsxValue types a raw cell. Cells without a type attribute are numbers
// unless their content says otherwise.
func xlsxValue(typ excelize.CellType, raw string) types.Value {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, ok := parseFinite(raw); ok {
			return types.NumberValue(n, strings.TrimSpace(raw))
		}
	}
	return types.TextValue(raw)
}

// parseFinite parses raw as a float. NaN and infinities are rejected so that
// they stay text.
func parseFinite(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
