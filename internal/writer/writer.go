// =============================================================================
// Workbank Normalizer - Output Writer Module
// =============================================================================
//
// This module encodes the assembled output table for the back office.
//
// OUTPUT FORMATS:
//   xlsx - one worksheet, "Dados Processados". Row 1 is the canonical header
//          row with the spacer column left blank; every record follows in
//          input order. NUM_BANCO and QTD_PARCELA are written as numbers,
//          everything else as text.
//   csv  - the same table, ";"-separated, UTF-8 with a byte order mark so
//          Excel opens it with the right encoding.
//   json - the records as an array of objects in canonical key order.
//
// =============================================================================

package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the back office import reads.
const SheetName = "Dados Processados"

// numericFields are written as numbers in workbooks.
var numericFields = map[string]bool{
	canonical.NumBanco:   true,
	canonical.QtdParcela: true,
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is an assembled output ready to be encoded.
type Document struct {
	// Header is the rendered header row.
	Header []string

	// Rows are the rendered records, aligned with Header.
	Rows [][]string

	// Records are the same records keyed by field, for JSON.
	Records []canonical.Record
}

// Options contains options for encoding.
type Options struct {
	// SheetName is the worksheet name for xlsx.
	// Default: SheetName
	SheetName string

	// Indent is the JSON indentation. Empty means compact.
	// Default: "  "
	Indent string

	// BOM prefixes csv output with a UTF-8 byte order mark.
	// Default: true
	BOM bool
}

// DefaultOptions returns the default encoding options.
func DefaultOptions() Options {
	return Options{
		SheetName: SheetName,
		Indent:    "  ",
		BOM:       true,
	}
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes doc to w in format with the default options.
func Encode(w io.Writer, format string, doc *Document) error {
	return EncodeWithOptions(w, format, doc, DefaultOptions())
}

// EncodeWithOptions writes doc to w in format.
//
// PARAMETERS:
//   - w: The destination.
//   - format: config.FormatXLSX, config.FormatCSV or config.FormatJSON.
//   - doc: The document to encode.
//   - opts: Encoding options.
//
// RETURNS:
//   - An error if the format is unknown or writing fails.
func EncodeWithOptions(w io.Writer, format string, doc *Document, opts Options) error {
	switch format {
	case config.FormatXLSX:
		return encodeXLSX(w, doc, opts)
	case config.FormatCSV:
		return encodeCSV(w, doc, opts)
	case config.FormatJSON:
		return encodeJSON(w, doc, opts)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	return format
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case config.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case config.FormatCSV:
		return "text/csv; charset=utf-8"
	case config.FormatJSON:
		return "application/json; charset=utf-8"
	}
	return "application/octet-stream"
}

// =============================================================================
// XLSX
// =============================================================================

func encodeXLSX(w io.Writer, doc *Document, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(doc.Header))
	for i, h := range doc.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for r, row := range doc.Rows {
		cells := make([]interface{}, len(row))
		for c, v := range row {
			cells[c] = cellValue(doc.Header, c, v)
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if len(doc.Header) > 0 {
		if err := styleHeader(f, sheet, len(doc.Header)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue keeps counts numeric so the import does not see text cells.
func cellValue(header []string, col int, v string) interface{} {
	if col < len(header) && numericFields[header[col]] {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return v
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

// =============================================================================
// CSV
// =============================================================================

func encodeCSV(w io.Writer, doc *Document, opts Options) error {
	if opts.BOM {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(doc.Header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	if err := cw.WriteAll(doc.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// =============================================================================
// JSON
// =============================================================================

func encodeJSON(w io.Writer, doc *Document, opts Options) error {
	records := doc.Records
	if records == nil {
		records = []canonical.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent != "" {
		enc.SetIndent("", opts.Indent)
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
