// =============================================================================
// Workbank Normalizer - CSV Parser Module
// =============================================================================
//
// This module decodes partner exports delivered as CSV into a types.Sheet,
// the same shape the workbook decoder produces. It handles:
//   - Different delimiters (semicolon, comma, tab, pipe), sniffed from the
//     header line unless configured
//   - Windows-1252 / ISO-8859-1 exports, detected when the bytes are not
//     valid UTF-8 unless configured
//   - A leading UTF-8 byte order mark
//   - Quoted fields and rows with a varying number of fields
//
// CSV carries no cell types: every cell is text. The value normalizers
// parse Brazilian amounts and dates from text.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are tried, in order of preference, when no delimiter
// is configured.
var candidateDelimiters = []rune{';', ',', '\t', '|'}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads and decodes the CSV file at path. The sheet is named after
// the file.
func ParseFile(path string, settings config.CSVSettings) (*types.Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Base(path), settings)
}

// Parse decodes CSV from r.
//
// PARAMETERS:
//   - r: The CSV content.
//   - name: The sheet name to report, usually the file name.
//   - settings: Delimiter and encoding overrides from the system config.
//
// RETURNS:
//   - The decoded sheet. Empty lines are skipped, but rows of empty fields
//     (";;;") are kept; dropping them is up to the processor, which counts
//     them.
//   - An error if the content cannot be read or decoded.
//
// PARSING PROCESS:
//   1. Read the content and strip a UTF-8 byte order mark
//   2. Decode to UTF-8
//   3. Pick the delimiter
//   4. Read all records and build the sheet
func Parse(r io.Reader, name string, settings config.CSVSettings) (*types.Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	text, err := decode(data, settings.Encoding)
	if err != nil {
		return nil, err
	}

	delimiter := sniffDelimiter(text)
	if comma := []rune(settings.Delimiter); len(comma) == 1 {
		delimiter = comma[0]
	}

	reader := csv.NewReader(strings.NewReader(text))
	configureReader(reader, delimiter)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	grid := make([][]types.Value, len(records))
	for i, rec := range records {
		cells := make([]types.Value, len(rec))
		for j, field := range rec {
			cells[j] = types.TextValue(field)
		}
		grid[i] = cells
	}

	return types.NewSheet(name, grid), nil
}

// configureReader configures the CSV reader for partner exports, which are
// rarely strict about quoting or field counts.
func configureReader(reader *csv.Reader, delimiter rune) {
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// ENCODING
// =============================================================================

// decode converts data to UTF-8 according to encoding. An empty encoding
// means UTF-8 when valid, Windows-1252 otherwise.
func decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("failed to decode CSV: content is not valid UTF-8")
		}
		return string(data), nil
	case "windows-1252", "cp1252":
		return decodeWith(charmap.Windows1252, data)
	case "iso-8859-1", "latin1":
		return decodeWith(charmap.ISO8859_1, data)
	case "":
		if utf8.Valid(data) {
			return string(data), nil
		}
		return decodeWith(charmap.Windows1252, data)
	}
	return "", fmt.Errorf("unsupported encoding %q", encoding)
}

func decodeWith(cm *charmap.Charmap, data []byte) (string, error) {
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode CSV as %s: %w", cm.String(), err)
	}
	return string(out), nil
}

// =============================================================================
// DELIMITER DETECTION
// =============================================================================

// sniffDelimiter picks the candidate that occurs most often outside quotes
// on the first line. Ties go to the earlier candidate; a line with none of
// them is read as comma-separated.
func sniffDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")

	counts := make(map[rune]int, len(candidateDelimiters))
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}
