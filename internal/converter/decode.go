package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/csvparser"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/ginjaninja78/workbank-normalizer/internal/xlsxparser"
)

// textExtensions are decoded as CSV when the content is not a workbook.
var textExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

// DecodeFile decodes the partner file at path. The leading bytes pick the
// decoder, as in Decode.
func DecodeFile(path string, settings config.CSVSettings) (*types.Sheet, error) {
	head, err := readHead(path, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if xlsxparser.Sniff(head) != xlsxparser.FormatUnknown {
		return xlsxparser.ParseFile(path)
	}
	if textExtensions[strings.ToLower(filepath.Ext(path))] {
		return csvparser.ParseFile(path, settings)
	}
	return nil, xlsxparser.ErrInvalidWorkbook
}

// readHead returns up to n leading bytes of the file at path.
func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// Decode decodes an uploaded or in-memory partner file. Workbooks are
// recognized by their leading bytes whatever the name says; anything else
// is read as CSV when name has a text extension and rejected otherwise.
func Decode(name string, data []byte, settings config.CSVSettings) (*types.Sheet, error) {
	if xlsxparser.Sniff(data) != xlsxparser.FormatUnknown {
		return xlsxparser.Decode(data)
	}
	if textExtensions[strings.ToLower(filepath.Ext(name))] {
		return csvparser.Parse(bytes.NewReader(data), name, settings)
	}
	return nil, xlsxparser.ErrInvalidWorkbook
}
