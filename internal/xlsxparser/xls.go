package xlsxparser

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/shakinm/xlsReader/xls"
)

// decodeXLS reads the first worksheet of a legacy BIFF8 workbook.
func decodeXLS(data []byte) (sheet *types.Sheet, err error) {
	// xlsReader panics on some truncated streams.
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	if len(wb.GetSheets()) == 0 {
		return nil, ErrNoWorksheet
	}

	ws, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWorksheet, err)
	}

	var grid [][]types.Value
	for _, row := range ws.GetRows() {
		cols := row.GetCols()
		cells := make([]types.Value, len(cols))
		for i, col := range cols {
			cells[i] = xlsValue(col.GetType(), col.GetString(), col.GetFloat64())
		}
		grid = append(grid, cells)
	}

	return types.NewSheet(ws.GetName(), trimTrailingBlankRows(grid)), nil
}

// xlsValue types a BIFF cell from its record type. Label records are text;
// number and RK records carry a float, formula records carry either.
func xlsValue(recordType, text string, num float64) types.Value {
	switch {
	case text == "":
		return types.Value{}
	case strings.Contains(recordType, "Label"), strings.Contains(recordType, "Blank"):
		return types.TextValue(text)
	case strings.Contains(recordType, "Number"), strings.Contains(recordType, "Rk"):
		if !math.IsNaN(num) && !math.IsInf(num, 0) {
			return types.NumberValue(num, "")
		}
	case strings.Contains(recordType, "Formula"):
		if _, ok := parseFinite(text); ok {
			return types.NumberValue(num, "")
		}
	}
	return types.TextValue(text)
}

// BIFF row records may be allocated for formatted but empty rows.
func trimTrailingBlankRows(grid [][]types.Value) [][]types.Value {
	end := len(grid)
	for end > 0 && blankCells(grid[end-1]) {
		end--
	}
	return grid[:end]
}

func blankCells(cells []types.Value) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
