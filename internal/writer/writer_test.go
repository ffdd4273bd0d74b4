package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testDocument() *Document {
	records := []canonical.Record{
		{canonical.NumBanco: "17", canonical.NomBanco: "V8 DIGITAL", canonical.QtdParcela: "84", canonical.ValBruto: "5.000,00"},
		{canonical.NumBanco: "17", canonical.NomBanco: "V8 DIGITAL", canonical.QtdParcela: "", canonical.NomCliente: "JOSÉ; \"ZÉ\""},
	}
	doc := &Document{Header: canonical.HeaderRow(), Records: records}
	for _, r := range records {
		doc.Rows = append(doc.Rows, r.Values())
	}
	return doc
}

func TestEncodeXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, config.FormatXLSX, testDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, canonical.NumBanco, rows[0][0])
	assert.Equal(t, "", rows[0][39])
	assert.Equal(t, canonical.DatCredito, rows[0][40])
	assert.Equal(t, "V8 DIGITAL", rows[1][1])
	assert.Equal(t, "5.000,00", rows[1][35])

	typ, err := f.GetCellType(SheetName, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	typ, err = f.GetCellType(SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, typ)

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, config.FormatCSV, testDocument()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBFNUM_BANCO;NOM_BANCO;"))

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, canonical.Len(), strings.Count(lines[1], ";")+1)
	assert.Contains(t, lines[2], `"JOSÉ; ""ZÉ"""`)
}

func TestEncodeCSVWithoutBOM(t *testing.T) {
	opts := DefaultOptions()
	opts.BOM = false

	var buf bytes.Buffer
	require.NoError(t, EncodeWithOptions(&buf, config.FormatCSV, testDocument(), opts))
	assert.True(t, strings.HasPrefix(buf.String(), "NUM_BANCO;"))
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, config.FormatJSON, testDocument()))

	var back []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, "84", back[0][canonical.QtdParcela])
	assert.Len(t, back[1], len(canonical.DataFields()))

	assert.Less(t, strings.Index(buf.String(), canonical.NumBanco), strings.Index(buf.String(), canonical.ValSeguro))
}

func TestEncodeJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, config.FormatJSON, &Document{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", testDocument())
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Contains(t, ContentType(config.FormatXLSX), "spreadsheetml")
	assert.Contains(t, ContentType(config.FormatCSV), "text/csv")
	assert.Equal(t, "application/octet-stream", ContentType("xml"))
	assert.Equal(t, "csv", Extension(config.FormatCSV))
}
