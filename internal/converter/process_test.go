package converter

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/rules"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

// sheet builds a text-only sheet from a header line and rows of cells.
func sheet(headers []string, rows ...[]string) *types.Sheet {
	grid := [][]types.Value{make([]types.Value, len(headers))}
	for i, h := range headers {
		grid[0][i] = types.TextValue(h)
	}
	for _, r := range rows {
		cells := make([]types.Value, len(r))
		for i, v := range r {
			cells[i] = types.TextValue(v)
		}
		grid = append(grid, cells)
	}
	return types.NewSheet("test", grid)
}

func quietProcessor(opts ...Option) (*Processor, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewProcessor(append([]Option{WithLogger(logger)}, opts...)...), hook
}

func TestProcessScenarioA(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet(
		[]string{"NUM_PROPOSTA", "VAL_BRUTO", "DAT_EMPRESTIMO"},
		[]string{"1001", "5.000,00", "01/06/2024"},
	)

	out, err := p.Process(in, rules.V8Digital, testNow)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)

	rec := out.Records[0]
	assert.Equal(t, "1001", rec[canonical.NumProposta])
	assert.Equal(t, "5.000,00", rec[canonical.ValBruto])
	assert.Equal(t, "01/06/2024", rec[canonical.DatEmprestimo])
	assert.Equal(t, "17", rec[canonical.NumBanco])
	assert.Equal(t, "V8DIGITAL", rec[canonical.NomBanco])
	assert.Equal(t, "15/05/2024", rec[canonical.DatCtrInclusao])

	assert.Len(t, rec, len(canonical.DataFields()))
	assert.Equal(t, rules.V8Digital, out.System)
	assert.Equal(t, "V8DIGITAL", out.BankName())

	require.Len(t, out.Table.Rows, 1)
	assert.Equal(t, canonical.HeaderRow(), out.Table.Header)
	assert.Len(t, out.Table.Rows[0], canonical.Len())
}

func TestProcessScenarioB(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet(
		[]string{"NUM_PROPOSTA", "VAL_BRUTO"},
		[]string{"", "1.000,00"},
		[]string{"1002", "2.000,00"},
	)

	out, err := p.Process(in, rules.V8Digital, testNow)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "1002", out.Records[0][canonical.NumProposta])
	assert.Equal(t, Stats{RowsRead: 2, FilteredOut: 1, Records: 1}, out.Stats)
}

func TestProcessScenarioC(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet([]string{"NUM_PROPOSTA"}, []string{"1"})

	_, err := p.Process(in, "FAKEBANK", testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSystem)
	assert.Equal(t, "Unknown system: FAKEBANK", err.Error())

	_, err = p.Process(in, "v8digital", testNow)
	assert.ErrorIs(t, err, ErrUnknownSystem)
}

func TestProcessScenarioD(t *testing.T) {
	p, _ := quietProcessor()

	_, err := p.Process(sheet([]string{"NUM_PROPOSTA"}), rules.V8Digital, testNow)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = p.Process(sheet([]string{"NUM_PROPOSTA", "X"}, []string{"", " "}, []string{}), rules.V8Digital, testNow)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, "No data found in the Excel sheet. Please ensure it is not empty.", err.Error())

	_, err = p.Process(nil, rules.V8Digital, testNow)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestProcessNoRecords(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet([]string{"NUM_PROPOSTA", "VAL_BRUTO"}, []string{"", "1,00"})

	_, err := p.Process(in, rules.V8Digital, testNow)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestProcessMissingRequiredColumn(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet([]string{"PROPOSTA", "VAL_BRUTO"}, []string{"1001", "1,00"})

	_, err := p.Process(in, rules.V8Digital, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"NUM_PROPOSTA"`)
}

func TestProcessLogsDuplicateHeaders(t *testing.T) {
	p, hook := quietProcessor()
	in := &types.Sheet{
		Headers: []string{"NUM_PROPOSTA", "num proposta"},
		Rows: []types.RawRow{{
			"NUM_PROPOSTA": types.TextValue("1001"),
			"num proposta": types.TextValue("9999"),
		}},
	}

	out, err := p.Process(in, rules.V8Digital, testNow)
	require.NoError(t, err)
	assert.Equal(t, "1001", out.Records[0][canonical.NumProposta])

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "duplicate headers ignored, first occurrence wins" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestProcessAuditWarnings(t *testing.T) {
	p, _ := quietProcessor()
	in := sheet(
		[]string{"NUM_PROPOSTA", "DAT_EMPRESTIMO"},
		[]string{"1001", "amanhã"},
	)

	out, err := p.Process(in, rules.V8Digital, testNow)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, canonical.DatEmprestimo, out.Warnings[0].Field)
}

func TestProcessAppliesTransformers(t *testing.T) {
	transformers, err := NewTransformers(map[string]*config.SystemConfig{
		rules.V8Digital: {
			System: rules.V8Digital,
			TransformationRules: []config.TransformationRule{{
				Field: canonical.NumProposta,
				Actions: []config.TransformationAction{
					{Type: config.ActionPadZerosToLength, Value: "8"},
				},
			}},
		},
		rules.Pan: {System: rules.Pan},
	})
	require.NoError(t, err)
	assert.Len(t, transformers, 1)

	p, _ := quietProcessor(WithTransformers(transformers))
	out, err := p.Process(sheet([]string{"NUM_PROPOSTA"}, []string{"1001"}), rules.V8Digital, testNow)
	require.NoError(t, err)
	assert.Equal(t, "00001001", out.Records[0][canonical.NumProposta])
}

func TestNewTransformersRejectsBadPattern(t *testing.T) {
	_, err := NewTransformers(map[string]*config.SystemConfig{
		rules.Pan: {
			System: rules.Pan,
			TransformationRules: []config.TransformationRule{{
				Field:   canonical.NomCliente,
				Actions: []config.TransformationAction{{Type: config.ActionRegexReplace, Find: "("}},
			}},
		},
	})
	assert.Error(t, err)
}

func TestProcessSpreadsheetDefault(t *testing.T) {
	out, err := ProcessSpreadsheet(sheet([]string{"NUM_PROPOSTA"}, []string{"7"}), " V8DIGITAL ", testNow)
	require.NoError(t, err)
	assert.Equal(t, "7", out.Records[0][canonical.NumProposta])
}

func TestProcessorSystems(t *testing.T) {
	p := NewProcessor()
	assert.Contains(t, p.Systems(), rules.Facta)
	assert.Same(t, rules.Default(), p.Registry())
}

func TestNewResult(t *testing.T) {
	failed := NewResult(nil, errors.New("Unknown system: X"))
	data, err := json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Unknown system: X"}`, string(data))

	ok := NewResult(&Output{Records: []canonical.Record{{canonical.NumProposta: "1"}}}, nil)
	assert.True(t, ok.Success)
	data, err = json.Marshal(ok)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"success":true,"data":[{"NUM_BANCO":""`)
	assert.NotContains(t, string(data), `"error"`)
}

func TestOutputDocument(t *testing.T) {
	records := []canonical.Record{complete(canonical.Record{canonical.NomBanco: " pan ", "EXTRA": "x"})}
	out := &Output{System: rules.Pan, Records: records, Table: Assemble(records)}

	assert.NotContains(t, out.Records[0], "EXTRA")
	assert.Equal(t, "PAN", out.BankName())

	doc := out.Document()
	assert.Equal(t, out.Table.Header, doc.Header)
	assert.Equal(t, out.Table.Rows, doc.Rows)
	assert.Equal(t, records, doc.Records)

	empty := &Output{System: rules.Facta}
	assert.Equal(t, "FACTA", empty.BankName())
}
