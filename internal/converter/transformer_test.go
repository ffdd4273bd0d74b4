package converter

import (
	"testing"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformerActions(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		action config.TransformationAction
		want   string
	}{
		{"trim", "  x  ", config.TransformationAction{Type: config.ActionTrim}, "x"},
		{"uppercase", "joão", config.TransformationAction{Type: config.ActionUppercase}, "JOÃO"},
		{"lowercase", "ABC", config.TransformationAction{Type: config.ActionLowercase}, "abc"},
		{"prepend", "123", config.TransformationAction{Type: config.ActionPrependString, Value: "A"}, "A123"},
		{"append", "123", config.TransformationAction{Type: config.ActionAppendString, Value: "-X"}, "123-X"},
		{"replace", "A.B.C", config.TransformationAction{Type: config.ActionReplace, Find: ".", Value: ""}, "ABC"},
		{"replace empty find", "A.B", config.TransformationAction{Type: config.ActionReplace}, "A.B"},
		{"regex", "123.456.789-09", config.TransformationAction{Type: config.ActionRegexReplace, Find: `\D`, Value: ""}, "12345678909"},
		{"strip prefix", "SUB joao", config.TransformationAction{Type: config.ActionStripPrefix, Value: "sub "}, "joao"},
		{"strip prefix absent", "joao", config.TransformationAction{Type: config.ActionStripPrefix, Value: "sub "}, "joao"},
		{"pad", "123", config.TransformationAction{Type: config.ActionPadZerosToLength, Value: "6"}, "000123"},
		{"pad bad length", "123", config.TransformationAction{Type: config.ActionPadZerosToLength, Value: "x"}, "123"},
		{"leading zeros", "000123", config.TransformationAction{Type: config.ActionRemoveLeadingZeros}, "123"},
		{"all zeros", "0000", config.TransformationAction{Type: config.ActionRemoveLeadingZeros}, "0"},
		{"currency", "1500.5", config.TransformationAction{Type: config.ActionFormatCurrency}, "1.500,50"},
		{"date", "2024-06-01", config.TransformationAction{Type: config.ActionFormatDate}, "01/06/2024"},
		{"lookup hit", "EM ANALISE", config.TransformationAction{Type: config.ActionLookup, LookupTable: map[string]string{"EM ANALISE": "PENDENTE"}}, "PENDENTE"},
		{"lookup miss", "PAGO", config.TransformationAction{Type: config.ActionLookup, LookupTable: map[string]string{"EM ANALISE": "PENDENTE"}}, "PAGO"},
		{"default", " ", config.TransformationAction{Type: config.ActionIfEmptyUseDefault, Value: "DIGITAL"}, "DIGITAL"},
		{"default kept", "FISICO", config.TransformationAction{Type: config.ActionIfEmptyUseDefault, Value: "DIGITAL"}, "FISICO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransformer([]config.TransformationRule{{
				Field:   canonical.DscObservacao,
				Actions: []config.TransformationAction{tt.action},
			}})
			require.NoError(t, err)

			rec := canonical.Record{canonical.DscObservacao: tt.value}
			require.NoError(t, tr.Apply(rec))
			assert.Equal(t, tt.want, rec[canonical.DscObservacao])
		})
	}
}

func TestTransformerChainsActions(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{{
		Field: canonical.NicCtrUsuario,
		Actions: []config.TransformationAction{
			{Type: config.ActionTrim},
			{Type: config.ActionStripPrefix, Value: "SUB "},
			{Type: config.ActionUppercase},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())

	rec := canonical.Record{canonical.NicCtrUsuario: "  sub maria "}
	require.NoError(t, tr.Apply(rec))
	assert.Equal(t, "MARIA", rec[canonical.NicCtrUsuario])
}

func TestTransformerUnknownAction(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{{
		Field:   canonical.NomCliente,
		Actions: []config.TransformationAction{{Type: "reverse"}},
	}})
	require.NoError(t, err)

	err = tr.Apply(canonical.Record{canonical.NomCliente: "x"})
	assert.Error(t, err)
}

func TestNilTransformer(t *testing.T) {
	var tr *Transformer
	assert.Equal(t, 0, tr.Len())
	assert.NoError(t, tr.Apply(canonical.Record{}))
}

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "00042", PadLeft("42", 5, '0'))
	assert.Equal(t, "123456", PadLeft("123456", 3, '0'))
	assert.Equal(t, "0ção", PadLeft("ção", 4, '0'))
}
