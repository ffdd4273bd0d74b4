package validation

import (
	"testing"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		rule  string
		value string
		ok    bool
	}{
		{RuleDate, "25/12/2023", true},
		{RuleDate, "31/02/2024", false},
		{RuleDate, "2023-12-25", false},
		{RuleDate, "00/00/0000", false},
		{RuleMoney, "5.500,00", true},
		{RuleMoney, "0,00", true},
		{RuleMoney, "-12,50", true},
		{RuleMoney, "1234,50", false},
		{RuleMoney, "abc", false},
		{RuleRate, "1,85", true},
		{RuleRate, "12,5", true},
		{RuleRate, "1.85", false},
		{RuleCount, "84", true},
		{RuleCount, "84x", false},
		{RuleDocument, "123.456.789-09", true},
		{RuleDocument, "12345678909", true},
		{RuleDocument, "12.345.678/0001-95", true},
		{RuleDocument, "1234", false},
		{RuleDocument, "ABC.DEF.GHI-JK", false},
		{"", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.value, func(t *testing.T) {
			msg := ValidateField(tt.rule, tt.value)
			if tt.ok {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	records := []canonical.Record{
		{
			canonical.NumBanco:      "17",
			canonical.ValBruto:      "5.000,00",
			canonical.DatEmprestimo: "01/06/2024",
			canonical.NomCliente:    "FULANO 123 !!",
		},
		{
			canonical.ValBruto:      "n/d",
			canonical.DatEmprestimo: "ontem",
			canonical.CodCpfCliente: "",
		},
	}

	findings := Validate(records)
	require.Len(t, findings, 2)

	assert.Equal(t, 2, findings[0].Record)
	assert.Equal(t, canonical.DatEmprestimo, findings[0].Field)
	assert.Equal(t, RuleDate, findings[0].Rule)

	assert.Equal(t, canonical.ValBruto, findings[1].Field)
	assert.Equal(t, "n/d", findings[1].Value)
	assert.Contains(t, findings[1].Error(), "record 2, VAL_BRUTO")

	assert.Equal(t, map[string]int{canonical.DatEmprestimo: 1, canonical.ValBruto: 1}, CountByField(findings))
}

func TestValidateEmpty(t *testing.T) {
	assert.Empty(t, Validate(nil))
}

func TestRuleFor(t *testing.T) {
	assert.Equal(t, RuleMoney, RuleFor(canonical.ValLiquido))
	assert.Equal(t, "", RuleFor(canonical.NomCliente))
}
