// =============================================================================
// Workbank Normalizer - Validation Engine
// =============================================================================
//
// This module audits assembled canonical records before they are written.
// The normalizers never fail: a value they cannot understand is passed
// through unchanged. The audit is where such values become visible, as
// warnings attached to the output, so an operator can fix the partner sheet
// instead of discovering the problem in the back office.
//
// VALIDATION STRATEGY:
//   Each canonical field belongs to at most one class:
//   - dates:    "" or dd/mm/yyyy
//   - money:    "" or 1.234,56
//   - rates:    "" or 1,85
//   - counts:   "" or digits
//   - document: "" or an 11-digit CPF / 14-digit CNPJ, punctuation allowed
//   Fields outside every class are free text and never warned about.
//
// ERROR HANDLING:
//   Validation never fails processing. Every finding is a warning.
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/normalize"
)

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError is one finding of the audit.
type ValidationError struct {
	// Record is the 1-based position of the record in the output.
	Record int

	// Field is the canonical field name.
	Field string

	// Value is the offending value.
	Value string

	// Rule names the class the field belongs to: date, money, rate, count
	// or document.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d, %s: %s (value %q)", e.Record, e.Field, e.Message, e.Value)
}

// =============================================================================
// FIELD CLASSES
// =============================================================================

// Rule names.
const (
	RuleDate     = "date"
	RuleMoney    = "money"
	RuleRate     = "rate"
	RuleCount    = "count"
	RuleDocument = "document"
)

var (
	moneyPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*,\d{2}$`)
	ratePattern  = regexp.MustCompile(`^\d{1,2},\d{1,2}$`)
)

var fieldRules = map[string]string{
	canonical.DatCtrInclusao:          RuleDate,
	canonical.DatEmprestimo:           RuleDate,
	canonical.DatNascimento:           RuleDate,
	canonical.DatCredito:              RuleDate,
	canonical.DatConfirmacao:          RuleDate,
	canonical.DatEstorno:              RuleDate,
	canonical.ValPrestacao:            RuleMoney,
	canonical.ValBruto:                RuleMoney,
	canonical.ValSaldoRecompra:        RuleMoney,
	canonical.ValSaldoRefinanciamento: RuleMoney,
	canonical.ValLiquido:              RuleMoney,
	canonical.ValRepasse:              RuleMoney,
	canonical.ValComissao:             RuleMoney,
	canonical.ValSeguro:               RuleMoney,
	canonical.PclTaxaEmprestimo:       RuleRate,
	canonical.PclComissao:             RuleRate,
	canonical.NumBanco:                RuleCount,
	canonical.QtdParcela:              RuleCount,
	canonical.CodCpfCliente:           RuleDocument,
	canonical.NumCpfAgente:            RuleDocument,
}

// RuleFor returns the class of field, or "" for free text.
func RuleFor(field string) string {
	return fieldRules[field]
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate audits records and returns the findings in record order, then
// canonical field order. An empty result means every value is well formed.
func Validate(records []canonical.Record) []*ValidationError {
	var findings []*ValidationError
	fields := canonical.DataFields()

	for i, rec := range records {
		for _, field := range fields {
			rule, ok := fieldRules[field]
			if !ok {
				continue
			}
			value := rec[field]
			if value == "" {
				continue
			}
			if msg := ValidateField(rule, value); msg != "" {
				findings = append(findings, &ValidationError{
					Record:  i + 1,
					Field:   field,
					Value:   value,
					Rule:    rule,
					Message: msg,
				})
			}
		}
	}

	return findings
}

// ValidateField checks a non-empty value against a rule and returns a
// message describing the problem, or "" when the value is valid.
func ValidateField(rule, value string) string {
	switch rule {
	case RuleDate:
		return validateDate(value)
	case RuleMoney:
		if !moneyPattern.MatchString(value) {
			return "expected an amount like 1.234,56"
		}
	case RuleRate:
		if !ratePattern.MatchString(value) {
			return "expected a rate like 1,85"
		}
	case RuleCount:
		return validateNumeric(value)
	case RuleDocument:
		return validateDocument(value)
	}
	return ""
}

// =============================================================================
// DATA TYPE VALIDATORS
// =============================================================================

func validateDate(value string) string {
	if value == normalize.ZeroDate {
		return "placeholder date"
	}
	if _, err := time.Parse(normalize.DateLayout, value); err != nil {
		return "expected a dd/mm/yyyy date"
	}
	return ""
}

func validateNumeric(value string) string {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return "expected digits only"
		}
	}
	return ""
}

// validateDocument accepts CPF and CNPJ with or without their usual
// punctuation.
func validateDocument(value string) string {
	digits := strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		}
		return r
	}, value)

	if msg := validateNumeric(digits); msg != "" {
		return "expected a CPF or CNPJ"
	}
	if len(digits) != 11 && len(digits) != 14 {
		return "expected an 11-digit CPF or a 14-digit CNPJ"
	}
	return ""
}

// =============================================================================
// SUMMARY
// =============================================================================

// CountByField groups findings by canonical field, for log summaries.
func CountByField(findings []*ValidationError) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Field]++
	}
	return counts
}
