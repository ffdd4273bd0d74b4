// =============================================================================
// Workbank Normalizer - Value Normalizers
// =============================================================================
//
// Pure functions turning raw cells into the canonical text forms used by the
// output layout:
//   - currency: "1.234,50" (Brazilian convention, two fraction digits)
//   - dates:    "dd/mm/yyyy"
//   - rates:    "1,85"
//
// None of them fail. A value that cannot be understood is returned as it
// came in, so one malformed cell never aborts a batch.
//
// =============================================================================

package normalize

import (
	"math"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders a monetary cell as "1.234,50".
//
// Text input is classified by its separators:
//   - both "," and ".": the one occurring last is the decimal separator
//   - only ",": decimal comma
//   - only "." or none: already machine-readable
//
// Unparseable text and non-finite numbers are returned unchanged. Empty
// cells give "".
func FormatCurrency(v types.Value) string {
	switch v.Kind {
	case types.Empty:
		return ""
	case types.Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return v.String()
		}
		return renderBRL(decimal.NewFromFloat(v.Num))
	}

	raw := v.String()
	d, ok := ParseAmount(raw)
	if !ok {
		return raw
	}
	return renderBRL(d)
}

// FormatCurrencyText is FormatCurrency for plain strings.
func FormatCurrencyText(s string) string {
	return FormatCurrency(types.TextValue(s))
}

// ParseAmount parses a decimal-comma or decimal-dot amount.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma < lastDot {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// renderBRL formats d with two fraction digits, "," as the decimal separator
// and "." grouping thousands.
func renderBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(fixed) + len(fixed)/3 + 1)
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)

	return b.String()
}
