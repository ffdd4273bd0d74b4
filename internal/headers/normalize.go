// Package headers resolves partner column names that differ only in accents,
// case, punctuation or spacing.
package headers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics removes combining marks after canonical decomposition,
// turning "Líquido" into "Liquido" and "Ç" into "C".
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize derives the lookup key of a header:
// trim, strip diacritics, uppercase, drop everything that is not a letter,
// digit or separator, then join the remaining words with "_". The ordinal
// indicators º and ª are dropped too, so "Nº Proposta" keys as N_PROPOSTA.
//
// Underscores count as separators, so Normalize is idempotent:
// Normalize("Data de Nascimento") == Normalize("DATA_DE_NASCIMENTO").
func Normalize(header string) string {
	s := strings.ToUpper(stripDiacritics(strings.TrimSpace(header)))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isOrdinal(r):
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_':
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "_")
}

func isOrdinal(r rune) bool {
	return r == 'º' || r == 'ª'
}

// Fold prepares free text for vocabulary comparison: trimmed, accent-free,
// uppercased, single-spaced. Punctuation is kept, so "REFIN / PORT" and
// "CARTÃO C/ SAQUE" stay distinguishable.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(stripDiacritics(s))), " ")
}
