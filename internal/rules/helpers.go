package rules

import (
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/headers"
	"github.com/ginjaninja78/workbank-normalizer/internal/normalize"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
)

// =============================================================================
// CLASSIFICATION VOCABULARY
// =============================================================================

// Vocabulary translates free-text partner classifications into canonical
// tokens. Exact matches are tried before substring containment; both compare
// accent- and case-folded text.
type Vocabulary struct {
	exact    map[string]string
	contains []containsRule
}

type containsRule struct {
	fragment string
	token    string
}

// NewVocabulary builds a vocabulary from exact source spellings.
func NewVocabulary(exact map[string]string) *Vocabulary {
	v := &Vocabulary{exact: make(map[string]string, len(exact))}
	for k, tok := range exact {
		v.exact[headers.Fold(k)] = tok
	}
	return v
}

// Contains appends a substring rule. Rules are tried in the order added.
func (v *Vocabulary) Contains(fragment, token string) *Vocabulary {
	v.contains = append(v.contains, containsRule{fragment: headers.Fold(fragment), token: token})
	return v
}

// Translate returns the canonical token for raw, or false when no rule
// matches.
func (v *Vocabulary) Translate(raw string) (string, bool) {
	folded := headers.Fold(raw)
	if folded == "" {
		return "", false
	}
	if tok, ok := v.exact[folded]; ok {
		return tok, true
	}
	for _, rule := range v.contains {
		if strings.Contains(folded, rule.fragment) {
			return rule.token, true
		}
	}
	return "", false
}

// TranslateOr returns the canonical token, or fallback when nothing matches.
func (v *Vocabulary) TranslateOr(raw, fallback string) string {
	if tok, ok := v.Translate(raw); ok {
		return tok
	}
	return fallback
}

// =============================================================================
// DATE PLACEHOLDER POLICIES
// =============================================================================

// birthDate formats a birth date, substituting the placeholder birth date
// when the partner exported none.
func birthDate(v types.Value) string {
	d := normalize.FormatDate(v)
	if normalize.IsAbsentDate(d) {
		return canonical.PlaceholderBirthDate
	}
	return d
}

// creditDate formats a credit date, clearing placeholder dates.
func creditDate(v types.Value) string {
	d := normalize.FormatDate(v)
	if normalize.IsAbsentDate(d) {
		return ""
	}
	return d
}

// =============================================================================
// STRING HELPERS
// =============================================================================

// stripMarker trims s and drops one leading marker, such as the apostrophe
// spreadsheet tools add to force text cells.
func stripMarker(s, marker string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), marker)
}

// stripPrefixFold drops prefix from s, ignoring case.
func stripPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}

// join concatenates two source fields with sep, keeping the separator even
// when a side is empty so downstream parsing stays positional.
func join(a, sep, b string) string {
	return a + sep + b
}

// equalFold compares folded free text.
func equalFold(a, b string) bool {
	return headers.Fold(a) == headers.Fold(b)
}
