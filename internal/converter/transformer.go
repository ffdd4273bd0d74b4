// =============================================================================
// Workbank Normalizer - Transformation Engine
// =============================================================================
//
// This module applies the post-mapping transformation rules of a system
// configuration to canonical records. The rule sets already produce
// canonical values; these rules cover site-specific adjustments that do not
// justify a code change, for example:
//   - upper-casing logins
//   - zero-padding proposal numbers for a downstream system
//   - translating a partner's new status label through a lookup table
//
// Actions on a field are applied in order. The rule configuration has
// already been validated by the config package.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/normalize"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies transformation rules to canonical records.
type Transformer struct {
	rules []config.TransformationRule

	// regexes caches compiled regex_replace patterns by pattern text.
	regexes map[string]*regexp.Regexp
}

// NewTransformer compiles the rules of one system.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{
		rules:   rules,
		regexes: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if action.Type != config.ActionRegexReplace {
				continue
			}
			if _, ok := t.regexes[action.Find]; ok {
				continue
			}
			re, err := regexp.Compile(action.Find)
			if err != nil {
				return nil, fmt.Errorf("field %s: invalid regex pattern: %w", rule.Field, err)
			}
			t.regexes[action.Find] = re
		}
	}

	return t, nil
}

// Len returns the number of rules.
func (t *Transformer) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Apply runs every rule on rec in place. A nil Transformer does nothing.
func (t *Transformer) Apply(rec canonical.Record) error {
	if t == nil {
		return nil
	}

	for _, rule := range t.rules {
		value := rec[rule.Field]
		for _, action := range rule.Actions {
			var err error
			value, err = t.applyAction(value, action)
			if err != nil {
				return fmt.Errorf("transformation '%s' on %s failed: %w", action.Type, rule.Field, err)
			}
		}
		rec[rule.Field] = value
	}

	return nil
}

// applyAction applies a single transformation action.
func (t *Transformer) applyAction(value string, action config.TransformationAction) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case config.ActionTrim:
		return strings.TrimSpace(value), nil

	case config.ActionUppercase:
		return strings.ToUpper(value), nil

	case config.ActionLowercase:
		return strings.ToLower(value), nil

	case config.ActionPrependString:
		// EXAMPLE: "123" with value "A" becomes "A123"
		return action.Value + value, nil

	case config.ActionAppendString:
		return value + action.Value, nil

	case config.ActionReplace:
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case config.ActionRegexReplace:
		re, ok := t.regexes[action.Find]
		if !ok {
			return "", fmt.Errorf("pattern %q was not compiled", action.Find)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case config.ActionStripPrefix:
		// EXAMPLE: "SUB joao" with value "sub " becomes "joao"
		if len(value) >= len(action.Value) && strings.EqualFold(value[:len(action.Value)], action.Value) {
			return value[len(action.Value):], nil
		}
		return value, nil

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case config.ActionPadZerosToLength:
		// EXAMPLE: "123" with value "8" becomes "00000123"
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case config.ActionRemoveLeadingZeros:
		// EXAMPLE: "000123" becomes "123"; "0000" becomes "0"
		trimmed := strings.TrimLeft(value, "0")
		if trimmed == "" && value != "" {
			return "0", nil
		}
		return trimmed, nil

	case config.ActionFormatCurrency:
		return normalize.FormatCurrencyText(value), nil

	case config.ActionFormatDate:
		return normalize.FormatDateText(value), nil

	// =========================================================================
	// LOOKUPS AND DEFAULTS
	// =========================================================================

	case config.ActionLookup:
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case config.ActionIfEmptyUseDefault:
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	default:
		return value, fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// PadLeft pads s on the left with padChar up to length runes.
func PadLeft(s string, length int, padChar rune) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}
