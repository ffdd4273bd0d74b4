package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SYSTEM CONFIGURATION STRUCTURE
// =============================================================================

// SystemConfig holds the configuration of one partner system. The rule set
// itself is code; this file only routes batch files to it and adjusts its
// output.
type SystemConfig struct {
	// System is the identifier of the rule set, e.g. "QUALIBANKING".
	System string `yaml:"system"`

	// FileMatchingPatterns are glob patterns matched against input file
	// names in batch mode.
	// Examples:
	//   - "relatorio_quali*.xlsx"
	//   - "*FACTA*"
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// CSVSettings applies when the partner delivers CSV.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// TransformationRules run on canonical fields after the rule set maps a
	// row and before the output is assembled.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// path is the file the configuration was loaded from.
	path string
}

// Path returns the file the configuration was loaded from.
func (s *SystemConfig) Path() string {
	return s.path
}

// CSVSettings contains settings for parsing CSV input.
type CSVSettings struct {
	// Delimiter is the field separator. Empty means sniff it from the
	// header line.
	Delimiter string `yaml:"delimiter"`

	// Encoding is "utf-8", "windows-1252" or "iso-8859-1". Empty means
	// detect: UTF-8 when the bytes are valid UTF-8, Windows-1252 otherwise.
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a canonical field.
type TransformationRule struct {
	// Field is the canonical field name, e.g. "NIC_CTR_USUARIO".
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of the Action* constants.
	Type string `yaml:"type"`

	// Value is the parameter for the transformation:
	//   - prepend_string / append_string: the text to add
	//   - replace / regex_replace: the replacement
	//   - pad_zeros_to_length: the target length
	//   - if_empty_use_default: the default
	//   - strip_prefix: the prefix, compared case-insensitively
	Value string `yaml:"value"`

	// Find is the substring or pattern for replace and regex_replace.
	Find string `yaml:"find,omitempty"`

	// LookupTable maps input values to output values for lookup.
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// Transformation action types.
const (
	ActionTrim               = "trim"
	ActionUppercase          = "uppercase"
	ActionLowercase          = "lowercase"
	ActionPrependString      = "prepend_string"
	ActionAppendString       = "append_string"
	ActionReplace            = "replace"
	ActionRegexReplace       = "regex_replace"
	ActionPadZerosToLength   = "pad_zeros_to_length"
	ActionRemoveLeadingZeros = "remove_leading_zeros"
	ActionLookup             = "lookup"
	ActionIfEmptyUseDefault  = "if_empty_use_default"
	ActionStripPrefix        = "strip_prefix"
	ActionFormatCurrency     = "format_currency"
	ActionFormatDate         = "format_date"
)

var knownActions = map[string]struct{}{
	ActionTrim:               {},
	ActionUppercase:          {},
	ActionLowercase:          {},
	ActionPrependString:      {},
	ActionAppendString:       {},
	ActionReplace:            {},
	ActionRegexReplace:       {},
	ActionPadZerosToLength:   {},
	ActionRemoveLeadingZeros: {},
	ActionLookup:             {},
	ActionIfEmptyUseDefault:  {},
	ActionStripPrefix:        {},
	ActionFormatCurrency:     {},
	ActionFormatDate:         {},
}

// IsKnownAction reports whether t is a supported action type.
func IsKnownAction(t string) bool {
	_, ok := knownActions[t]
	return ok
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSystemConfigs loads all system configurations from a directory.
// A missing directory yields an empty map.
//
// PARAMETERS:
//   - configsDir: The directory containing *.yaml / *.yml files.
//
// RETURNS:
//   - The configurations keyed by system identifier.
//   - An error if a file cannot be parsed or fails validation, or if two
//     files configure the same system.
func LoadSystemConfigs(configsDir string) (map[string]*SystemConfig, error) {
	configs := make(map[string]*SystemConfig)

	if _, err := os.Stat(configsDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(configsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(configsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	for _, file := range files {
		sc, err := LoadSystemConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		if prev, exists := configs[sc.System]; exists {
			return nil, fmt.Errorf("system %s configured twice: %s and %s", sc.System, prev.path, file)
		}
		configs[sc.System] = sc
	}

	return configs, nil
}

// LoadSystemConfig loads and validates a single system configuration file.
// Without a "system" key the file name (upper-cased, extension dropped) is
// the identifier.
func LoadSystemConfig(filePath string) (*SystemConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sc SystemConfig
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	sc.path = filePath
	sc.System = strings.TrimSpace(sc.System)
	if sc.System == "" {
		base := filepath.Base(filePath)
		sc.System = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Validate rejects rules on non-canonical fields, unknown actions and
// malformed action parameters.
func (s *SystemConfig) Validate() error {
	for _, p := range s.FileMatchingPatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("file_matching_patterns: bad pattern %q: %w", p, err)
		}
	}

	switch strings.ToLower(s.CSVSettings.Encoding) {
	case "", "utf-8", "utf8", "windows-1252", "cp1252", "iso-8859-1", "latin1":
	default:
		return fmt.Errorf("csv_settings.encoding: unsupported value %q", s.CSVSettings.Encoding)
	}

	if len([]rune(s.CSVSettings.Delimiter)) > 1 {
		return fmt.Errorf("csv_settings.delimiter: must be a single character, got %q", s.CSVSettings.Delimiter)
	}

	for i, rule := range s.TransformationRules {
		if !canonical.IsField(rule.Field) || rule.Field == canonical.Spacer {
			return fmt.Errorf("transformation_rules[%d]: %q is not a canonical field", i, rule.Field)
		}
		for j, action := range rule.Actions {
			if err := validateAction(action); err != nil {
				return fmt.Errorf("transformation_rules[%d].actions[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

func validateAction(a TransformationAction) error {
	if !IsKnownAction(a.Type) {
		return fmt.Errorf("unknown transformation type %q", a.Type)
	}

	switch a.Type {
	case ActionRegexReplace:
		if _, err := regexp.Compile(a.Find); err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
	case ActionPadZerosToLength:
		n, err := strconv.Atoi(a.Value)
		if err != nil || n <= 0 {
			return fmt.Errorf("pad_zeros_to_length needs a positive length, got %q", a.Value)
		}
	case ActionReplace:
		if a.Find == "" {
			return fmt.Errorf("replace needs a non-empty find")
		}
	case ActionLookup:
		if len(a.LookupTable) == 0 {
			return fmt.Errorf("lookup needs a lookup_table")
		}
	}

	return nil
}

// Matches reports whether fileName matches one of the file patterns. The
// comparison ignores case.
func (s *SystemConfig) Matches(fileName string) bool {
	name := strings.ToLower(filepath.Base(fileName))
	for _, p := range s.FileMatchingPatterns {
		if ok, _ := filepath.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}

// RouteFile returns the system whose patterns match fileName. When several
// match, the identifier sorting first wins so routing is deterministic.
func RouteFile(configs map[string]*SystemConfig, fileName string) (string, bool) {
	var matches []string
	for id, sc := range configs {
		if sc.Matches(fileName) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
