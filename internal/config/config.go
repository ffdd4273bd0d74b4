// =============================================================================
// Workbank Normalizer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the application configuration and the per-system
// configurations.
//
// CONFIGURATION FILES:
//   1. App Config (config.yaml): directories, output naming, logging, server
//   2. System Configs (configs/*.yaml): file routing and post-mapping rules
//      for one partner system each
//
// Every setting of the app config can be overridden through viper, which
// reads WORKBANK_* environment variables and bound command-line flags.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the writer.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DefaultOutputNameFormat reproduces the file name the back office expects:
// WORKBANK + bank name + ddmmyyyy.
const DefaultOutputNameFormat = "WORKBANK{bank}{date}.{ext}"

// =============================================================================
// APP CONFIGURATION STRUCTURE
// =============================================================================

// AppConfig holds the global application configuration.
type AppConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for partner spreadsheets in batch mode.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the normalized files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir keeps a copy of every generated file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ConfigsDir holds one YAML file per partner system.
	// Default: "./configs"
	ConfigsDir string `yaml:"configs_dir"`

	// LogDir receives the error and summary logs of batch runs.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is any level logrus understands.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat defines the output file name.
	// Placeholders:
	//   {bank}      - NOM_BANCO of the first record, uppercased
	//   {date}      - processing date as ddmmyyyy
	//   {system}    - system identifier
	//   {timestamp} - processing time as YYYYMMDD_HHMMSS
	//   {uuid}      - a random UUID
	//   {ext}       - extension of the output format
	// Default: DefaultOutputNameFormat
	OutputNameFormat string `yaml:"output_name_format"`

	// OutputFormat is "xlsx", "csv" or "json".
	// Default: "xlsx"
	OutputFormat string `yaml:"output_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds the number of files processed at once in batch
	// mode. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps a batch running after a file fails.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error"`

	// KeepInputs leaves input files in place instead of archiving them.
	// Default: false
	KeepInputs bool `yaml:"keep_inputs"`

	// ArchiveByDate files archived inputs and outputs under YYYY/MM/DD
	// subdirectories of the archive directories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadMB caps the size of an uploaded spreadsheet.
	// Default: 20
	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the application configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the AppConfig struct, defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*AppConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// FromViper builds the configuration from the file viper located, if any,
// then applies every key viper has a value for (environment variables and
// bound flags).
func FromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := Default()

	if path := v.ConfigFileUsed(); path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	overrideString(v, "input_dir", &cfg.InputDir)
	overrideString(v, "output_dir", &cfg.OutputDir)
	overrideString(v, "input_archive_dir", &cfg.InputArchiveDir)
	overrideString(v, "output_archive_dir", &cfg.OutputArchiveDir)
	overrideString(v, "configs_dir", &cfg.ConfigsDir)
	overrideString(v, "log_dir", &cfg.LogDir)
	overrideString(v, "log_level", &cfg.LogLevel)
	overrideString(v, "log_format", &cfg.LogFormat)
	overrideString(v, "output_name_format", &cfg.OutputNameFormat)
	overrideString(v, "output_format", &cfg.OutputFormat)
	overrideString(v, "server.addr", &cfg.Server.Addr)

	if v.IsSet("max_concurrency") {
		cfg.MaxConcurrency = v.GetInt("max_concurrency")
	}
	if v.IsSet("continue_on_error") {
		cfg.ContinueOnError = v.GetBool("continue_on_error")
	}
	if v.IsSet("keep_inputs") {
		cfg.KeepInputs = v.GetBool("keep_inputs")
	}
	if v.IsSet("archive_by_date") {
		cfg.ArchiveByDate = v.GetBool("archive_by_date")
	}
	if v.IsSet("server.max_upload_mb") {
		cfg.Server.MaxUploadMB = v.GetInt64("server.max_upload_mb")
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *AppConfig) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputArchiveDir == "" {
		cfg.OutputArchiveDir = "./output_archive"
	}
	if cfg.ConfigsDir == "" {
		cfg.ConfigsDir = "./configs"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "./logs"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = DefaultOutputNameFormat
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatXLSX
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 20
	}
}

// Validate checks values that defaults cannot repair.
func (cfg *AppConfig) Validate() error {
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q (want text or json)", cfg.LogFormat)
	}

	if !IsOutputFormat(cfg.OutputFormat) {
		return fmt.Errorf("output_format: unsupported value %q (want xlsx, csv or json)", cfg.OutputFormat)
	}

	return nil
}

// IsOutputFormat reports whether format names a supported output encoding.
func IsOutputFormat(format string) bool {
	switch format {
	case FormatXLSX, FormatCSV, FormatJSON:
		return true
	}
	return false
}

// UploadLimit returns the upload cap in bytes.
func (s ServerConfig) UploadLimit() int64 {
	return s.MaxUploadMB << 20
}
