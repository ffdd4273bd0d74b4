// =============================================================================
// Workbank Normalizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// shares the configuration and logging set up here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (workbank)
//   ├── processCmd (workbank process)
//   ├── serveCmd   (workbank serve)
//   ├── systemsCmd (workbank systems)
//   └── versionCmd (workbank version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later wins:
//   1. Built-in defaults
//   2. The YAML file named by --config (default ./config.yaml, optional)
//   3. WORKBANK_* environment variables, e.g. WORKBANK_OUTPUT_FORMAT=csv
//   4. Command flags bound to a key
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/converter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the resolved configuration, set before any subcommand runs.
var appConfig *config.AppConfig

// log is the application logger.
var log = logrus.StandardLogger()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "workbank",
	Short: "Workbank Normalizer - Normalize partner loan spreadsheets into the Workbank layout",
	Long: `Workbank Normalizer converts the loan production spreadsheets exported by
partner banks and promoters into the single canonical layout the Workbank back
office imports.

Key Features:
  - One rule set per partner system, selected by identifier
  - Tolerant header matching (case, accents and spacing are ignored)
  - Brazilian currency and date normalization
  - Optional per-system transformation rules in YAML
  - Batch processing of an input directory, or an HTTP upload endpoint

Example Usage:
  workbank process                                  # Process every routed file in the input directory
  workbank process --system FACTA --file ./f.xlsx   # Process a single file
  workbank serve                                    # Start the HTTP server
  workbank systems                                  # List supported partner systems`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			if _, err := os.Stat(cfgFile); err != nil {
				return fmt.Errorf("config file: %w", err)
			}
		}

		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}

		appConfig = cfg
		if path := viper.ConfigFileUsed(); path != "" {
			log.WithField("config", path).Debug("configuration loaded")
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the main configuration file (default is ./config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// initConfig points viper at the configuration file and the environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("WORKBANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing default file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}
}

// setupLogging applies the configured level and format to the logger.
func setupLogging(cfg *config.AppConfig) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stderr)
	return nil
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadProcessor loads the per-system configurations and builds the rule
// dispatcher with their transformation rules.
func loadProcessor() (*converter.Processor, map[string]*config.SystemConfig, error) {
	systems, err := config.LoadSystemConfigs(appConfig.ConfigsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load system configs: %w", err)
	}

	transformers, err := converter.NewTransformers(systems)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build transformation rules: %w", err)
	}

	processor := converter.NewProcessor(
		converter.WithTransformers(transformers),
		converter.WithLogger(log),
	)

	for id, sc := range systems {
		if _, ok := processor.Registry().Lookup(id); !ok {
			log.WithFields(logrus.Fields{
				"system": id,
				"config": sc.Path(),
			}).Warn("configuration names an unknown system")
		}
	}

	log.WithField("count", len(systems)).Debug("loaded system configurations")
	return processor, systems, nil
}
