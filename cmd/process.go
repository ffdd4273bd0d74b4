// =============================================================================
// Workbank Normalizer - Process Command
// =============================================================================
//
// This file defines the 'process' command, which normalizes partner files
// from the command line.
//
// COMMAND USAGE:
//   workbank process [flags]
//
// FLAGS:
//   --file     : Process a single file instead of the input directory
//   --system   : Partner system of the file(s); overrides routing
//   --format   : Output format (xlsx, csv or json)
//   --dry-run  : Process without writing or archiving anything
//
// PROCESSING PIPELINE (batch mode):
//   1. Load the per-system configurations
//   2. Discover spreadsheets in the input directory
//   3. Route each file to a system via its file_matching_patterns
//   4. Convert files concurrently, at most max_concurrency at a time
//   5. Write the error log and the summary log
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/converter"
	"github.com/ginjaninja78/workbank-normalizer/internal/xlsxparser"
	"github.com/ginjaninja78/workbank-normalizer/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the flags of the process command.
type processOptions struct {
	file   string
	system string
	format string
	dryRun bool
}

var processOpts processOptions

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Normalize partner spreadsheets into the Workbank layout",
	Long: `The process command converts partner spreadsheets (xlsx, xls or csv) into the
canonical Workbank layout.

Without --file, every spreadsheet in the input directory is processed. Each
file is routed to a partner system by the file_matching_patterns of the
system configurations; --system overrides routing for every file.

On success:
  - The output is written to the output directory and copied to the output archive
  - The input is moved to the input archive (unless keep_inputs is set)

On error:
  - The input stays where it is
  - The failure is recorded in the error log in the log directory
  - Unless continue_on_error is set, no further files are started`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(processOpts)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processOpts.file, "file", "", "Process only this file")
	processCmd.Flags().StringVar(&processOpts.system, "system", "", "Partner system identifier, e.g. FACTA")
	processCmd.Flags().StringVar(&processOpts.format, "format", "", "Output format: xlsx, csv or json (default from config)")
	processCmd.Flags().BoolVar(&processOpts.dryRun, "dry-run", false, "Process without writing output or archiving")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(opts processOptions) error {
	if opts.format != "" && !config.IsOutputFormat(opts.format) {
		return fmt.Errorf("unsupported format %q (want xlsx, csv or json)", opts.format)
	}

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	processor, systems, err := loadProcessor()
	if err != nil {
		return err
	}

	files := utils.NewFileManager(
		appConfig.InputDir,
		appConfig.OutputDir,
		appConfig.InputArchiveDir,
		appConfig.OutputArchiveDir,
		appConfig.LogDir,
	)
	files.ArchiveOnSuccess = !appConfig.KeepInputs
	files.UseTimestampSubdirs = appConfig.ArchiveByDate

	if !opts.dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	b := &batch{
		cfg:       appConfig,
		processor: processor,
		systems:   systems,
		files:     files,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}

	// =========================================================================
	// SINGLE FILE MODE
	// =========================================================================

	if opts.file != "" {
		res := b.convert(opts.file)
		if !res.Success {
			return res.Error
		}
		if res.OutputFile != "" {
			fmt.Println(res.OutputFile)
		}
		return nil
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := files.DiscoverInputFiles()
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		log.WithField("dir", appConfig.InputDir).Info("no input files found")
		return nil
	}

	log.WithField("count", len(inputFiles)).Info("discovered input files")

	// =========================================================================
	// STEP 3-4: CONVERT FILES
	// =========================================================================

	summary, entries := b.run(inputFiles)

	// =========================================================================
	// STEP 5: WRITE LOGS
	// =========================================================================

	if !opts.dryRun {
		if path, err := utils.WriteErrorLog(entries, appConfig.LogDir); err != nil {
			log.WithError(err).Warn("failed to write error log")
		} else if path != "" {
			log.WithField("path", path).Info("wrote error log")
		}

		if path, err := utils.WriteSummaryLog(summary, appConfig.LogDir); err != nil {
			log.WithError(err).Warn("failed to write summary log")
		} else {
			log.WithField("path", path).Info("wrote summary log")
		}
	}

	log.WithFields(logrus.Fields{
		"run_id":     summary.RunID,
		"files":      summary.TotalFiles,
		"successful": summary.SuccessfulFiles,
		"failed":     summary.FailedFiles,
		"records":    summary.TotalRecords,
		"elapsed":    summary.EndTime.Sub(summary.StartTime).String(),
	}).Info("processing complete")

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// =============================================================================
// BATCH
// =============================================================================

// batch converts a set of files with shared configuration.
type batch struct {
	cfg       *config.AppConfig
	processor *converter.Processor
	systems   map[string]*config.SystemConfig
	files     *utils.FileManager
	opts      processOptions
	log       logrus.FieldLogger
	now       func() time.Time
}

// convert runs the converter for one file. The --system flag wins over
// routing; routing supplies the CSV settings either way.
func (b *batch) convert(path string) converter.FileResult {
	settings := converter.Settings{
		System: b.opts.system,
		Format: b.opts.format,
		DryRun: b.opts.dryRun,
		Now:    b.now,
		Logger: b.log,
	}

	if b.opts.system != "" {
		settings.SystemConfig = b.systems[b.opts.system]
	} else if id, ok := config.RouteFile(b.systems, path); ok {
		settings.SystemConfig = b.systems[id]
	}

	return converter.New(path, b.cfg, b.processor, b.files, settings).Run()
}

// run converts inputFiles concurrently and collects the outcome.
//
// CONCURRENCY:
//   At most cfg.MaxConcurrency files are in flight. Unless ContinueOnError
//   is set, the first failure stops new files from starting; files already
//   in flight finish.
func (b *batch) run(inputFiles []string) (utils.ProcessingSummary, []utils.ErrorLogEntry) {
	summary := utils.ProcessingSummary{
		RunID:      uuid.NewString(),
		StartTime:  time.Now(),
		TotalFiles: len(inputFiles),
	}

	limit := b.cfg.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	var wg sync.WaitGroup
	var stopped atomic.Bool
	sem := make(chan struct{}, limit)
	results := make(chan converter.FileResult, len(inputFiles))

	started := 0
	for _, file := range inputFiles {
		sem <- struct{}{}
		if stopped.Load() {
			<-sem
			break
		}

		started++
		wg.Add(1)
		go func(filePath string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := b.convert(filePath)
			if !res.Success && !b.cfg.ContinueOnError {
				stopped.Store(true)
			}
			results <- res
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var entries []utils.ErrorLogEntry
	for res := range results {
		name := filepath.Base(res.FilePath)

		if !res.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    res.FilePath,
				System:       res.System,
				ErrorMessage: res.Error.Error(),
			})
			entries = append(entries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				System:       res.System,
				ErrorType:    errorType(res.Error),
				ErrorMessage: res.Error.Error(),
			})
			b.log.WithError(res.Error).WithField("file", name).Error("file failed")
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRows += res.Stats.RowsRead
		summary.TotalRecords += res.Stats.Records
		summary.Warnings += len(res.Warnings)
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   res.FilePath,
			OutputFile:  res.OutputFile,
			ArchivePath: res.ArchivePath,
			System:      res.System,
			Rows:        res.Stats.RowsRead,
			Records:     res.Stats.Records,
			Warnings:    len(res.Warnings),
			ProcessTime: res.Stats.ProcessingTime,
		})

		for _, w := range res.Warnings {
			entries = append(entries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				System:       res.System,
				ErrorType:    "validation_" + w.Rule,
				ErrorMessage: w.Message,
				RecordNumber: w.Record,
				FieldName:    w.Field,
				FieldValue:   w.Value,
			})
		}
	}

	if skipped := len(inputFiles) - started; skipped > 0 {
		b.log.WithField("skipped", skipped).Warn("stopped after a failure, remaining files left in place")
	}

	summary.EndTime = time.Now()
	return summary, entries
}

// errorType classifies a file failure for the error log.
func errorType(err error) string {
	switch {
	case errors.Is(err, converter.ErrNoSystem):
		return "unrouted"
	case errors.Is(err, converter.ErrUnknownSystem):
		return "unknown_system"
	case errors.Is(err, xlsxparser.ErrInvalidWorkbook), errors.Is(err, xlsxparser.ErrNoWorksheet):
		return "invalid_input"
	case errors.Is(err, converter.ErrNoData):
		return "no_data"
	case errors.Is(err, converter.ErrNoRecords):
		return "no_records"
	case errors.Is(err, converter.ErrMissingColumn):
		return "missing_column"
	}
	return "processing"
}
