// =============================================================================
// Workbank Normalizer - Converter Module
// =============================================================================
//
// This module orchestrates the pipeline for a single partner file, from
// decoding to the normalized output on disk.
//
// CONVERSION PIPELINE:
//   1. Resolve the partner system
//   2. Decode the input (xlsx, xls or csv)
//   3. Process the sheet through the rule set (see process.go)
//   4. Encode the output table
//   5. Write the output file
//   6. Archive the processed files
//
// CONCURRENCY:
//   A Converter handles one file. The batch command runs one per goroutine;
//   the shared Processor and FileManager are safe for concurrent use.
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/validation"
	"github.com/ginjaninja78/workbank-normalizer/internal/writer"
	"github.com/ginjaninja78/workbank-normalizer/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrNoSystem is returned when neither the caller nor a system config names
// the partner system of a file.
var ErrNoSystem = errors.New("no system configured for file")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// FileResult represents the outcome of processing a single file.
type FileResult struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// System is the partner system the file was processed as.
	System string

	// OutputFile is the path to the generated file. It is empty if
	// processing failed or the run was a dry run.
	OutputFile string

	// ArchivePath is where the input was archived, if it was.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Warnings are the audit findings of the output.
	Warnings []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Stats

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Settings tune a single conversion.
type Settings struct {
	// System is the partner identifier. Empty means SystemConfig.System.
	System string

	// SystemConfig supplies CSV settings and the system identifier. May be
	// nil.
	SystemConfig *config.SystemConfig

	// Format overrides the configured output format.
	Format string

	// DryRun processes the file without writing or archiving anything.
	DryRun bool

	// Now returns the processing time. Default: time.Now.
	Now func() time.Time

	// Logger receives the progress of the conversion.
	// Default: logrus.StandardLogger()
	Logger logrus.FieldLogger
}

// Converter handles the conversion of a single partner file.
type Converter struct {
	filePath  string
	appConfig *config.AppConfig
	processor *Processor
	files     *utils.FileManager
	settings  Settings
	log       logrus.FieldLogger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - filePath: The path to the input file.
//   - appConfig: The application configuration.
//   - processor: The rule dispatcher, shared between conversions.
//   - files: Output writing and archival. May be nil for dry runs.
//   - settings: Per-file settings.
func New(filePath string, appConfig *config.AppConfig, processor *Processor, files *utils.FileManager, settings Settings) *Converter {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Logger == nil {
		settings.Logger = logrus.StandardLogger()
	}
	if settings.Format == "" {
		settings.Format = appConfig.OutputFormat
	}

	return &Converter{
		filePath:  filePath,
		appConfig: appConfig,
		processor: processor,
		files:     files,
		settings:  settings,
		log:       settings.Logger.WithField("file", filepath.Base(filePath)),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// RETURNS:
//   - A FileResult describing the outcome. Run never panics on bad input;
//     every failure is reported through FileResult.Error.
func (c *Converter) Run() FileResult {
	startTime := time.Now()
	result := FileResult{FilePath: c.filePath}

	// =========================================================================
	// STEP 1: RESOLVE SYSTEM
	// =========================================================================

	system := c.settings.System
	var csvSettings config.CSVSettings
	if sc := c.settings.SystemConfig; sc != nil {
		if system == "" {
			system = sc.System
		}
		csvSettings = sc.CSVSettings
	}
	if system == "" {
		result.Error = ErrNoSystem
		return result
	}

	result.System = system
	log := c.log.WithField("system", system)
	log.Info("processing file")

	// =========================================================================
	// STEP 2: DECODE INPUT
	// =========================================================================

	sheet, err := DecodeFile(c.filePath, csvSettings)
	if err != nil {
		result.Error = err
		return result
	}

	log.WithFields(logrus.Fields{
		"sheet":   sheet.Name,
		"columns": len(sheet.Headers),
		"rows":    len(sheet.Rows),
	}).Debug("decoded input")

	// =========================================================================
	// STEP 3: PROCESS
	// =========================================================================

	now := c.settings.Now()

	out, err := c.processor.Process(sheet, system, now)
	if err != nil {
		result.Error = err
		return result
	}

	result.Warnings = out.Warnings
	result.Stats.Stats = out.Stats

	// =========================================================================
	// STEP 4: ENCODE OUTPUT
	// =========================================================================

	var buf bytes.Buffer
	if err := writer.Encode(&buf, c.settings.Format, out.Document()); err != nil {
		result.Error = fmt.Errorf("failed to encode output: %w", err)
		return result
	}

	if c.settings.DryRun || c.files == nil {
		log.WithField("records", out.Stats.Records).Info("dry run, nothing written")
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILE
	// =========================================================================

	outputPath, err := c.writeOutput(buf.Bytes(), out, now)
	if err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	log.WithField("output", outputPath).Info("wrote output")

	// =========================================================================
	// STEP 6: ARCHIVE FILES
	// =========================================================================
	// Archival failures are logged; the output already exists.

	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		log.WithError(err).Warn("failed to archive output")
	}

	if archived, err := c.files.ArchiveInputFile(c.filePath); err != nil {
		log.WithError(err).Warn("failed to archive input")
	} else if archived != c.filePath {
		result.ArchivePath = archived
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// writeOutput writes the encoded output under the configured name.
func (c *Converter) writeOutput(data []byte, out *Output, now time.Time) (string, error) {
	name := utils.GenerateOutputFileName(c.appConfig.OutputNameFormat, now, map[string]string{
		"bank":   out.BankName(),
		"system": out.System,
		"ext":    writer.Extension(c.settings.Format),
	})

	f, path, err := utils.CreateUnique(filepath.Join(c.files.OutputDir, name))
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return path, nil
}
