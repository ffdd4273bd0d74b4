package converter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/headers"
	"github.com/ginjaninja78/workbank-normalizer/internal/rules"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/ginjaninja78/workbank-normalizer/internal/validation"
	"github.com/sirupsen/logrus"
)

// Fatal conditions of ProcessSpreadsheet. Their messages are shown to end
// users as they are.
var (
	ErrNoData        = errors.New("No data found in the Excel sheet. Please ensure it is not empty.")
	ErrNoRecords     = errors.New("No data was extracted. Please check if the data rows are empty, if the column headers are correct, or if they match the specified filters (e.g., date range).")
	ErrUnknownSystem = errors.New("Unknown system")
	ErrMissingColumn = errors.New("Required column not found")
)

// =============================================================================
// OUTPUT
// =============================================================================

// Output is the Success arm of a processing run.
type Output struct {
	// System is the rule set that produced the records.
	System string

	// Records are total over the canonical data fields, in input row order.
	Records []canonical.Record

	// Table is Records laid out for a spreadsheet.
	Table Table

	// Warnings are audit findings. They never fail a run.
	Warnings []*validation.ValidationError

	Stats Stats
}

// Stats counts what happened to the input rows.
type Stats struct {
	RowsRead    int
	BlankRows   int
	FilteredOut int
	Records     int
}

// BankName is the NOM_BANCO of the first record, upper-cased, falling back
// to the system identifier. Output file names are built from it.
func (o *Output) BankName() string {
	if len(o.Records) > 0 {
		if name := strings.TrimSpace(o.Records[0][canonical.NomBanco]); name != "" {
			return strings.ToUpper(name)
		}
	}
	return strings.ToUpper(o.System)
}

// Result is the serializable form of a run: exactly one of Data or Error.
type Result struct {
	Success bool               `json:"success"`
	Data    []canonical.Record `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// NewResult folds the return values of ProcessSpreadsheet into a Result.
func NewResult(out *Output, err error) Result {
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Data: out.Records}
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor dispatches sheets to rule sets. It holds no per-run state and
// may be shared between goroutines.
type Processor struct {
	registry     *rules.Registry
	transformers map[string]*Transformer
	log          logrus.FieldLogger
}

// Option configures a Processor.
type Option func(*Processor)

// WithRegistry replaces the default rule set registry.
func WithRegistry(r *rules.Registry) Option {
	return func(p *Processor) { p.registry = r }
}

// WithTransformers sets the post-mapping transformers, keyed by system.
func WithTransformers(t map[string]*Transformer) Option {
	return func(p *Processor) { p.transformers = t }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Processor) { p.log = l }
}

// NewProcessor returns a Processor over rules.Default().
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		registry: rules.Default(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTransformers compiles the transformation rules of every system config.
func NewTransformers(systems map[string]*config.SystemConfig) (map[string]*Transformer, error) {
	out := make(map[string]*Transformer, len(systems))
	for id, sc := range systems {
		t, err := NewTransformer(sc.TransformationRules)
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", id, err)
		}
		if t.Len() == 0 {
			continue
		}
		out[id] = t
	}
	return out, nil
}

// Systems lists the identifiers the processor accepts.
func (p *Processor) Systems() []string {
	return p.registry.Systems()
}

// Registry returns the rule set registry.
func (p *Processor) Registry() *rules.Registry {
	return p.registry
}

// ProcessSpreadsheet runs sheet through the rule set of system using the
// default processor.
func ProcessSpreadsheet(sheet *types.Sheet, system string, now time.Time) (*Output, error) {
	return NewProcessor().Process(sheet, system, now)
}

// Process turns a decoded sheet into canonical records.
//
// PARAMETERS:
//   - sheet: headers and rows as decoded from the partner file.
//   - system: the partner identifier, matched exactly after trimming.
//   - now: read once by the caller; stamps DAT_CTR_INCLUSAO and anchors
//     date-window filters.
//
// RETURNS:
//   - The Output on success.
//   - ErrNoData, ErrUnknownSystem, ErrMissingColumn or ErrNoRecords
//     (wrapped) on failure.
//
// PROCESSING STEPS:
//   1. Drop blank rows
//   2. Select the rule set
//   3. Resolve headers and check required columns
//   4. Filter and map every row, then apply transformation rules
//   5. Assemble and audit the output
func (p *Processor) Process(sheet *types.Sheet, system string, now time.Time) (*Output, error) {
	log := p.log.WithField("system", system)

	// =========================================================================
	// STEP 1: DROP BLANK ROWS
	// =========================================================================

	if sheet == nil {
		return nil, ErrNoData
	}

	rows := nonBlankRows(sheet.Rows)
	stats := Stats{
		RowsRead:  len(sheet.Rows),
		BlankRows: len(sheet.Rows) - len(rows),
	}

	if len(rows) == 0 {
		log.WithField("rows", stats.RowsRead).Info("sheet has no data rows")
		return nil, ErrNoData
	}

	// =========================================================================
	// STEP 2: SELECT RULE SET
	// =========================================================================

	set, ok := p.registry.Lookup(system)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, system)
	}
	info := set.Info()

	// =========================================================================
	// STEP 3: RESOLVE HEADERS
	// =========================================================================

	lookup := headers.NewLookup(sheet.Headers)

	if dups := lookup.Duplicates(); len(dups) > 0 {
		log.WithField("headers", dups).Warn("duplicate headers ignored, first occurrence wins")
	}

	if err := checkColumns(info, lookup, log); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: FILTER AND MAP
	// =========================================================================

	ctx := rules.Context{Now: now}
	transformer := p.transformers[info.System]
	records := make([]canonical.Record, 0, len(rows))

	for _, raw := range rows {
		row := rules.NewRow(raw, lookup, info.Flexible)
		if !set.Filter(ctx, row) {
			stats.FilteredOut++
			continue
		}

		rec := set.Map(ctx, row)
		if err := transformer.Apply(rec); err != nil {
			return nil, fmt.Errorf("system %s: %w", info.System, err)
		}
		records = append(records, complete(rec))
	}

	stats.Records = len(records)

	if len(records) == 0 {
		log.WithField("filtered_out", stats.FilteredOut).Info("no rows matched the extraction rules")
		return nil, ErrNoRecords
	}

	// =========================================================================
	// STEP 5: ASSEMBLE AND AUDIT
	// =========================================================================

	warnings := validation.Validate(records)
	if len(warnings) > 0 {
		log.WithField("by_field", validation.CountByField(warnings)).
			Warnf("%d values failed the output audit", len(warnings))
	}

	log.WithFields(logrus.Fields{
		"rows":         stats.RowsRead,
		"blank":        stats.BlankRows,
		"filtered_out": stats.FilteredOut,
		"records":      stats.Records,
	}).Info("spreadsheet processed")

	return &Output{
		System:   info.System,
		Records:  records,
		Table:    Assemble(records),
		Warnings: warnings,
		Stats:    stats,
	}, nil
}

func nonBlankRows(rows []types.RawRow) []types.RawRow {
	out := make([]types.RawRow, 0, len(rows))
	for _, r := range rows {
		if !r.IsBlank() {
			out = append(out, r)
		}
	}
	return out
}

// checkColumns fails on a missing required column and logs missing optional
// ones.
func checkColumns(info rules.Info, lookup *headers.Lookup, log logrus.FieldLogger) error {
	resolve := lookup.Resolve
	if info.Flexible {
		resolve = lookup.ResolvePartial
	}

	for _, col := range info.Required {
		if _, ok := resolve(col); ok {
			continue
		}
		if s := lookup.Suggest(col); s != "" {
			return fmt.Errorf("%w: %q (closest header: %q)", ErrMissingColumn, col, s)
		}
		return fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}

	for _, col := range info.Columns {
		if _, ok := resolve(col); ok {
			continue
		}
		log.WithFields(logrus.Fields{
			"column":  col,
			"closest": lookup.Suggest(col),
		}).Debug("optional column not found")
	}

	return nil
}
