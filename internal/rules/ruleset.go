// =============================================================================
// Workbank Normalizer - Partner Rule Sets
// =============================================================================
//
// A rule set holds everything specific to one partner system:
//   - Info:   bank constants and the input columns the partner exports
//   - Filter: which raw rows are real proposals
//   - Map:    how one surviving row becomes a canonical record
//
// Adding a partner means adding one RuleSet and registering it in
// registry.go. Nothing else in the pipeline changes.
//
// =============================================================================

package rules

import (
	"time"

	"github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/headers"
	"github.com/ginjaninja78/workbank-normalizer/internal/normalize"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
)

// =============================================================================
// RULE SET CONTRACT
// =============================================================================

// RuleSet is the filter and mapping logic of one partner system.
type RuleSet interface {
	Info() Info
	Filter(ctx Context, row Row) bool
	Map(ctx Context, row Row) canonical.Record
}

// Info describes a partner.
type Info struct {
	// System is the identifier callers select the rule set with.
	System string

	// BankCode and BankName are the constants written to NUM_BANCO and
	// NOM_BANCO. Partners that derive them per row leave them empty.
	BankCode string
	BankName string

	// Columns is the header vocabulary the partner exports.
	Columns []string

	// Required columns must exist in the header row for the sheet to be
	// processable at all.
	Required []string

	// Flexible enables substring header matching for this partner.
	Flexible bool
}

// Context is the per-invocation state shared by every row.
type Context struct {
	// Now is read once per invocation.
	Now time.Time
}

// Today renders Now in the canonical date shape.
func (c Context) Today() string {
	return c.Now.Format(normalize.DateLayout)
}

// =============================================================================
// ROW ACCESS
// =============================================================================

// Row is read access to one raw row through the sheet's header lookup.
type Row struct {
	raw      types.RawRow
	lookup   *headers.Lookup
	flexible bool
}

// NewRow wraps raw for a rule set. flexible selects substring header
// matching after the exact normalized match fails.
func NewRow(raw types.RawRow, lookup *headers.Lookup, flexible bool) Row {
	return Row{raw: raw, lookup: lookup, flexible: flexible}
}

// Value returns the cell under key, or an empty value when the column or
// cell is absent.
func (r Row) Value(key string) types.Value {
	var (
		v  types.Value
		ok bool
	)
	if r.flexible {
		v, ok = r.lookup.GetPartial(r.raw, key)
	} else {
		v, ok = r.lookup.Get(r.raw, key)
	}
	if !ok {
		return types.Value{}
	}
	return v
}

// Text returns the cell as text, "" when absent.
func (r Row) Text(key string) string {
	return r.Value(key).String()
}

// Currency returns the cell through normalize.FormatCurrency.
func (r Row) Currency(key string) string {
	return normalize.FormatCurrency(r.Value(key))
}

// Date returns the cell through normalize.FormatDate.
func (r Row) Date(key string) string {
	return normalize.FormatDate(r.Value(key))
}

// =============================================================================
// RECORD CONSTRUCTION
// =============================================================================

// newRecord starts a record with every data field present and empty, the
// partner constants, the inclusion date and the digital form type.
func newRecord(info Info, ctx Context) canonical.Record {
	rec := blankRecord()
	rec[canonical.NumBanco] = info.BankCode
	rec[canonical.NomBanco] = info.BankName
	rec[canonical.DatCtrInclusao] = ctx.Today()
	rec[canonical.DscTipoFormularioEmprestimo] = canonical.FormularioDigital
	return rec
}

func blankRecord() canonical.Record {
	rec := make(canonical.Record, canonical.Len())
	for _, f := range canonical.DataFields() {
		rec[f] = ""
	}
	return rec
}
