package rules

import "github.com/ginjaninja78/workbank-normalizer/internal/canonical"

// Generic is the placeholder rule set for partners whose layout has not been
// specified yet: one record per row, every field empty except NOM_BANCO.
type Generic struct {
	info Info
}

// NewGeneric returns a placeholder rule set for system.
func NewGeneric(system string) Generic {
	return Generic{info: Info{System: system, BankName: system}}
}

func (g Generic) Info() Info { return g.info }

func (Generic) Filter(Context, Row) bool { return true }

func (g Generic) Map(_ Context, _ Row) canonical.Record {
	rec := blankRecord()
	rec[canonical.NomBanco] = g.info.System
	return rec
}
