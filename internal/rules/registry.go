package rules

import (
	"sort"
	"strings"
	"sync"
)

// System identifiers accepted by the dispatcher.
const (
	V8Digital    = "V8DIGITAL"
	Unno         = "UNNO"
	GlmCrefisaCP = "GLM-CREFISACP"
	QueroMais    = "QUEROMAIS"
	Lev          = "LEV"
	Facta        = "FACTA"
	PresencaBank = "PRESENCABANK"
	Qualibanking = "QUALIBANKING"
	Pan          = "PAN"
	BrbInconta   = "BRB-INCONTA"
	Neocredito   = "NEOCREDITO"
	PrataDigital = "PRATA DIGITAL"
	PhTech       = "PHTECH"
	TotalCash    = "TOTALCASH"
	Amigoz       = "AMIGOZ"
	BrbEsteira   = "BRB ESTEIRA"
	Bmg          = "BMG"
	Inter        = "INTER"
	Digio        = "DIGIO"
	TwoTech      = "2TECH"
)

// Registry maps system identifiers to rule sets. It is immutable after
// construction.
type Registry struct {
	sets  map[string]RuleSet
	order []string
}

// NewRegistry indexes sets by their Info().System. A later set with the
// same identifier replaces an earlier one.
func NewRegistry(sets ...RuleSet) *Registry {
	r := &Registry{sets: make(map[string]RuleSet, len(sets))}
	for _, s := range sets {
		id := s.Info().System
		if _, exists := r.sets[id]; !exists {
			r.order = append(r.order, id)
		}
		r.sets[id] = s
	}
	return r
}

// Lookup returns the rule set for system. Surrounding whitespace is ignored;
// case is not.
func (r *Registry) Lookup(system string) (RuleSet, bool) {
	s, ok := r.sets[strings.TrimSpace(system)]
	return s, ok
}

// Systems lists the registered identifiers in registration order.
func (r *Registry) Systems() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SortedSystems lists the registered identifiers alphabetically.
func (r *Registry) SortedSystems() []string {
	out := r.Systems()
	sort.Strings(out)
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of every supported partner, built once.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(
			v8Digital{},
			unno{},
			glmCrefisaCP{},
			queroMais{},
			lev{},
			facta{},
			NewGeneric(PresencaBank),
			qualibanking{},
			pan{},
			brbInconta{},
			neocredito{},
			NewGeneric(PrataDigital),
			NewGeneric(PhTech),
			NewGeneric(TotalCash),
			NewGeneric(Amigoz),
			NewGeneric(BrbEsteira),
			NewGeneric(Bmg),
			NewGeneric(Inter),
			NewGeneric(Digio),
			twoTech{},
		)
	})
	return defaultRegistry
}
