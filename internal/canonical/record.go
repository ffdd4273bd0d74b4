package canonical

import (
	"bytes"
	"encoding/json"
)

// Record is one normalized output row keyed by canonical field name.
// Fields a partner does not supply are simply absent; the assembler fills
// them with "".
type Record map[string]string

// Values returns the record in canonical order, spacer slot included, with
// every absent field rendered as "".
func (r Record) Values() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if f == Spacer {
			continue
		}
		out[i] = r[f]
	}
	return out
}

// MarshalJSON encodes the record as an object whose keys follow the
// canonical order. The spacer slot is omitted and absent fields are "".
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range fields {
		if f == Spacer {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Proposal-type vocabulary shared by the partner rule sets.
const (
	TipoNovo            = "NOVO"
	TipoRefin           = "REFIN"
	TipoRefinanciamento = "REFINANCIAMENTO"
	TipoPortabilidade   = "PORTABILIDADE"
	TipoPortabRefin     = "PORTAB/REFIN"
	TipoCartao          = "CARTÃO"
	TipoRecompra        = "RECOMPRA"
)

// FormularioDigital is the form-type every digital partner reports.
const FormularioDigital = "DIGITAL"

// PlaceholderBirthDate replaces birth dates that partners do not export.
const PlaceholderBirthDate = "01/01/1990"
