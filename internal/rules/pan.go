package rules

import (
	"strings"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/headers"
)

// PAN and LEV share one export layout: canonical column names plus the bank
// number and name of the originating bank.

var panColumns = []string{
	"NUM_BAN", c.NomBanco, c.NumProposta, c.NumContrato, c.DscTipoPropostaEmprestimo,
	c.DscProduto, c.DscSituacaoEmprestimo, c.DatEmprestimo, c.NicCtrUsuario,
	c.CodCpfCliente, c.NomCliente, c.DatNascimento, c.QtdParcela, c.ValPrestacao,
	c.ValBruto, c.ValLiquido, c.DatCredito,
}

// mapPanLayout copies the shared layout into rec.
func mapPanLayout(rec c.Record, row Row) {
	rec[c.NumProposta] = row.Text(c.NumProposta)
	rec[c.NumContrato] = row.Text(c.NumContrato)
	rec[c.DscTipoPropostaEmprestimo] = row.Text(c.DscTipoPropostaEmprestimo)
	rec[c.DscProduto] = row.Text(c.DscProduto)
	rec[c.DscSituacaoEmprestimo] = row.Text(c.DscSituacaoEmprestimo)
	rec[c.DatEmprestimo] = row.Date(c.DatEmprestimo)
	rec[c.NicCtrUsuario] = row.Text(c.NicCtrUsuario)
	rec[c.CodCpfCliente] = row.Text(c.CodCpfCliente)
	rec[c.NomCliente] = row.Text(c.NomCliente)
	rec[c.DatNascimento] = birthDate(row.Value(c.DatNascimento))
	rec[c.QtdParcela] = row.Text(c.QtdParcela)
	rec[c.ValPrestacao] = row.Currency(c.ValPrestacao)
	rec[c.ValBruto] = row.Currency(c.ValBruto)
	rec[c.ValLiquido] = row.Currency(c.ValLiquido)
	rec[c.DatCredito] = creditDate(row.Value(c.DatCredito))
}

// =============================================================================
// PAN
// =============================================================================

var panInfo = Info{
	System:   Pan,
	BankCode: "623",
	Columns:  panColumns,
	Required: []string{c.NumProposta},
}

type pan struct{}

func (pan) Info() Info { return panInfo }

func (pan) Filter(_ Context, row Row) bool {
	return strings.TrimSpace(row.Text(c.NumProposta)) != ""
}

func (pan) Map(ctx Context, row Row) c.Record {
	rec := newRecord(panInfo, ctx)
	mapPanLayout(rec, row)
	rec[c.NomBanco] = row.Text(c.NomBanco)
	return rec
}

// =============================================================================
// LEV
// =============================================================================

// LEV is a correspondent: one export mixes proposals of several banks, and
// only the banks below are imported.
var levBanks = []struct {
	token string
	name  string
	code  string
}{
	{"OLE", "OLÉ", "169"},
	{"DAYCOVAL", "DAYCOVAL", "707"},
	{"CREFAZ", "CREFAZ", "1123"},
	{"MASTER", "MASTER", "243"},
}

var levInfo = Info{
	System:   Lev,
	Columns:  panColumns,
	Required: []string{c.NomBanco},
}

type lev struct{}

func (lev) Info() Info { return levInfo }

func (lev) Filter(_ Context, row Row) bool {
	_, _, ok := levBank(row.Text(c.NomBanco))
	return ok
}

func (lev) Map(ctx Context, row Row) c.Record {
	rec := newRecord(levInfo, ctx)
	mapPanLayout(rec, row)

	rec[c.NumContrato] = rec[c.NumProposta]

	if name, code, ok := levBank(row.Text(c.NomBanco)); ok {
		rec[c.NomBanco] = name
		rec[c.NumBanco] = code
		return rec
	}

	rec[c.NomBanco] = row.Text(c.NomBanco)
	rec[c.NumBanco] = row.Text(c.NumBanco)
	if rec[c.NumBanco] == "" {
		rec[c.NumBanco] = row.Text("NUM_BAN")
	}
	return rec
}

// levBank finds the allow-listed bank named in nomBanco, ignoring case and
// accents.
func levBank(nomBanco string) (name, code string, ok bool) {
	folded := headers.Fold(nomBanco)
	if folded == "" {
		return "", "", false
	}
	for _, b := range levBanks {
		if strings.Contains(folded, b.token) {
			return b.name, b.code, true
		}
	}
	return "", "", false
}
