package rules

import (
	"strings"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

// V8DIGITAL exports the canonical column names directly.

var v8DigitalInfo = Info{
	System:   V8Digital,
	BankCode: "17",
	BankName: "V8DIGITAL",
	Columns: []string{
		c.NumProposta, c.NumContrato, c.DscTipoPropostaEmprestimo, c.DscProduto,
		c.DatCtrInclusao, c.DscSituacaoEmprestimo, c.DatEmprestimo, c.NicCtrUsuario,
		c.CodCpfCliente, c.NomCliente, c.DatNascimento, c.QtdParcela, c.ValPrestacao,
		c.ValBruto, c.ValLiquido, c.DatCredito, c.DscTipoFormularioEmprestimo,
	},
	Required: []string{c.NumProposta},
}

var v8DigitalTipos = NewVocabulary(map[string]string{
	"Margem Livre (Novo)": c.TipoNovo,
})

type v8Digital struct{}

func (v8Digital) Info() Info { return v8DigitalInfo }

func (v8Digital) Filter(_ Context, row Row) bool {
	return strings.TrimSpace(row.Text(c.NumProposta)) != ""
}

func (v8Digital) Map(ctx Context, row Row) c.Record {
	rec := newRecord(v8DigitalInfo, ctx)

	tipo := row.Text(c.DscTipoPropostaEmprestimo)

	rec[c.NumProposta] = row.Text(c.NumProposta)
	rec[c.NumContrato] = row.Text(c.NumContrato)
	rec[c.DscTipoPropostaEmprestimo] = v8DigitalTipos.TranslateOr(tipo, tipo)
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
	rec[c.PclTaxaEmprestimo] = "1,80"
	rec[c.DscTipoFormularioEmprestimo] = row.Text(c.DscTipoFormularioEmprestimo)

	return rec
}
