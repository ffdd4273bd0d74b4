package rules

import (
	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

var queroMaisInfo = Info{
	System:   QueroMais,
	BankCode: "465",
	BankName: "QUERO+",
	Columns: []string{
		c.NumProposta, c.DscTipoPropostaEmprestimo, c.DscProduto, c.DscSituacaoEmprestimo,
		c.DatEmprestimo, c.NicCtrUsuario, c.CodCpfCliente, c.NomCliente, c.QtdParcela,
		c.ValBruto, c.ValLiquido, c.DatCredito,
	},
}

var queroMaisTipos = NewVocabulary(map[string]string{
	"CARTÃO C/ SAQUE": c.TipoCartao,
})

type queroMais struct{}

func (queroMais) Info() Info { return queroMaisInfo }

func (queroMais) Filter(Context, Row) bool { return true }

func (queroMais) Map(ctx Context, row Row) c.Record {
	rec := newRecord(queroMaisInfo, ctx)

	proposta := row.Text(c.NumProposta)
	tipo := row.Text(c.DscTipoPropostaEmprestimo)

	rec[c.NumProposta] = proposta
	rec[c.NumContrato] = proposta
	rec[c.DscTipoPropostaEmprestimo] = queroMaisTipos.TranslateOr(tipo, tipo)
	rec[c.DscProduto] = row.Text(c.DscProduto)
	rec[c.DscSituacaoEmprestimo] = row.Text(c.DscSituacaoEmprestimo)
	rec[c.DatEmprestimo] = row.Date(c.DatEmprestimo)
	rec[c.NicCtrUsuario] = row.Text(c.NicCtrUsuario)
	rec[c.CodCpfCliente] = row.Text(c.CodCpfCliente)
	rec[c.NomCliente] = row.Text(c.NomCliente)
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text(c.QtdParcela)
	rec[c.ValBruto] = row.Currency(c.ValBruto)
	rec[c.ValLiquido] = row.Currency(c.ValLiquido)
	rec[c.DatCredito] = creditDate(row.Value(c.DatCredito))

	return rec
}
