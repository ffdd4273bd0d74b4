package rules

import (
	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/headers"
)

var neocreditoInfo = Info{
	System:   Neocredito,
	BankCode: "410",
	BankName: "NEOCREDITO",
	Columns: []string{
		"PROPOSTA", "TIPO OPERACAO", "CONVENIO", "TABELA", "STATUS", "DATA CADASTRO",
		"USUARIO", "CPF", "NOME", "PRAZO", "PMT", "VALOR OPERACAO", "VALOR TROCO",
		"DATA INTEGRADO",
	},
}

// Neocredito labels card sales "NOVO" and free-margin loans "MARGEM LIVRE".
var neocreditoTipos = NewVocabulary(nil).
	Contains("COMPRA", c.TipoRecompra).
	Contains("NOVO", c.TipoCartao).
	Contains("MARGEM LIVRE", c.TipoNovo)

// neocreditoLogins repairs logins the partner truncates on export.
var neocreditoLogins = map[string]string{
	"TAINA LUCIO DA LU": "TAINA LUCIO DA LUZ",
}

type neocredito struct{}

func (neocredito) Info() Info { return neocreditoInfo }

func (neocredito) Filter(Context, Row) bool { return true }

func (neocredito) Map(ctx Context, row Row) c.Record {
	rec := newRecord(neocreditoInfo, ctx)

	proposta := row.Text("PROPOSTA")
	tipo := row.Text("TIPO OPERACAO")
	usuario := row.Text("USUARIO")

	rec[c.NumProposta] = proposta
	rec[c.NumContrato] = proposta
	rec[c.DscTipoPropostaEmprestimo] = neocreditoTipos.TranslateOr(tipo, tipo)
	rec[c.DscProduto] = join(row.Text("CONVENIO"), "-", row.Text("TABELA"))
	rec[c.DscSituacaoEmprestimo] = row.Text("STATUS")
	rec[c.DatEmprestimo] = row.Date("DATA CADASTRO")
	rec[c.NicCtrUsuario] = usuario
	rec[c.CodCpfCliente] = row.Text("CPF")
	rec[c.NomCliente] = row.Text("NOME")
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text("PRAZO")
	rec[c.ValPrestacao] = row.Currency("PMT")
	rec[c.ValBruto] = row.Currency("VALOR OPERACAO")
	rec[c.ValLiquido] = row.Currency("VALOR TROCO")
	rec[c.DatCredito] = creditDate(row.Value("DATA INTEGRADO"))

	if fixed, ok := neocreditoLogins[headers.Fold(usuario)]; ok {
		rec[c.NicCtrUsuario] = fixed
	}

	return rec
}
