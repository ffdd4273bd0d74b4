package rules

import (
	"strings"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

// FACTA renames and reorders its report columns between releases, so its
// headers are matched by fragment ("VALOR BRUTO" finds "VALOR BRUTO (R$)").
var factaInfo = Info{
	System:   Facta,
	BankCode: "897",
	BankName: "FACTA",
	Columns: []string{
		"COD", "TIPO PRODUTO", "PRODUTO", "STATUS", "DATA", "COD DIGITADOR NO BANCO",
		"CPF", "CLIENTE", "QTDE PARCELAS", "VALOR PARCELA", "VALOR BRUTO",
		"VALOR LIQUIDO", "DATA AVERBACAO",
	},
	Flexible: true,
}

var factaTipos = NewVocabulary(map[string]string{
	"REFIN / PORT":     c.TipoPortabRefin,
	"CARTÃO BENEFÍCIO": c.TipoCartao,
})

// factaSubLogin prefixes logins of sub-users created under a main login.
const factaSubLogin = "SUB "

type facta struct{}

func (facta) Info() Info { return factaInfo }

func (facta) Filter(Context, Row) bool { return true }

func (facta) Map(ctx Context, row Row) c.Record {
	rec := newRecord(factaInfo, ctx)

	cod := row.Text("COD")
	tipo := strings.ToUpper(strings.TrimSpace(row.Text("TIPO PRODUTO")))

	rec[c.NumProposta] = cod
	rec[c.NumContrato] = cod
	rec[c.DscTipoPropostaEmprestimo] = factaTipos.TranslateOr(tipo, tipo)
	rec[c.DscProduto] = row.Text("PRODUTO")
	rec[c.DscSituacaoEmprestimo] = row.Text("STATUS")
	rec[c.DatEmprestimo] = row.Date("DATA")
	rec[c.NicCtrUsuario] = stripPrefixFold(row.Text("COD DIGITADOR NO BANCO"), factaSubLogin)
	rec[c.CodCpfCliente] = row.Text("CPF")
	rec[c.NomCliente] = row.Text("CLIENTE")
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text("QTDE PARCELAS")
	rec[c.ValPrestacao] = row.Currency("VALOR PARCELA")
	rec[c.ValBruto] = row.Currency("VALOR BRUTO")
	rec[c.ValLiquido] = row.Currency("VALOR LIQUIDO")
	rec[c.DatCredito] = creditDate(row.Value("DATA AVERBACAO"))

	return rec
}
