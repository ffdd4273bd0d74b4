package rules

import (
	"strings"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

// GLM-CREFISACP and 2TECH are two platforms selling the same bank, so both
// report under Crefisa's bank code.

const (
	crefisaCode = "789"
	crefisaName = "CREFISACP"
)

// =============================================================================
// GLM-CREFISACP
// =============================================================================

var glmCrefisaCPInfo = Info{
	System:   GlmCrefisaCP,
	BankCode: crefisaCode,
	BankName: crefisaName,
	Columns: []string{
		"PROPOSTA", "TABELA", "STATUS_CONTRATO", "DATA_CADASTRO", "USUARIO_BANCO",
		"CNPJ_CPF", "CLIENTE", "PRAZO", "VALOR_PARCELA",
		"VALOR_BRUTO", "VALOR_LIQUIDO", "DATA_INTEGRACAO", "TAXA MENSAL",
	},
}

// GLM encodes the operation type inside the table name.
var glmTipos = NewVocabulary(nil).
	Contains("NOVO", c.TipoNovo).
	Contains("REFIN", c.TipoRefin)

type glmCrefisaCP struct{}

func (glmCrefisaCP) Info() Info { return glmCrefisaCPInfo }

func (glmCrefisaCP) Filter(Context, Row) bool { return true }

func (glmCrefisaCP) Map(ctx Context, row Row) c.Record {
	rec := newRecord(glmCrefisaCPInfo, ctx)

	proposta := row.Text("PROPOSTA")
	tabela := row.Text("TABELA")

	rec[c.NumProposta] = proposta
	rec[c.NumContrato] = proposta
	rec[c.DscTipoPropostaEmprestimo] = glmTipos.TranslateOr(tabela, tabela)
	rec[c.DscProduto] = tabela
	rec[c.DscSituacaoEmprestimo] = row.Text("STATUS_CONTRATO")
	rec[c.DatEmprestimo] = row.Date("DATA_CADASTRO")
	rec[c.NicCtrUsuario] = row.Text("USUARIO_BANCO")
	rec[c.CodCpfCliente] = row.Text("CNPJ_CPF")
	rec[c.NomCliente] = row.Text("CLIENTE")
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text("PRAZO")
	rec[c.ValPrestacao] = row.Currency("VALOR_PARCELA")
	rec[c.ValBruto] = row.Currency("VALOR_BRUTO")
	rec[c.ValLiquido] = row.Currency("VALOR_LIQUIDO")
	rec[c.DatCredito] = creditDate(row.Value("DATA_INTEGRACAO"))
	rec[c.PclTaxaEmprestimo] = row.Currency("TAXA MENSAL")

	return rec
}

// =============================================================================
// 2TECH
// =============================================================================

var twoTechInfo = Info{
	System:   TwoTech,
	BankCode: crefisaCode,
	BankName: crefisaName,
	Columns: []string{
		"NUMERO_ADE", "TIPO CONTRATO", "SIT_BANCO", "SIT_PAGAMENTO_CLIENTE",
		"DATA_DIGIT_BANCO", "LOGIN_SUB_USUARIO", "CPF", "CLIENTE", "PRAZO", "VLR_PARC",
		"VALOR_BRUTO", "VALOR_LIQUIDO", "DATA_PAGAMENTO_CLIENTE", "CONVENIO", "TABELA",
	},
}

var twoTechTipos = NewVocabulary(map[string]string{
	"001 - Novo Contrato":   c.TipoNovo,
	"027 - Refinanciamento": c.TipoRefinanciamento,
})

const twoTechPaid = "PAGO AO CLIENTE"

type twoTech struct{}

func (twoTech) Info() Info { return twoTechInfo }

func (twoTech) Filter(Context, Row) bool { return true }

// 2TECH exports identifiers as forced-text cells with a leading apostrophe.
func (twoTech) Map(ctx Context, row Row) c.Record {
	rec := newRecord(twoTechInfo, ctx)

	ade := stripMarker(row.Text("NUMERO_ADE"), "'")
	tipo := strings.TrimSpace(row.Text("TIPO CONTRATO"))

	rec[c.NumProposta] = ade
	rec[c.NumContrato] = ade
	rec[c.DscTipoPropostaEmprestimo] = twoTechTipos.TranslateOr(tipo, tipo)
	rec[c.DscProduto] = join(row.Text("CONVENIO"), "-", row.Text("TABELA"))
	rec[c.DatEmprestimo] = row.Date("DATA_DIGIT_BANCO")
	rec[c.NicCtrUsuario] = stripMarker(row.Text("LOGIN_SUB_USUARIO"), "'")
	rec[c.CodCpfCliente] = row.Text("CPF")
	rec[c.NomCliente] = row.Text("CLIENTE")
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text("PRAZO")
	rec[c.ValPrestacao] = row.Currency("VLR_PARC")
	rec[c.ValBruto] = row.Currency("VALOR_BRUTO")
	rec[c.ValLiquido] = row.Currency("VALOR_LIQUIDO")
	rec[c.DatCredito] = creditDate(row.Value("DATA_PAGAMENTO_CLIENTE"))

	if equalFold(row.Text("SIT_PAGAMENTO_CLIENTE"), twoTechPaid) {
		rec[c.DscSituacaoEmprestimo] = twoTechPaid
	} else {
		rec[c.DscSituacaoEmprestimo] = row.Text("SIT_BANCO")
	}

	return rec
}
