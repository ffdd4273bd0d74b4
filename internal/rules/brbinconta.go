package rules

import (
	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

var brbIncontaInfo = Info{
	System:   BrbInconta,
	BankCode: "7056",
	BankName: "BRB - INCONTA",
	Columns: []string{
		"ID", "TABELA", "PRODUTO", "STATUS", "CRIACAO AF", "AGENTE", "CPF", "NOME",
		"DATA DE NASCIMENTO", "PRAZO", "VALOR DE PARCELA", "VALOR PRINCIPAL",
		"VALOR LIQUIDO", "STATUS DATA", "TAXA MENSAL",
	},
}

// brbIncontaHouseAgent marks proposals typed by the house itself; they are
// imported through another channel.
const brbIncontaHouseAgent = "LV"

var brbIncontaTipos = NewVocabulary(map[string]string{
	"CONTRATO NOVO": c.TipoNovo,
})

type brbInconta struct{}

func (brbInconta) Info() Info { return brbIncontaInfo }

func (brbInconta) Filter(_ Context, row Row) bool {
	return !equalFold(row.Text("AGENTE"), brbIncontaHouseAgent)
}

func (brbInconta) Map(ctx Context, row Row) c.Record {
	rec := newRecord(brbIncontaInfo, ctx)

	id := row.Text("ID")
	produto := row.Text("PRODUTO")
	status := row.Text("STATUS")

	rec[c.NumProposta] = id
	rec[c.NumContrato] = id
	rec[c.DscProduto] = row.Text("TABELA")
	rec[c.DscTipoPropostaEmprestimo] = brbIncontaTipos.TranslateOr(produto, produto)
	rec[c.DscSituacaoEmprestimo] = status
	rec[c.DatEmprestimo] = row.Date("CRIACAO AF")
	rec[c.NicCtrUsuario] = row.Text("AGENTE")
	rec[c.CodCpfCliente] = row.Text("CPF")
	rec[c.NomCliente] = row.Text("NOME")
	rec[c.DatNascimento] = birthDate(row.Value("DATA DE NASCIMENTO"))
	rec[c.QtdParcela] = row.Text("PRAZO")
	rec[c.ValPrestacao] = row.Currency("VALOR DE PARCELA")
	rec[c.ValBruto] = row.Currency("VALOR PRINCIPAL")
	rec[c.ValLiquido] = row.Currency("VALOR LIQUIDO")
	rec[c.PclTaxaEmprestimo] = row.Currency("TAXA MENSAL")

	// The status date is the credit date only once the proposal is paid.
	if equalFold(status, "PAGO") {
		rec[c.DatCredito] = creditDate(row.Value("STATUS DATA"))
	}

	return rec
}
