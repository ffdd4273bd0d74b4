package rules

import (
	"strings"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
)

var unnoInfo = Info{
	System:   Unno,
	BankCode: "9209",
	BankName: "UNNO",
	Columns: []string{
		"CCB", "Data de Digitação", "Data do Desembolso", "CPF/CNPJ", "Nome", "Tabela",
		"Parcelas", "Valor Bruto", "Valor Líquido", "E-mail", "Status", "Data Nascimento",
	},
	Required: []string{"CCB"},
}

type unno struct{}

func (unno) Info() Info { return unnoInfo }

func (unno) Filter(_ Context, row Row) bool {
	return strings.TrimSpace(row.Text("CCB")) != ""
}

// UNNO reports only new contracts and does not export the installment value.
func (unno) Map(ctx Context, row Row) c.Record {
	rec := newRecord(unnoInfo, ctx)

	ccb := row.Text("CCB")

	rec[c.NumProposta] = ccb
	rec[c.NumContrato] = ccb
	rec[c.DscTipoPropostaEmprestimo] = c.TipoNovo
	rec[c.DscProduto] = row.Text("Tabela")
	rec[c.DscSituacaoEmprestimo] = row.Text("Status")
	rec[c.DatEmprestimo] = row.Date("Data de Digitação")
	rec[c.NicCtrUsuario] = row.Text("E-mail")
	rec[c.CodCpfCliente] = row.Text("CPF/CNPJ")
	rec[c.NomCliente] = row.Text("Nome")
	rec[c.DatNascimento] = birthDate(row.Value("Data Nascimento"))
	rec[c.QtdParcela] = row.Text("Parcelas")
	rec[c.ValBruto] = row.Currency("Valor Bruto")
	rec[c.ValLiquido] = row.Currency("Valor Líquido")
	rec[c.DatCredito] = creditDate(row.Value("Data do Desembolso"))
	rec[c.PclTaxaEmprestimo] = "1,79"

	return rec
}
