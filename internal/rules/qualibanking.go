package rules

import (
	"strings"
	"time"

	c "github.com/ginjaninja78/workbank-normalizer/internal/canonical"
	"github.com/ginjaninja78/workbank-normalizer/internal/normalize"
	"github.com/ginjaninja78/workbank-normalizer/internal/types"
)

const qualibankingProposalDate = "Data da Proposta"

// qualibankingWindowMonths bounds how old a proposal may be. Qualibanking
// exports its full history on every download.
const qualibankingWindowMonths = 2

var qualibankingInfo = Info{
	System:   Qualibanking,
	BankCode: "22",
	BankName: "QUALIBANKING",
	Columns: []string{
		"Número do Contrato", "Nome do Produto", "Tipo de Operação", "Status",
		qualibankingProposalDate, "Login", "CPF", "Nome", "Prazo", "Valor da Parcela",
		"Valor do Empréstimo", "Valor Líquido ao Cliente", "Data do Crédito ao Cliente",
		"Nome da Tabela",
	},
	Required: []string{qualibankingProposalDate},
}

var qualibankingTipos = NewVocabulary(map[string]string{
	"REFIN DA PORTABILIDADE":           c.TipoPortabRefin,
	"REFINANCIAMENTO DA PORTABILIDADE": c.TipoPortabRefin,
}).Contains("PORTABILIDADE + REFIN", c.TipoPortabilidade)

type qualibanking struct{}

func (qualibanking) Info() Info { return qualibankingInfo }

func (qualibanking) Filter(ctx Context, row Row) bool {
	return withinTrailingMonths(row.Value(qualibankingProposalDate), ctx.Now, qualibankingWindowMonths)
}

func (qualibanking) Map(ctx Context, row Row) c.Record {
	rec := newRecord(qualibankingInfo, ctx)

	contrato := row.Text("Número do Contrato")
	tabela := row.Text("Nome da Tabela")
	tipoRaw := strings.TrimSpace(row.Text("Tipo de Operação"))
	tipo := qualibankingTipos.TranslateOr(tipoRaw, tipoRaw)

	rec[c.NumProposta] = contrato
	rec[c.NumContrato] = contrato
	rec[c.DscProduto] = tabela
	rec[c.DscTipoPropostaEmprestimo] = tipo
	rec[c.DscSituacaoEmprestimo] = row.Text("Status")
	rec[c.DatEmprestimo] = row.Date(qualibankingProposalDate)
	rec[c.NicCtrUsuario] = row.Text("Login")
	rec[c.CodCpfCliente] = row.Text("CPF")
	rec[c.NomCliente] = row.Text("Nome")
	rec[c.DatNascimento] = c.PlaceholderBirthDate
	rec[c.QtdParcela] = row.Text("Prazo")
	rec[c.ValPrestacao] = row.Currency("Valor da Parcela")
	rec[c.ValLiquido] = row.Currency("Valor Líquido ao Cliente")
	rec[c.DatCredito] = creditDate(row.Value("Data do Crédito ao Cliente"))
	rec[c.PclTaxaEmprestimo] = normalize.ExtractInterestRate(tabela)

	// A pure portability moves an existing debt; no new money is lent.
	if tipo == c.TipoPortabilidade {
		rec[c.ValBruto] = normalize.FormatCurrencyText("0")
	} else {
		rec[c.ValBruto] = row.Currency("Valor do Empréstimo")
	}

	return rec
}

// withinTrailingMonths reports whether the date in v falls strictly after
// now minus months calendar months. The date is taken at midnight in now's
// location. Unreadable dates are outside the window.
func withinTrailingMonths(v types.Value, now time.Time, months int) bool {
	t, ok := normalize.ParseDate(v)
	if !ok {
		return false
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return day.After(subMonths(now, months))
}

// subMonths moves t back n calendar months, clamping the day to the end of
// the target month (31 Mar minus one month is 29 Feb in a leap year).
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
