// =============================================================================
// Workbank Normalizer - Canonical Layout
// =============================================================================
//
// The canonical layout is the fixed, ordered set of columns consumed by the
// back-office import. It is defined once here and read by every rule set,
// the assembler and the writers. Field names and order are an external
// contract: do not reorder.
//
// =============================================================================

package canonical

// Field names of the canonical layout.
const (
	NumBanco                    = "NUM_BANCO"
	NomBanco                    = "NOM_BANCO"
	NumProposta                 = "NUM_PROPOSTA"
	NumContrato                 = "NUM_CONTRATO"
	DscTipoPropostaEmprestimo   = "DSC_TIPO_PROPOSTA_EMPRESTIMO"
	CodProduto                  = "COD_PRODUTO"
	DscProduto                  = "DSC_PRODUTO"
	DatCtrInclusao              = "DAT_CTR_INCLUSAO"
	DscSituacaoEmprestimo       = "DSC_SITUACAO_EMPRESTIMO"
	DatEmprestimo               = "DAT_EMPRESTIMO"
	CodEmpregador               = "COD_EMPREGADOR"
	DscConvenio                 = "DSC_CONVENIO"
	CodOrgao                    = "COD_ORGAO"
	NomOrgao                    = "NOM_ORGAO"
	CodProdutorVenda            = "COD_PRODUTOR_VENDA"
	NomProdutorVenda            = "NOM_PRODUTOR_VENDA"
	NicCtrUsuario               = "NIC_CTR_USUARIO"
	CodCpfCliente               = "COD_CPF_CLIENTE"
	NomCliente                  = "NOM_CLIENTE"
	DatNascimento               = "DAT_NASCIMENTO"
	NumIdentidade               = "NUM_IDENTIDADE"
	NomLogradouro               = "NOM_LOGRADOURO"
	NumPredio                   = "NUM_PREDIO"
	DscCmplmntEndrc             = "DSC_CMPLMNT_ENDRC"
	NomBairro                   = "NOM_BAIRRO"
	NomLocalidade               = "NOM_LOCALIDADE"
	SigUnidadeFederacao         = "SIG_UNIDADE_FEDERACAO"
	CodEndrcmntPstl             = "COD_ENDRCMNT_PSTL"
	NumTelefone                 = "NUM_TELEFONE"
	NumTelefoneCelular          = "NUM_TELEFONE_CELULAR"
	NomMae                      = "NOM_MAE"
	NomPai                      = "NOM_PAI"
	NumBeneficio                = "NUM_BENEFICIO"
	QtdParcela                  = "QTD_PARCELA"
	ValPrestacao                = "VAL_PRESTACAO"
	ValBruto                    = "VAL_BRUTO"
	ValSaldoRecompra            = "VAL_SALDO_RECOMPRA"
	ValSaldoRefinanciamento     = "VAL_SALDO_REFINANCIAMENTO"
	ValLiquido                  = "VAL_LIQUIDO"
	Spacer                      = "COLUNA_VAZIA_PLACEHOLDER"
	DatCredito                  = "DAT_CREDITO"
	DatConfirmacao              = "DAT_CONFIRMACAO"
	ValRepasse                  = "VAL_REPASSE"
	PclComissao                 = "PCL_COMISSAO"
	ValComissao                 = "VAL_COMISSAO"
	CodUnidadeEmpresa           = "COD_UNIDADE_EMPRESA"
	CodSituacaoEmprestimo       = "COD_SITUACAO_EMPRESTIMO"
	DatEstorno                  = "DAT_ESTORNO"
	DscObservacao               = "DSC_OBSERVACAO"
	NumCpfAgente                = "NUM_CPF_AGENTE"
	NumObjetoEct                = "NUM_OBJETO_ECT"
	PclTaxaEmprestimo           = "PCL_TAXA_EMPRESTIMO"
	DscTipoFormularioEmprestimo = "DSC_TIPO_FORMULARIO_EMPRESTIMO"
	DscTipoCreditoEmprestimo    = "DSC_TIPO_CREDITO_EMPRESTIMO"
	NomGrupoUnidadeEmpresa      = "NOM_GRUPO_UNIDADE_EMPRESA"
	CodPropostaEmprestimo       = "COD_PROPOSTA_EMPRESTIMO"
	CodGrupoUnidadeEmpresa      = "COD_GRUPO_UNIDADE_EMPRESA"
	CodTipoFuncao               = "COD_TIPO_FUNCAO"
	CodTipoPropostaEmprestimo   = "COD_TIPO_PROPOSTA_EMPRESTIMO"
	CodLojaDigitacao            = "COD_LOJA_DIGITACAO"
	ValSeguro                   = "VAL_SEGURO"
)

// fields is the canonical order, including the spacer slot.
var fields = [...]string{
	NumBanco, NomBanco, NumProposta, NumContrato, DscTipoPropostaEmprestimo,
	CodProduto, DscProduto, DatCtrInclusao, DscSituacaoEmprestimo, DatEmprestimo,
	CodEmpregador, DscConvenio, CodOrgao, NomOrgao, CodProdutorVenda,
	NomProdutorVenda, NicCtrUsuario, CodCpfCliente, NomCliente, DatNascimento,
	NumIdentidade, NomLogradouro, NumPredio, DscCmplmntEndrc, NomBairro,
	NomLocalidade, SigUnidadeFederacao, CodEndrcmntPstl, NumTelefone, NumTelefoneCelular,
	NomMae, NomPai, NumBeneficio, QtdParcela, ValPrestacao,
	ValBruto, ValSaldoRecompra, ValSaldoRefinanciamento, ValLiquido, Spacer,
	DatCredito, DatConfirmacao, ValRepasse, PclComissao, ValComissao,
	CodUnidadeEmpresa, CodSituacaoEmprestimo, DatEstorno, DscObservacao, NumCpfAgente,
	NumObjetoEct, PclTaxaEmprestimo, DscTipoFormularioEmprestimo, DscTipoCreditoEmprestimo, NomGrupoUnidadeEmpresa,
	CodPropostaEmprestimo, CodGrupoUnidadeEmpresa, CodTipoFuncao, CodTipoPropostaEmprestimo, CodLojaDigitacao,
	ValSeguro,
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return m
}()

// Fields returns a copy of the canonical order, spacer slot included.
func Fields() []string {
	out := make([]string, len(fields))
	copy(out, fields[:])
	return out
}

// DataFields returns the canonical order without the spacer slot: the keys a
// record may carry.
func DataFields() []string {
	out := make([]string, 0, len(fields)-1)
	for _, f := range fields {
		if f != Spacer {
			out = append(out, f)
		}
	}
	return out
}

// HeaderRow returns the rendered header row, with the spacer slot as "".
func HeaderRow() []string {
	out := Fields()
	for i, f := range out {
		if f == Spacer {
			out[i] = ""
		}
	}
	return out
}

// IsField reports whether name is a canonical data field.
func IsField(name string) bool {
	_, ok := known[name]
	return ok && name != Spacer
}

// Len is the number of rendered columns.
func Len() int {
	return len(fields)
}
