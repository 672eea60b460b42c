package focusnfe

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/nfse"
)

// BuildPayload transforma una configuración en el payload completo del API.
// Función pura: cleanDoc es el documento del tomador ya descifrado y limpio
// (el descifrado es responsabilidad del orquestador), now es el instante de
// construcción y siempre se usa como data_emissao.
//
// Reglas reproducidas del contrato:
//   - cleanDoc con más de 11 dígitos llena cnpj_tomador; si no, cpf_tomador.
//   - Opcionales vacíos no aparecen en el JSON (ni como null).
//   - Defaults: natureza_operacao 1, discriminacao "Servico", números 0,
//     booleanos false.
func BuildPayload(cfg *entity.InvoiceConfig, cleanDoc string, now time.Time) *Payload {
	natureza := cfg.NaturezaOperacao
	if natureza == 0 {
		natureza = 1
	}
	discriminacao := cfg.ServiceDescription
	if discriminacao == "" {
		discriminacao = "Servico"
	}

	p := &Payload{
		DataEmissao:              now.Format(time.RFC3339),
		NaturezaOperacao:         natureza,
		OptanteSimplesNacional:   cfg.OptanteSimplesNacional,
		RegimeEspecialTributacao: cfg.RegimeEspecialTributacao,

		CNPJPrestador:               cfg.PrestadorCNPJ,
		InscricaoMunicipalPrestador: cfg.PrestadorInscricaoMunicipal,
		CodigoMunicipioEmissora:     cfg.PrestadorCodigoMunicipio,

		RazaoSocialTomador: cfg.RecipientName,

		Discriminacao:    discriminacao,
		ValorServicos:    cfg.Amount.InexactFloat64(),
		Aliquota:         cfg.ServicoAliquotaISS.InexactFloat64(),
		ISSRetido:        cfg.ServicoISSRetido,
		ItemListaServico: cfg.ServicoItemListaServico,
	}

	if nfse.IsCNPJ(cleanDoc) {
		p.CNPJTomador = &cleanDoc
	} else {
		p.CPFTomador = &cleanDoc
	}

	p.EmailTomador = optional(cfg.RecipientEmail)
	p.TelefoneTomador = optional(cfg.TomadorTelefone)
	p.LogradouroTomador = optional(cfg.TomadorLogradouro)
	p.NumeroTomador = optional(cfg.TomadorNumero)
	p.ComplementoTomador = optional(cfg.TomadorComplemento)
	p.BairroTomador = optional(cfg.TomadorBairro)
	p.CodigoMunicipioTomador = optional(cfg.TomadorCodigoMunicipio)
	p.UFTomador = optional(cfg.TomadorUF)
	p.CEPTomador = optional(cfg.TomadorCEP)

	p.CodigoCNAE = optional(cfg.ServicoCodigoCNAE)
	p.CodigoTributarioMunicipio = optional(cfg.ServicoCodigoTributacaoMunicipio)
	p.CodigoMunicipioPrestacao = optional(cfg.ServicoCodigoMunicipioPrestacao)
	p.ValorDeducoes = optionalDecimal(cfg.ServicoValorDeducoes)

	return p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDecimal(d decimal.Decimal) *float64 {
	if d.IsZero() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
