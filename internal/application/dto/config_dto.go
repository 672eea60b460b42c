package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfigRequest body para crear o actualizar una configuración de NFS-e.
// Los campos opcionales omitidos quedan como string vacío / decimal cero y
// no viajan al API fiscal; send_day y regime_especial_tributacao son
// punteros porque nil y 0 significan cosas distintas.
type ConfigRequest struct {
	Name string `json:"name"`

	AutoSendEnabled bool `json:"auto_send_enabled"`
	SendDay         *int `json:"send_day"`

	PrestadorCNPJ            string `json:"prestador_cnpj"`
	RazaoSocial              string `json:"razao_social"`
	InscricaoMunicipal       string `json:"inscricao_municipal"`
	CodigoMunicipio          string `json:"codigo_municipio"`
	NaturezaOperacao         int    `json:"natureza_operacao"`
	OptanteSimplesNacional   bool   `json:"optante_simples_nacional"`
	RegimeEspecialTributacao *int   `json:"regime_especial_tributacao"`

	RecipientName          string `json:"recipient_name"`
	RecipientDocument      string `json:"recipient_document"`
	RecipientEmail         string `json:"recipient_email"`
	TomadorTelefone        string `json:"tomador_telefone"`
	TomadorLogradouro      string `json:"tomador_logradouro"`
	TomadorNumero          string `json:"tomador_numero"`
	TomadorComplemento     string `json:"tomador_complemento"`
	TomadorBairro          string `json:"tomador_bairro"`
	TomadorCodigoMunicipio string `json:"tomador_codigo_municipio"`
	TomadorUF              string `json:"tomador_uf"`
	TomadorCEP             string `json:"tomador_cep"`

	ServiceDescription        string          `json:"service_description"`
	Amount                    decimal.Decimal `json:"amount"`
	AliquotaISS               decimal.Decimal `json:"aliquota_iss"`
	ISSRetido                 bool            `json:"iss_retido"`
	ItemListaServico          string          `json:"item_lista_servico"`
	CodigoCNAE                string          `json:"codigo_cnae"`
	CodigoTributacaoMunicipio string          `json:"codigo_tributacao_municipio"`
	ValorDeducoes             decimal.Decimal `json:"valor_deducoes"`
	CodigoMunicipioPrestacao  string          `json:"codigo_municipio_prestacao"`

	EmailEnabled      bool   `json:"email_enabled"`
	EmailTo           string `json:"email_to"`
	EmailSubject      string `json:"email_subject"`
	EmailBodyTemplate string `json:"email_body_template"`
}

// ConfigResponse configuración en respuestas. El documento del tomador va
// descifrado: estas rutas solo las ve el dueño.
type ConfigResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`

	AutoSendEnabled bool `json:"auto_send_enabled"`
	SendDay         *int `json:"send_day"`

	PrestadorCNPJ            string `json:"prestador_cnpj"`
	RazaoSocial              string `json:"razao_social"`
	InscricaoMunicipal       string `json:"inscricao_municipal"`
	CodigoMunicipio          string `json:"codigo_municipio"`
	NaturezaOperacao         int    `json:"natureza_operacao"`
	OptanteSimplesNacional   bool   `json:"optante_simples_nacional"`
	RegimeEspecialTributacao *int   `json:"regime_especial_tributacao"`

	RecipientName          string `json:"recipient_name"`
	RecipientDocument      string `json:"recipient_document"`
	RecipientEmail         string `json:"recipient_email"`
	TomadorTelefone        string `json:"tomador_telefone"`
	TomadorLogradouro      string `json:"tomador_logradouro"`
	TomadorNumero          string `json:"tomador_numero"`
	TomadorComplemento     string `json:"tomador_complemento"`
	TomadorBairro          string `json:"tomador_bairro"`
	TomadorCodigoMunicipio string `json:"tomador_codigo_municipio"`
	TomadorUF              string `json:"tomador_uf"`
	TomadorCEP             string `json:"tomador_cep"`

	ServiceDescription        string          `json:"service_description"`
	Amount                    decimal.Decimal `json:"amount"`
	AliquotaISS               decimal.Decimal `json:"aliquota_iss"`
	ISSRetido                 bool            `json:"iss_retido"`
	ItemListaServico          string          `json:"item_lista_servico"`
	CodigoCNAE                string          `json:"codigo_cnae"`
	CodigoTributacaoMunicipio string          `json:"codigo_tributacao_municipio"`
	ValorDeducoes             decimal.Decimal `json:"valor_deducoes"`
	CodigoMunicipioPrestacao  string          `json:"codigo_municipio_prestacao"`

	EmailEnabled      bool   `json:"email_enabled"`
	EmailTo           string `json:"email_to"`
	EmailSubject      string `json:"email_subject"`
	EmailBodyTemplate string `json:"email_body_template"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
