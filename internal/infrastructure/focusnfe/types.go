package focusnfe

import "encoding/json"

// Payload es el cuerpo JSON que el API Focus NFe espera para emitir una NFS-e.
//
// Política de presencia: los campos opcionales son punteros con omitempty —
// un campo ausente en la configuración no aparece en el JSON, ni siquiera
// como null. Los campos obligatorios se serializan siempre, con sus defaults.
// cnpj_tomador y cpf_tomador son mutuamente excluyentes.
type Payload struct {
	DataEmissao              string `json:"data_emissao"`
	NaturezaOperacao         int    `json:"natureza_operacao"`
	OptanteSimplesNacional   bool   `json:"optante_simples_nacional"`
	RegimeEspecialTributacao *int   `json:"regime_especial_tributacao,omitempty"`

	// Prestador
	CNPJPrestador               string `json:"cnpj_prestador"`
	InscricaoMunicipalPrestador string `json:"inscricao_municipal_prestador"`
	CodigoMunicipioEmissora     string `json:"codigo_municipio_emissora"`

	// Tomador
	RazaoSocialTomador     string  `json:"razao_social_tomador"`
	CNPJTomador            *string `json:"cnpj_tomador,omitempty"`
	CPFTomador             *string `json:"cpf_tomador,omitempty"`
	EmailTomador           *string `json:"email_tomador,omitempty"`
	TelefoneTomador        *string `json:"telefone_tomador,omitempty"`
	LogradouroTomador      *string `json:"logradouro_tomador,omitempty"`
	NumeroTomador          *string `json:"numero_tomador,omitempty"`
	ComplementoTomador     *string `json:"complemento_tomador,omitempty"`
	BairroTomador          *string `json:"bairro_tomador,omitempty"`
	CodigoMunicipioTomador *string `json:"codigo_municipio_tomador,omitempty"`
	UFTomador              *string `json:"uf_tomador,omitempty"`
	CEPTomador             *string `json:"cep_tomador,omitempty"`

	// Servicio
	Discriminacao             string   `json:"discriminacao"`
	ValorServicos             float64  `json:"valor_servicos"`
	Aliquota                  float64  `json:"aliquota"`
	ISSRetido                 bool     `json:"iss_retido"`
	ItemListaServico          string   `json:"item_lista_servico"`
	CodigoCNAE                *string  `json:"codigo_cnae,omitempty"`
	CodigoTributarioMunicipio *string  `json:"codigo_tributario_municipio,omitempty"`
	ValorDeducoes             *float64 `json:"valor_deducoes,omitempty"`
	CodigoMunicipioPrestacao  *string  `json:"codigo_municipio_prestacao,omitempty"`
}

// EmissionResponse es la respuesta del API tanto para emitir como para
// consultar estado. Raw conserva el cuerpo verbatim para persistirlo.
type EmissionResponse struct {
	Ref           string `json:"ref"`
	Status        string `json:"status"`
	StatusSefaz   string `json:"status_sefaz,omitempty"`
	MensagemSefaz string `json:"mensagem_sefaz,omitempty"`
	CaminhoXML    string `json:"caminho_xml_nota_fiscal,omitempty"`
	CaminhoDANFE  string `json:"caminho_danfe,omitempty"`
	URLDanfe      string `json:"url_danfe,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// PDFLocation devuelve la mejor referencia al documento renderizado:
// url_danfe si existe, si no caminho_danfe ("" si ninguno).
func (r *EmissionResponse) PDFLocation() string {
	if r.URLDanfe != "" {
		return r.URLDanfe
	}
	return r.CaminhoDANFE
}
