package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de preparación de una configuración de NFS-e.
const (
	ConfigStatusPendingInfo = "pending_info" // faltan campos obligatorios para emitir
	ConfigStatusReady       = "ready"        // lista para emisión
	ConfigStatusSent        = "sent"         // solo tras una emisión exitosa
)

// InvoiceConfig es la plantilla recurrente de emisión de NFS-e de un usuario.
//
// Convención de ausencia: string vacío y decimal cero significan "sin valor";
// esos campos no se incluyen en el payload hacia el API fiscal. Las dos
// excepciones son punteros porque su cero es significativo: SendDay (nullable)
// y RegimeEspecialTributacao (0 es un régimen válido).
type InvoiceConfig struct {
	ID     string
	UserID string
	Name   string
	Status string // pending_info | ready | sent

	// Programación
	AutoSendEnabled bool
	SendDay         *int // día del mes [1,28], nil = sin programar

	// Prestador (emisor)
	PrestadorCNPJ               string
	PrestadorRazaoSocial        string
	PrestadorInscricaoMunicipal string
	PrestadorCodigoMunicipio    string
	NaturezaOperacao            int // 0 = sin definir, el builder aplica 1
	OptanteSimplesNacional      bool
	RegimeEspecialTributacao    *int

	// Tomador (destinatario)
	RecipientName              string
	RecipientDocumentEncrypted string // CPF/CNPJ cifrado en reposo, jamás plano
	RecipientEmail             string
	TomadorTelefone            string
	TomadorLogradouro          string
	TomadorNumero              string
	TomadorComplemento         string
	TomadorBairro              string
	TomadorCodigoMunicipio     string
	TomadorUF                  string
	TomadorCEP                 string

	// Servicio
	ServiceDescription               string
	Amount                           decimal.Decimal
	ServicoAliquotaISS               decimal.Decimal
	ServicoISSRetido                 bool
	ServicoItemListaServico          string
	ServicoCodigoCNAE                string
	ServicoCodigoTributacaoMunicipio string
	ServicoValorDeducoes             decimal.Decimal
	ServicoCodigoMunicipioPrestacao  string

	// Envío por correo
	EmailEnabled      bool
	EmailTo           string
	EmailSubject      string
	EmailBodyTemplate string

	CreatedAt time.Time
	UpdatedAt time.Time
}
