package nfse

import "github.com/despachanota/despachanota-api/internal/domain/entity"

// DeriveStatus recalcula el estado de preparación de una configuración.
// Devuelve ready si los once campos mínimos para emitir una NFS-e están
// presentes; si no, pending_info. Nunca devuelve sent: ese estado solo lo
// escribe el orquestador tras una emisión exitosa.
//
// Se ejecuta en cada escritura de la configuración (create y update).
func DeriveStatus(cfg *entity.InvoiceConfig) string {
	hasRequired := cfg.Name != "" &&
		cfg.PrestadorCNPJ != "" &&
		cfg.PrestadorRazaoSocial != "" &&
		cfg.PrestadorInscricaoMunicipal != "" &&
		cfg.PrestadorCodigoMunicipio != "" &&
		cfg.RecipientDocumentEncrypted != "" &&
		cfg.RecipientName != "" &&
		cfg.ServiceDescription != "" &&
		cfg.Amount.IsPositive() &&
		cfg.ServicoAliquotaISS.IsPositive() &&
		cfg.ServicoItemListaServico != ""

	if hasRequired {
		return entity.ConfigStatusReady
	}
	return entity.ConfigStatusPendingInfo
}

// CanCancel indica si una emisión en el estado dado admite cancelación.
// Solo pending, processing y error; success y cancelled son terminales.
func CanCancel(status string) bool {
	switch status {
	case entity.EmissionStatusPending, entity.EmissionStatusProcessing, entity.EmissionStatusError:
		return true
	}
	return false
}

// InFlightStatuses estados considerados "en curso" por el monitor y las métricas.
var InFlightStatuses = []string{
	entity.EmissionStatusPending,
	entity.EmissionStatusProcessing,
	entity.EmissionStatusAwaitingConf,
}
