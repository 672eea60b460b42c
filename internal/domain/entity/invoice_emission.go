package entity

import "time"

// Estados de una emisión. success y cancelled son terminales; ninguna
// transición sale de success.
const (
	EmissionStatusPending      = "pending"
	EmissionStatusProcessing   = "processing"
	EmissionStatusAwaitingConf = "awaiting_confirmation"
	EmissionStatusSuccess      = "success"
	EmissionStatusError        = "error"
	EmissionStatusCancelled    = "cancelled"
)

// InvoiceEmission es un intento de emisión de una configuración.
// GovernmentResponse guarda el JSON crudo devuelto por el API fiscal en éxito.
type InvoiceEmission struct {
	ID                 string
	ConfigID           string
	UserID             string
	Status             string
	GovernmentResponse []byte // JSON verbatim del API ("" en error)
	PDFURL             string
	EmailSent          bool
	ErrorMessage       string
	EmittedAt          time.Time // momento de creación del registro
}
