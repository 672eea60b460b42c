package repository

import (
	"time"

	"github.com/despachanota/despachanota-api/internal/domain/entity"
)

// PipelineItem emisión no terminal con el nombre de su configuración (monitor).
type PipelineItem struct {
	Emission   *entity.InvoiceEmission
	ConfigName string
}

// InvoiceEmissionRepository puerto de persistencia de emisiones.
//
// Las escrituras terminales (FinishSuccess/FinishError) llevan un guard
// WHERE status = 'processing': una finalización tardía de una emisión ya
// cancelada no escribe nada, y una emisión nunca se termina dos veces.
type InvoiceEmissionRepository interface {
	// Create inserta la fila en processing. Si la configuración ya tiene una
	// emisión en vuelo (pending/processing) devuelve domain.ErrEmissionInFlight.
	Create(em *entity.InvoiceEmission) error
	GetByID(id string) (*entity.InvoiceEmission, error)
	GetByIDAndUser(id, userID string) (*entity.InvoiceEmission, error)
	FinishSuccess(id string, governmentResponse []byte, pdfURL string) (bool, error)
	FinishError(id, message string) (bool, error)
	MarkEmailSent(id string) error
	// Cancel transiciona a cancelled solo desde pending/processing/error y solo
	// para el dueño. Devuelve false si no afectó filas.
	Cancel(id, userID string) (bool, error)
	ListInFlightByUser(userID string, limit int) ([]*PipelineItem, error)
	CountByUserStatus(userID string, statuses []string) (int, error)
	CountSuccessSince(userID string, since time.Time) (int, error)
}
