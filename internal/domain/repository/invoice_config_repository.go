package repository

import "github.com/despachanota/despachanota-api/internal/domain/entity"

// DueConfig configuración vencida hoy junto con la configuración de seguridad
// de su dueño (join que hace el sweep en una sola consulta).
type DueConfig struct {
	Config   *entity.InvoiceConfig
	Settings *entity.UserSettings
}

// InvoiceConfigRepository puerto de persistencia de configuraciones de NFS-e.
// Todas las lecturas y escrituras van acotadas al dueño (userID): un registro
// ajeno se comporta exactamente igual que uno inexistente.
type InvoiceConfigRepository interface {
	Create(cfg *entity.InvoiceConfig) error
	GetByID(id, userID string) (*entity.InvoiceConfig, error)
	ListByUser(userID string) ([]*entity.InvoiceConfig, error)
	Update(cfg *entity.InvoiceConfig) error
	Delete(id, userID string) error
	// SetStatus escritura puntual de estado (el orquestador marca sent).
	SetStatus(id, status string) error
	// ListDueToday configuraciones con auto_send_enabled, send_day = day,
	// status ready, y dueño con API key configurada y auto_send global activo.
	ListDueToday(day int) ([]*DueConfig, error)
	CountByUser(userID string) (int, error)
}
