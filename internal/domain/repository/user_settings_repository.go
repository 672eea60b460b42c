package repository

import "github.com/despachanota/despachanota-api/internal/domain/entity"

// UserSettingsUpdate campos actualizables de la configuración de seguridad.
// Punteros nil = no tocar la columna.
type UserSettingsUpdate struct {
	GovernmentAPIKeyEncrypted *string
	AutoSend                  *bool
	RequireConfirmation       *bool
}

// UserSettingsRepository puerto de persistencia de user_settings (un registro por usuario).
type UserSettingsRepository interface {
	Create(settings *entity.UserSettings) error
	GetByUserID(userID string) (*entity.UserSettings, error)
	// Update aplica los campos no-nil; crea el registro si no existe (upsert).
	Update(userID string, in UserSettingsUpdate) (*entity.UserSettings, error)
	// SetTOTPSecret reemplaza el secreto cifrado y limpia totp_verified en la
	// misma escritura (rotación atómica).
	SetTOTPSecret(userID, secretEncrypted string) error
	// MarkTOTPVerified marca el secreto actual como probado.
	MarkTOTPVerified(userID string) error
}
