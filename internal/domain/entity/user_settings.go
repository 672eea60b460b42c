package entity

import "time"

// UserSettings configuración de seguridad y emisión por usuario (un registro por usuario).
// Los campos *Encrypted contienen blobs de pkg/cipher; nunca texto plano.
type UserSettings struct {
	ID                        string
	UserID                    string
	GovernmentAPIKeyEncrypted string // token del API fiscal, cifrado en reposo ("" = sin configurar)
	AutoSend                  bool   // interruptor global del envío automático
	RequireConfirmation       bool
	TOTPSecretEncrypted       string // secreto TOTP cifrado ("" = sin configurar)
	TOTPVerified              bool   // true solo tras validar un código con el secreto actual
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
