package dto

// SettingsResponse configuración de seguridad del usuario. Los secretos jamás
// viajan de vuelta: solo se informa si están configurados.
type SettingsResponse struct {
	HasGovernmentAPIKey bool `json:"has_government_api_key"`
	AutoSend            bool `json:"auto_send"`
	RequireConfirmation bool `json:"require_confirmation"`
	TOTPConfigured      bool `json:"totp_configured"`
	TOTPVerified        bool `json:"totp_verified"`
}

// UpdateSettingsRequest campos actualizables; nil = no tocar. La API key
// llega en claro y se cifra antes de persistir; string vacío la borra.
type UpdateSettingsRequest struct {
	GovernmentAPIKey    *string `json:"government_api_key"`
	AutoSend            *bool   `json:"auto_send"`
	RequireConfirmation *bool   `json:"require_confirmation"`
}

// ResetTOTPResponse nuevo secreto y QR tras una rotación. Igual que en el
// registro, se entregan una única vez.
type ResetTOTPResponse struct {
	TOTPSecret string `json:"totp_secret"`
	TOTPQRCode string `json:"totp_qr_code"`
}
