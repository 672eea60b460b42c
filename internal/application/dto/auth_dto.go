package dto

import "time"

// RegisterRequest entrada para registro: crea cuenta y secreto TOTP.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// RegisterResponse salida del registro. El secreto TOTP y el QR (PNG en
// base64) se devuelven una única vez, para el enrolamiento en la app
// autenticadora; del lado servidor solo queda el blob cifrado.
type RegisterResponse struct {
	User       UserResponse `json:"user"`
	TOTPSecret string       `json:"totp_secret"`
	TOTPQRCode string       `json:"totp_qr_code"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login con email y password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida del login. El token lleva totp_ok=false: solo sirve
// para llamar a verify-totp. TOTPRequired indica si la cuenta tiene segundo
// factor enrolado.
type LoginResponse struct {
	Token        string       `json:"token"`
	TOTPRequired bool         `json:"totp_required"`
	User         UserResponse `json:"user"`
}

// VerifyTOTPRequest código de seis dígitos de la app autenticadora.
type VerifyTOTPRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// VerifyTOTPResponse token elevado con totp_ok=true.
type VerifyTOTPResponse struct {
	Token string `json:"token"`
}
