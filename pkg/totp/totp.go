// Package totp genera y valida códigos de un solo uso (TOTP, RFC 6238) para
// el segundo factor de autenticación. El secreto generado siempre se persiste
// cifrado con pkg/cipher; este paquete solo trabaja con el secreto en memoria.
package totp

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Issuer nombre fijo que aparece en la app autenticadora.
const Issuer = "Despacha Nota"

// Parámetros estándar: SHA-1, 6 dígitos, período de 30 s, secreto de 20 bytes.
const (
	digits     = otp.DigitsSix
	algorithm  = otp.AlgorithmSHA1
	period     = 30
	secretSize = 20
)

// Key secreto recién generado y su URI de aprovisionamiento otpauth://.
type Key struct {
	Secret string // base32, para mostrar una sola vez al usuario
	URI    string // otpauth://totp/...
}

// Generate crea un secreto aleatorio de 20 bytes etiquetado con el email del usuario.
func Generate(email string) (*Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: email,
		Period:      period,
		SecretSize:  secretSize,
		Digits:      digits,
		Algorithm:   algorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("totp: generar secreto: %w", err)
	}
	return &Key{Secret: key.Secret(), URI: key.URL()}, nil
}

// QRCodePNG renderiza la URI de aprovisionamiento como PNG de 256×256,
// escaneable por cualquier app autenticadora.
func QRCodePNG(uri string) ([]byte, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return nil, fmt.Errorf("totp: URI de aprovisionamiento inválida: %w", err)
	}
	img, err := key.Image(256, 256)
	if err != nil {
		return nil, fmt.Errorf("totp: renderizar QR: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("totp: codificar PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify valida el código contra el secreto en el instante actual.
func Verify(secret, code string) bool {
	return VerifyAt(secret, code, time.Now())
}

// VerifyAt valida el código en el instante dado, aceptando el período actual
// y los inmediatamente adyacentes (±1 paso, ±30 s de desfase de reloj).
// La ventana no se amplía más: cada paso extra duplica la superficie de ataque.
func VerifyAt(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at.UTC(), totp.ValidateOpts{
		Period:    period,
		Skew:      1,
		Digits:    digits,
		Algorithm: algorithm,
	})
	return err == nil && ok
}
