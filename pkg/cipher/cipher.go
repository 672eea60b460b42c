// Package cipher implementa el cifrado simétrico en reposo de campos
// sensibles (documento del tomador, token del API, secreto TOTP).
//
// Formato del blob persistido: base64(iv ‖ tag ‖ ciphertext), con AES-256-GCM,
// iv de 16 bytes aleatorio por llamada y tag de autenticación de 16 bytes.
package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	ivLength  = 16
	tagLength = 16
	keyLength = 32
)

// ErrIntegrity indica blob alterado, truncado o descifrado con otra clave.
// Nunca se devuelve texto plano parcial en ese caso.
var ErrIntegrity = errors.New("cipher: datos alterados o clave incorrecta")

// SecretCipher cifra y descifra strings con una clave fija de proceso.
type SecretCipher struct {
	aead stdcipher.AEAD
}

// New construye el cifrador. La clave debe tener exactamente 32 bytes;
// una clave ausente o de otro tamaño es un error fatal de configuración.
func New(key []byte) (*SecretCipher, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("cipher: la clave debe tener %d bytes, tiene %d", keyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: inicializar AES: %w", err)
	}
	aead, err := stdcipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, fmt.Errorf("cipher: inicializar GCM: %w", err)
	}
	return &SecretCipher{aead: aead}, nil
}

// Encrypt cifra el texto plano y devuelve el blob base64.
// Cada llamada genera un iv aleatorio nuevo: jamás se reutiliza un nonce
// bajo la misma clave.
func (c *SecretCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("cipher: generar iv: %w", err)
	}

	// Seal devuelve ciphertext‖tag; el blob persistido es iv‖tag‖ciphertext.
	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ct := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	blob := make([]byte, 0, ivLength+tagLength+len(ct))
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ct...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt descifra un blob base64. Cualquier alteración del iv, el tag o el
// ciphertext produce ErrIntegrity; nunca se devuelve basura en silencio.
func (c *SecretCipher) Decrypt(encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: base64 inválido", ErrIntegrity)
	}
	if len(blob) < ivLength+tagLength {
		return "", fmt.Errorf("%w: blob truncado (%d bytes)", ErrIntegrity, len(blob))
	}

	iv := blob[:ivLength]
	tag := blob[ivLength : ivLength+tagLength]
	ct := blob[ivLength+tagLength:]

	// Reordenar a ciphertext‖tag, la forma que Open espera.
	sealed := make([]byte, 0, len(ct)+tagLength)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrIntegrity
	}
	return string(plaintext), nil
}
