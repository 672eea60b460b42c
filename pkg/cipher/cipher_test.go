package cipher_test

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despachanota/despachanota-api/pkg/cipher"
)

func newTestCipher(t *testing.T) *cipher.SecretCipher {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := cipher.New(key)
	require.NoError(t, err)
	return c
}

func TestNew_RechazaClaveInvalida(t *testing.T) {
	_, err := cipher.New(nil)
	assert.Error(t, err, "clave ausente debe ser error de configuración")

	_, err = cipher.New(make([]byte, 16))
	assert.Error(t, err, "clave de 16 bytes debe rechazarse: se exige AES-256")

	_, err = cipher.New(make([]byte, 33))
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	casos := []string{
		"",
		"12345678901",
		"123.456.789-01",
		"segredo TOTP em base32: JBSWY3DPEHPK3PXP",
		"texto largo com acentuação çãõé e emojis 🚀 repetido repetido repetido",
	}
	for _, s := range casos {
		blob, err := c.Encrypt(s)
		require.NoError(t, err)

		out, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, s, out, "decrypt(encrypt(s)) debe devolver s")
	}
}

// TestDecrypt_BitFlip altera cada región del blob (iv, tag, ciphertext) y
// verifica que Decrypt siempre falla con ErrIntegrity.
func TestDecrypt_BitFlip(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt("documento confidencial 12345678000190")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := c.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, cipher.ErrIntegrity, "flip del byte %d debe romper la autenticación", i)
	}
}

func TestDecrypt_ClaveDistinta(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	blob, err := c1.Encrypt("secreto")
	require.NoError(t, err)

	_, err = c2.Decrypt(blob)
	assert.ErrorIs(t, err, cipher.ErrIntegrity, "descifrar con otra clave debe fallar, nunca devolver basura")
}

func TestDecrypt_EntradaMalformada(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.Decrypt("no es base64 %%%")
	assert.ErrorIs(t, err, cipher.ErrIntegrity)

	// Menos de iv+tag (32 bytes) no puede ser un blob válido
	_, err = c.Decrypt(base64.StdEncoding.EncodeToString(make([]byte, 31)))
	assert.ErrorIs(t, err, cipher.ErrIntegrity)
}

// TestEncrypt_NoncesUnicos verifica que 10.000 cifrados del mismo texto plano
// producen 10.000 ivs y blobs distintos. La reutilización de nonce bajo la
// misma clave rompe confidencialidad y autenticidad en GCM.
func TestEncrypt_NoncesUnicos(t *testing.T) {
	c := newTestCipher(t)

	const n = 10_000
	ivs := make(map[string]struct{}, n)
	blobs := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		blob, err := c.Encrypt("mismo texto plano")
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(blob)
		require.NoError(t, err)
		iv := string(raw[:16])

		_, dupIV := ivs[iv]
		require.False(t, dupIV, "iv repetido en la iteración %d", i)
		ivs[iv] = struct{}{}

		_, dupBlob := blobs[blob]
		require.False(t, dupBlob, "blob repetido en la iteración %d", i)
		blobs[blob] = struct{}{}
	}
}

func TestBlob_Formato(t *testing.T) {
	c := newTestCipher(t)

	plaintext := "1234567890"
	blob, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// iv(16) ‖ tag(16) ‖ ciphertext(len(plaintext) en GCM)
	assert.Equal(t, 16+16+len(plaintext), len(raw))
	assert.False(t, bytes.Contains(raw, []byte(plaintext)), "el texto plano no debe aparecer en el blob")
}
