package http_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despachanota/despachanota-api/internal/application/configs"
	"github.com/despachanota/despachanota-api/internal/application/settings"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	apphttp "github.com/despachanota/despachanota-api/internal/interfaces/http"
	"github.com/despachanota/despachanota-api/pkg/cipher"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles: solo los métodos que cada escenario toca
// ──────────────────────────────────────────────────────────────────────────────

type failingSettingsRepo struct {
	repository.UserSettingsRepository
}

func (failingSettingsRepo) GetByUserID(userID string) (*entity.UserSettings, error) {
	return nil, errors.New("pgx: conexión rechazada en 10.0.0.7:5432 (detalle interno)")
}

type corruptConfigRepo struct {
	repository.InvoiceConfigRepository
}

func (corruptConfigRepo) GetByID(id, userID string) (*entity.InvoiceConfig, error) {
	return &entity.InvoiceConfig{
		ID:                         id,
		Name:                       "Config con blob roto",
		RecipientDocumentEncrypted: "blob-que-no-descifra",
	}, nil
}

func doGet(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// Un error no clasificado responde el mensaje genérico: el detalle del driver
// jamás viaja al cliente.
func TestErrores_InternoNoFiltraDetalle(t *testing.T) {
	secrets, err := cipher.New(bytes.Repeat([]byte{0x33}, 32))
	require.NoError(t, err)
	uc := settings.NewUseCase(nil, failingSettingsRepo{}, secrets)

	app := fiber.New()
	handler := apphttp.NewSettingsHandler(uc)
	app.Get("/api/settings", handler.Get)

	status, body := doGet(t, app, "/api/settings")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "INTERNAL")
	assert.Contains(t, body, "erro interno do servidor")
	assert.NotContains(t, body, "pgx", "el detalle del driver no debe salir al cliente")
	assert.NotContains(t, body, "10.0.0.7", "direcciones internas no deben salir al cliente")
}

// Un registro cifrado ilegible se mapea a la categoría de integridad, también
// sin detalle interno.
func TestErrores_IntegridadSeMapeaSinDetalle(t *testing.T) {
	secrets, err := cipher.New(bytes.Repeat([]byte{0x44}, 32))
	require.NoError(t, err)
	uc := configs.NewUseCase(corruptConfigRepo{}, secrets)

	app := fiber.New()
	handler := apphttp.NewConfigHandler(uc)
	app.Get("/api/invoices/:id", handler.GetByID)

	status, body := doGet(t, app, "/api/invoices/cfg-1")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "INTEGRITY")
	assert.Contains(t, body, "registro cifrado ilegível")
	assert.NotContains(t, body, "cipher", "el error de bajo nivel no debe salir al cliente")
}
