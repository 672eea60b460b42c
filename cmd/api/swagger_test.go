package main

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El middleware de swagger hace stat de docs/swagger.json al arrancar y
// entra en pánico si no existe. El documento va versionado en el repo; este
// test garantiza que sigue ahí y sigue siendo un swagger válido.
func TestSwaggerJSON_ExisteYEsValido(t *testing.T) {
	raw, err := os.ReadFile("../../docs/swagger.json")
	require.NoError(t, err, "docs/swagger.json debe existir: sin él el API entra en pánico al arrancar")

	var doc struct {
		Swagger     string                     `json:"swagger"`
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "2.0", doc.Swagger)

	rutas := []string{
		"/api/auth/register",
		"/api/auth/login",
		"/api/auth/verify-totp",
		"/api/invoices",
		"/api/invoices/{id}",
		"/api/invoices/{id}/emit",
		"/api/pipeline",
		"/api/pipeline/{id}/cancel",
		"/api/settings",
		"/api/settings/reset-totp",
		"/api/metrics",
		"/api/government-status",
		"/api/cron/emit-invoices",
	}
	for _, ruta := range rutas {
		assert.Contains(t, doc.Paths, ruta)
	}
	assert.Contains(t, doc.Definitions, "dto.ErrorResponse")
}
