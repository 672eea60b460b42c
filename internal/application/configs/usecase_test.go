package configs_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/despachanota/despachanota-api/internal/application/configs"
	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/pkg/cipher"
)

const testUserID = "00000000-0000-0000-0000-0000000000aa"

type memConfigRepo struct {
	configs map[string]*entity.InvoiceConfig
}

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{configs: map[string]*entity.InvoiceConfig{}}
}

func (r *memConfigRepo) Create(cfg *entity.InvoiceConfig) error {
	clone := *cfg
	r.configs[cfg.ID] = &clone
	return nil
}
func (r *memConfigRepo) GetByID(id, userID string) (*entity.InvoiceConfig, error) {
	cfg, ok := r.configs[id]
	if !ok || cfg.UserID != userID {
		return nil, nil
	}
	clone := *cfg
	return &clone, nil
}
func (r *memConfigRepo) ListByUser(userID string) ([]*entity.InvoiceConfig, error) {
	var out []*entity.InvoiceConfig
	for _, cfg := range r.configs {
		if cfg.UserID == userID {
			clone := *cfg
			out = append(out, &clone)
		}
	}
	return out, nil
}
func (r *memConfigRepo) Update(cfg *entity.InvoiceConfig) error {
	clone := *cfg
	r.configs[cfg.ID] = &clone
	return nil
}
func (r *memConfigRepo) Delete(id, userID string) error {
	cfg, ok := r.configs[id]
	if !ok || cfg.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.configs, id)
	return nil
}
func (r *memConfigRepo) SetStatus(id, status string) error {
	if cfg, ok := r.configs[id]; ok {
		cfg.Status = status
	}
	return nil
}
func (r *memConfigRepo) ListDueToday(day int) ([]*repository.DueConfig, error) { return nil, nil }
func (r *memConfigRepo) CountByUser(userID string) (int, error)                { return len(r.configs), nil }

func newUseCase(t *testing.T) (*configs.UseCase, *memConfigRepo, *cipher.SecretCipher) {
	t.Helper()
	secrets, err := cipher.New(bytes.Repeat([]byte{0x11}, 32))
	require.NoError(t, err)
	repo := newMemConfigRepo()
	return configs.NewUseCase(repo, secrets), repo, secrets
}

// completeRequest request con los once campos mínimos para quedar ready.
func completeRequest() dto.ConfigRequest {
	return dto.ConfigRequest{
		Name:               "Cliente mensal",
		PrestadorCNPJ:      "11.222.333/0001-81",
		RazaoSocial:        "Despacha Nota LTDA",
		InscricaoMunicipal: "12345",
		CodigoMunicipio:    "3550308",
		RecipientName:      "ACME Ltda",
		RecipientDocument:  "12.345.678/0001-95",
		ServiceDescription: "Consultoria em TI",
		Amount:             decimal.RequireFromString("1500.00"),
		AliquotaISS:        decimal.RequireFromString("2.5"),
		ItemListaServico:   "1.03",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: configuración completa nace ready, con el documento cifrado en
// reposo y descifrado en la respuesta.
func TestCreate_CompletaQuedaReady(t *testing.T) {
	uc, repo, secrets := newUseCase(t)

	resp, err := uc.Create(testUserID, completeRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.ConfigStatusReady, resp.Status)
	assert.Equal(t, "12.345.678/0001-95", resp.RecipientDocument,
		"el dueño ve el documento en claro")
	assert.Equal(t, "11222333000181", resp.PrestadorCNPJ,
		"el CNPJ del prestador se normaliza a dígitos")

	stored := repo.configs[resp.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "12.345.678/0001-95", stored.RecipientDocumentEncrypted,
		"el documento jamás se persiste en claro")
	assert.NotContains(t, stored.RecipientDocumentEncrypted, "12345678")
	plain, err := secrets.Decrypt(stored.RecipientDocumentEncrypted)
	require.NoError(t, err)
	assert.Equal(t, "12.345.678/0001-95", plain)
}

// Caso 2: sin un campo obligatorio queda pending_info, no falla.
func TestCreate_IncompletaQuedaPendingInfo(t *testing.T) {
	uc, _, _ := newUseCase(t)
	in := completeRequest()
	in.RecipientDocument = ""

	resp, err := uc.Create(testUserID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ConfigStatusPendingInfo, resp.Status)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _, _ := newUseCase(t)

	sinNombre := completeRequest()
	sinNombre.Name = ""
	_, err := uc.Create(testUserID, sinNombre)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	dia := 29
	fueraDeRango := completeRequest()
	fueraDeRango.SendDay = &dia
	_, err = uc.Create(testUserID, fueraDeRango)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "send_day fuera de [1,28] debe rechazarse")

	negativo := completeRequest()
	negativo.Amount = decimal.RequireFromString("-1")
	_, err = uc.Create(testUserID, negativo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// Editar una configuración sent la devuelve al ciclo: el estado se recalcula
// a ready o pending_info, nunca se conserva sent.
func TestUpdate_RecalculaEstado(t *testing.T) {
	uc, repo, _ := newUseCase(t)
	resp, err := uc.Create(testUserID, completeRequest())
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(resp.ID, entity.ConfigStatusSent))

	// quitar un obligatorio → pending_info
	in := completeRequest()
	in.ItemListaServico = ""
	updated, err := uc.Update(resp.ID, testUserID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ConfigStatusPendingInfo, updated.Status)

	// completo otra vez → ready (no sent)
	updated, err = uc.Update(resp.ID, testUserID, completeRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.ConfigStatusReady, updated.Status)
}

func TestUpdate_AjenaEsNotFound(t *testing.T) {
	uc, _, _ := newUseCase(t)
	resp, err := uc.Create(testUserID, completeRequest())
	require.NoError(t, err)

	_, err = uc.Update(resp.ID, "otro-usuario", completeRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestGetYDelete(t *testing.T) {
	uc, _, _ := newUseCase(t)
	resp, err := uc.Create(testUserID, completeRequest())
	require.NoError(t, err)

	got, err := uc.Get(resp.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	require.NoError(t, uc.Delete(resp.ID, testUserID))
	_, err = uc.Get(resp.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un blob alterado (o cifrado con otra clave) debe salir como error de
// integridad, no como un error genérico.
func TestGet_BlobCorruptoEsIntegridad(t *testing.T) {
	uc, repo, _ := newUseCase(t)
	resp, err := uc.Create(testUserID, completeRequest())
	require.NoError(t, err)

	repo.configs[resp.ID].RecipientDocumentEncrypted = "no-es-base64-valido!!"

	_, err = uc.Get(resp.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = uc.List(testUserID)
	assert.ErrorIs(t, err, domain.ErrIntegrity, "List descifra los mismos blobs que Get")
}
