package metrics

import (
	"context"
	"time"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/nfse"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
	"github.com/despachanota/despachanota-api/pkg/cipher"
)

// HealthProbe sonda de salud del API fiscal autenticada con el token del
// usuario. Devuelve online, slow u offline.
type HealthProbe func(ctx context.Context, token string) string

// UseCase métricas del tablero: conteos de configuraciones y emisiones del
// usuario más la salud del API fiscal.
type UseCase struct {
	configRepo   repository.InvoiceConfigRepository
	emissionRepo repository.InvoiceEmissionRepository
	settingsRepo repository.UserSettingsRepository
	secrets      *cipher.SecretCipher
	probe        HealthProbe
}

// NewUseCase construye el caso de uso de métricas.
func NewUseCase(
	configRepo repository.InvoiceConfigRepository,
	emissionRepo repository.InvoiceEmissionRepository,
	settingsRepo repository.UserSettingsRepository,
	secrets *cipher.SecretCipher,
	probe HealthProbe,
) *UseCase {
	return &UseCase{
		configRepo:   configRepo,
		emissionRepo: emissionRepo,
		settingsRepo: settingsRepo,
		secrets:      secrets,
		probe:        probe,
	}
}

// Dashboard arma el tablero del usuario. "Este mes" corre desde las 00:00 del
// día 1 en hora local del servidor.
func (uc *UseCase) Dashboard(ctx context.Context, userID string) (*dto.MetricsResponse, error) {
	totalConfigs, err := uc.configRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	inFlight, err := uc.emissionRepo.CountByUserStatus(userID, nfse.InFlightStatuses)
	if err != nil {
		return nil, err
	}
	errored, err := uc.emissionRepo.CountByUserStatus(userID, []string{entity.EmissionStatusError})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	successes, err := uc.emissionRepo.CountSuccessSince(userID, monthStart)
	if err != nil {
		return nil, err
	}

	return &dto.MetricsResponse{
		TotalConfigs:        totalConfigs,
		InFlightEmissions:   inFlight,
		ErrorEmissions:      errored,
		SuccessThisMonth:    successes,
		GovernmentAPIHealth: uc.GovernmentHealth(ctx, userID),
	}, nil
}

// GovernmentHealth sondea el API fiscal con la API key del usuario. Sin key
// configurada (o con un blob ilegible) no hay nada que sondear: offline.
func (uc *UseCase) GovernmentHealth(ctx context.Context, userID string) string {
	settings, err := uc.settingsRepo.GetByUserID(userID)
	if err != nil || settings == nil || settings.GovernmentAPIKeyEncrypted == "" {
		return focusnfe.HealthOffline
	}
	token, err := uc.secrets.Decrypt(settings.GovernmentAPIKeyEncrypted)
	if err != nil {
		return focusnfe.HealthOffline
	}
	return uc.probe(ctx, token)
}
