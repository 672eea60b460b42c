package settings

import (
	"encoding/base64"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/despachanota/despachanota-api/pkg/totp"
)

// UseCase configuración de seguridad por usuario: API key del gobierno
// (cifrada en reposo), interruptores de envío y rotación del secreto TOTP.
type UseCase struct {
	userRepo     repository.UserRepository
	settingsRepo repository.UserSettingsRepository
	secrets      *cipher.SecretCipher
}

// NewUseCase construye el caso de uso de settings.
func NewUseCase(userRepo repository.UserRepository, settingsRepo repository.UserSettingsRepository, secrets *cipher.SecretCipher) *UseCase {
	return &UseCase{userRepo: userRepo, settingsRepo: settingsRepo, secrets: secrets}
}

// Get devuelve la vista segura de los settings. Un usuario sin fila recibe
// los defaults en cero, no un 404.
func (uc *UseCase) Get(userID string) (*dto.SettingsResponse, error) {
	s, err := uc.settingsRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &dto.SettingsResponse{}, nil
	}
	return toResponse(s), nil
}

// Update aplica los campos presentes. La API key entra en claro, se cifra
// aquí y nunca vuelve a salir; mandarla vacía la borra.
func (uc *UseCase) Update(userID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	upd := repository.UserSettingsUpdate{
		AutoSend:            in.AutoSend,
		RequireConfirmation: in.RequireConfirmation,
	}
	if in.GovernmentAPIKey != nil {
		blob := ""
		if *in.GovernmentAPIKey != "" {
			var err error
			blob, err = uc.secrets.Encrypt(*in.GovernmentAPIKey)
			if err != nil {
				return nil, err
			}
		}
		upd.GovernmentAPIKeyEncrypted = &blob
	}

	s, err := uc.settingsRepo.Update(userID, upd)
	if err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

// ResetTOTP rota el segundo factor: genera un secreto nuevo, lo cifra y lo
// guarda limpiando totp_verified en la misma escritura. El secreto anterior
// deja de valer en ese instante; el usuario debe re-enrolar con el QR.
func (uc *UseCase) ResetTOTP(userID string) (*dto.ResetTOTPResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	key, err := totp.Generate(user.Email)
	if err != nil {
		return nil, err
	}
	blob, err := uc.secrets.Encrypt(key.Secret)
	if err != nil {
		return nil, err
	}
	if err := uc.settingsRepo.SetTOTPSecret(userID, blob); err != nil {
		return nil, err
	}

	png, err := totp.QRCodePNG(key.URI)
	if err != nil {
		return nil, err
	}
	return &dto.ResetTOTPResponse{
		TOTPSecret: key.Secret,
		TOTPQRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

func toResponse(s *entity.UserSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		HasGovernmentAPIKey: s.GovernmentAPIKeyEncrypted != "",
		AutoSend:            s.AutoSend,
		RequireConfirmation: s.RequireConfirmation,
		TOTPConfigured:      s.TOTPSecretEncrypted != "",
		TOTPVerified:        s.TOTPVerified,
	}
}
