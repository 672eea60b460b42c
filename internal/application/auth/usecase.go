package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/despachanota/despachanota-api/pkg/jwt"
	"github.com/despachanota/despachanota-api/pkg/totp"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro, login y segundo factor.
//
// El login solo emite tokens con totp_ok=false; el token elevado que abre el
// resto del API se obtiene en VerifyTOTP, probando posesión del secreto.
type UseCase struct {
	userRepo     repository.UserRepository
	settingsRepo repository.UserSettingsRepository
	secrets      *cipher.SecretCipher
	jwtCfg       JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, settingsRepo repository.UserSettingsRepository, secrets *cipher.SecretCipher, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, settingsRepo: settingsRepo, secrets: secrets, jwtCfg: jwtCfg}
}

// Register crea la cuenta con su fila de user_settings y enrola el segundo
// factor: genera el secreto TOTP, lo cifra en reposo y devuelve el secreto en
// claro junto con el QR (PNG en base64) una única vez, para la app
// autenticadora. Devuelve ErrEmailAlreadyExists si el email ya está en uso.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	key, err := totp.Generate(user.Email)
	if err != nil {
		return nil, err
	}
	secretBlob, err := uc.secrets.Encrypt(key.Secret)
	if err != nil {
		return nil, err
	}
	settings := &entity.UserSettings{
		ID:                  uuid.New().String(),
		UserID:              user.ID,
		TOTPSecretEncrypted: secretBlob,
		TOTPVerified:        false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.settingsRepo.Create(settings); err != nil {
		return nil, err
	}

	png, err := totp.QRCodePNG(key.URI)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		User:       *toUserResponse(user),
		TOTPSecret: key.Secret,
		TOTPQRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Login verifica email/password y emite un token restringido (totp_ok=false)
// que solo sirve para llamar a verify-totp.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	settings, err := uc.settingsRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, false, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		TOTPRequired: settings != nil && settings.TOTPSecretEncrypted != "",
		User:         *toUserResponse(user),
	}, nil
}

// VerifyTOTP valida el código de seis dígitos contra el secreto cifrado del
// usuario (ventana de ±30 s) y emite el token elevado. La primera validación
// exitosa marca totp_verified.
func (uc *UseCase) VerifyTOTP(userID, code string) (*dto.VerifyTOTPResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	settings, err := uc.settingsRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.TOTPSecretEncrypted == "" {
		return nil, domain.ErrTOTPNotConfigured
	}

	secret, err := uc.secrets.Decrypt(settings.TOTPSecretEncrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: segredo TOTP", domain.ErrIntegrity)
	}
	if !totp.Verify(secret, code) {
		return nil, domain.ErrInvalidTOTP
	}

	if !settings.TOTPVerified {
		if err := uc.settingsRepo.MarkTOTPVerified(userID); err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, true, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyTOTPResponse{Token: token}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
