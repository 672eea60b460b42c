package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
)

var _ repository.UserSettingsRepository = (*UserSettingsRepo)(nil)

// UserSettingsRepo implementación del puerto UserSettingsRepository sobre PostgreSQL.
type UserSettingsRepo struct {
	pool *pgxpool.Pool
}

// NewUserSettingsRepository construye el adaptador de user_settings.
func NewUserSettingsRepository(pool *pgxpool.Pool) *UserSettingsRepo {
	return &UserSettingsRepo{pool: pool}
}

const settingsColumns = `
	id, user_id, government_api_key_encrypted, auto_send, require_confirmation,
	totp_secret_encrypted, totp_verified, created_at, updated_at`

func scanSettings(row pgx.Row) (*entity.UserSettings, error) {
	var s entity.UserSettings
	err := row.Scan(
		&s.ID, &s.UserID, &s.GovernmentAPIKeyEncrypted, &s.AutoSend, &s.RequireConfirmation,
		&s.TOTPSecretEncrypted, &s.TOTPVerified, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create persiste la fila de settings de un usuario recién registrado.
func (r *UserSettingsRepo) Create(s *entity.UserSettings) error {
	query := `
		INSERT INTO user_settings (id, user_id, government_api_key_encrypted, auto_send,
			require_confirmation, totp_secret_encrypted, totp_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		s.ID, s.UserID, s.GovernmentAPIKeyEncrypted, s.AutoSend,
		s.RequireConfirmation, s.TOTPSecretEncrypted, s.TOTPVerified, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user_settings: %w", err)
	}
	return nil
}

// GetByUserID obtiene los settings de un usuario. (nil, nil) si no hay fila.
func (r *UserSettingsRepo) GetByUserID(userID string) (*entity.UserSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM user_settings WHERE user_id = $1`
	s, err := scanSettings(r.pool.QueryRow(context.Background(), query, userID))
	if err != nil {
		return nil, fmt.Errorf("get user_settings: %w", err)
	}
	return s, nil
}

// Update aplica los campos no-nil. Si el usuario no tiene fila la crea
// (upsert): el flujo normal la crea en el registro, pero el upsert cubre
// cuentas anteriores a ese flujo.
func (r *UserSettingsRepo) Update(userID string, in repository.UserSettingsUpdate) (*entity.UserSettings, error) {
	query := `
		INSERT INTO user_settings (id, user_id, government_api_key_encrypted, auto_send,
			require_confirmation, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, ''), COALESCE($4, FALSE), COALESCE($5, FALSE), NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			government_api_key_encrypted = COALESCE($3, user_settings.government_api_key_encrypted),
			auto_send                    = COALESCE($4, user_settings.auto_send),
			require_confirmation         = COALESCE($5, user_settings.require_confirmation),
			updated_at                   = NOW()
		RETURNING ` + settingsColumns
	s, err := scanSettings(r.pool.QueryRow(context.Background(), query,
		uuid.New().String(), userID,
		in.GovernmentAPIKeyEncrypted, in.AutoSend, in.RequireConfirmation,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user_settings: %w", err)
	}
	return s, nil
}

// SetTOTPSecret reemplaza el secreto cifrado y limpia totp_verified en la
// misma escritura: el código del secreto anterior deja de valer atómicamente.
func (r *UserSettingsRepo) SetTOTPSecret(userID, secretEncrypted string) error {
	query := `
		UPDATE user_settings
		SET totp_secret_encrypted = $2, totp_verified = FALSE, updated_at = NOW()
		WHERE user_id = $1`
	tag, err := r.pool.Exec(context.Background(), query, userID, secretEncrypted)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkTOTPVerified deja constancia de que el secreto actual fue probado.
func (r *UserSettingsRepo) MarkTOTPVerified(userID string) error {
	query := `
		UPDATE user_settings
		SET totp_verified = TRUE, updated_at = NOW()
		WHERE user_id = $1`
	tag, err := r.pool.Exec(context.Background(), query, userID)
	if err != nil {
		return fmt.Errorf("mark totp verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
