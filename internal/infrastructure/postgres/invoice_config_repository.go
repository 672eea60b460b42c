package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
)

var _ repository.InvoiceConfigRepository = (*InvoiceConfigRepo)(nil)

// InvoiceConfigRepo implementación del puerto InvoiceConfigRepository sobre PostgreSQL.
type InvoiceConfigRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceConfigRepository construye el adaptador de configuraciones.
func NewInvoiceConfigRepository(pool *pgxpool.Pool) *InvoiceConfigRepo {
	return &InvoiceConfigRepo{pool: pool}
}

const configColumns = `
	id, user_id, name, status, auto_send_enabled, send_day,
	prestador_cnpj, prestador_razao_social, prestador_inscricao_municipal,
	prestador_codigo_municipio, natureza_operacao, optante_simples_nacional,
	regime_especial_tributacao,
	recipient_name, recipient_document_encrypted, recipient_email,
	tomador_telefone, tomador_logradouro, tomador_numero, tomador_complemento,
	tomador_bairro, tomador_codigo_municipio, tomador_uf, tomador_cep,
	service_description, amount, servico_aliquota_iss, servico_iss_retido,
	servico_item_lista_servico, servico_codigo_cnae,
	servico_codigo_tributacao_municipio, servico_valor_deducoes,
	servico_codigo_municipio_prestacao,
	email_enabled, email_to, email_subject, email_body_template,
	created_at, updated_at`

func scanConfig(row pgx.Row) (*entity.InvoiceConfig, error) {
	var c entity.InvoiceConfig
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Status, &c.AutoSendEnabled, &c.SendDay,
		&c.PrestadorCNPJ, &c.PrestadorRazaoSocial, &c.PrestadorInscricaoMunicipal,
		&c.PrestadorCodigoMunicipio, &c.NaturezaOperacao, &c.OptanteSimplesNacional,
		&c.RegimeEspecialTributacao,
		&c.RecipientName, &c.RecipientDocumentEncrypted, &c.RecipientEmail,
		&c.TomadorTelefone, &c.TomadorLogradouro, &c.TomadorNumero, &c.TomadorComplemento,
		&c.TomadorBairro, &c.TomadorCodigoMunicipio, &c.TomadorUF, &c.TomadorCEP,
		&c.ServiceDescription, &c.Amount, &c.ServicoAliquotaISS, &c.ServicoISSRetido,
		&c.ServicoItemListaServico, &c.ServicoCodigoCNAE,
		&c.ServicoCodigoTributacaoMunicipio, &c.ServicoValorDeducoes,
		&c.ServicoCodigoMunicipioPrestacao,
		&c.EmailEnabled, &c.EmailTo, &c.EmailSubject, &c.EmailBodyTemplate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create persiste una configuración nueva.
func (r *InvoiceConfigRepo) Create(cfg *entity.InvoiceConfig) error {
	query := `
		INSERT INTO invoice_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35, $36, $37, $38, $39)`
	_, err := r.pool.Exec(context.Background(), query,
		cfg.ID, cfg.UserID, cfg.Name, cfg.Status, cfg.AutoSendEnabled, cfg.SendDay,
		cfg.PrestadorCNPJ, cfg.PrestadorRazaoSocial, cfg.PrestadorInscricaoMunicipal,
		cfg.PrestadorCodigoMunicipio, cfg.NaturezaOperacao, cfg.OptanteSimplesNacional,
		cfg.RegimeEspecialTributacao,
		cfg.RecipientName, cfg.RecipientDocumentEncrypted, cfg.RecipientEmail,
		cfg.TomadorTelefone, cfg.TomadorLogradouro, cfg.TomadorNumero, cfg.TomadorComplemento,
		cfg.TomadorBairro, cfg.TomadorCodigoMunicipio, cfg.TomadorUF, cfg.TomadorCEP,
		cfg.ServiceDescription, cfg.Amount, cfg.ServicoAliquotaISS, cfg.ServicoISSRetido,
		cfg.ServicoItemListaServico, cfg.ServicoCodigoCNAE,
		cfg.ServicoCodigoTributacaoMunicipio, cfg.ServicoValorDeducoes,
		cfg.ServicoCodigoMunicipioPrestacao,
		cfg.EmailEnabled, cfg.EmailTo, cfg.EmailSubject, cfg.EmailBodyTemplate,
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice_config: %w", err)
	}
	return nil
}

// GetByID obtiene la configuración del dueño. (nil, nil) si no existe o es ajena.
func (r *InvoiceConfigRepo) GetByID(id, userID string) (*entity.InvoiceConfig, error) {
	query := `SELECT ` + configColumns + ` FROM invoice_configs WHERE id = $1 AND user_id = $2`
	cfg, err := scanConfig(r.pool.QueryRow(context.Background(), query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get invoice_config: %w", err)
	}
	return cfg, nil
}

// ListByUser configuraciones del usuario, más recientes primero.
func (r *InvoiceConfigRepo) ListByUser(userID string) ([]*entity.InvoiceConfig, error) {
	query := `SELECT ` + configColumns + ` FROM invoice_configs
		WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list invoice_configs: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice_config: %w", err)
		}
		list = append(list, cfg)
	}
	return list, rows.Err()
}

// Update reescribe todos los campos editables de la configuración.
func (r *InvoiceConfigRepo) Update(cfg *entity.InvoiceConfig) error {
	query := `
		UPDATE invoice_configs SET
			name = $2, status = $3, auto_send_enabled = $4, send_day = $5,
			prestador_cnpj = $6, prestador_razao_social = $7,
			prestador_inscricao_municipal = $8, prestador_codigo_municipio = $9,
			natureza_operacao = $10, optante_simples_nacional = $11,
			regime_especial_tributacao = $12,
			recipient_name = $13, recipient_document_encrypted = $14, recipient_email = $15,
			tomador_telefone = $16, tomador_logradouro = $17, tomador_numero = $18,
			tomador_complemento = $19, tomador_bairro = $20, tomador_codigo_municipio = $21,
			tomador_uf = $22, tomador_cep = $23,
			service_description = $24, amount = $25, servico_aliquota_iss = $26,
			servico_iss_retido = $27, servico_item_lista_servico = $28,
			servico_codigo_cnae = $29, servico_codigo_tributacao_municipio = $30,
			servico_valor_deducoes = $31, servico_codigo_municipio_prestacao = $32,
			email_enabled = $33, email_to = $34, email_subject = $35,
			email_body_template = $36, updated_at = $37
		WHERE id = $1`
	tag, err := r.pool.Exec(context.Background(), query,
		cfg.ID,
		cfg.Name, cfg.Status, cfg.AutoSendEnabled, cfg.SendDay,
		cfg.PrestadorCNPJ, cfg.PrestadorRazaoSocial,
		cfg.PrestadorInscricaoMunicipal, cfg.PrestadorCodigoMunicipio,
		cfg.NaturezaOperacao, cfg.OptanteSimplesNacional,
		cfg.RegimeEspecialTributacao,
		cfg.RecipientName, cfg.RecipientDocumentEncrypted, cfg.RecipientEmail,
		cfg.TomadorTelefone, cfg.TomadorLogradouro, cfg.TomadorNumero,
		cfg.TomadorComplemento, cfg.TomadorBairro, cfg.TomadorCodigoMunicipio,
		cfg.TomadorUF, cfg.TomadorCEP,
		cfg.ServiceDescription, cfg.Amount, cfg.ServicoAliquotaISS,
		cfg.ServicoISSRetido, cfg.ServicoItemListaServico,
		cfg.ServicoCodigoCNAE, cfg.ServicoCodigoTributacaoMunicipio,
		cfg.ServicoValorDeducoes, cfg.ServicoCodigoMunicipioPrestacao,
		cfg.EmailEnabled, cfg.EmailTo, cfg.EmailSubject,
		cfg.EmailBodyTemplate, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice_config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la configuración del dueño.
func (r *InvoiceConfigRepo) Delete(id, userID string) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM invoice_configs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete invoice_config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus escritura puntual de estado (el orquestador marca sent).
func (r *InvoiceConfigRepo) SetStatus(id, status string) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE invoice_configs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set invoice_config status: %w", err)
	}
	return nil
}

// ListDueToday configuraciones vencidas hoy junto con los settings del dueño,
// en una sola consulta: auto-envío habilitado, día coincidente, estado ready,
// y dueño con API key configurada y auto_send global activo.
func (r *InvoiceConfigRepo) ListDueToday(day int) ([]*repository.DueConfig, error) {
	query := `
		SELECT ` + prefixColumns("c", configColumns) + `,
			s.id, s.user_id, s.government_api_key_encrypted, s.auto_send,
			s.require_confirmation, s.totp_secret_encrypted, s.totp_verified,
			s.created_at, s.updated_at
		FROM invoice_configs c
		JOIN user_settings s ON s.user_id = c.user_id
		WHERE c.auto_send_enabled = TRUE
		  AND c.send_day = $1
		  AND c.status = 'ready'
		  AND s.auto_send = TRUE
		  AND s.government_api_key_encrypted <> ''
		ORDER BY c.created_at`
	rows, err := r.pool.Query(context.Background(), query, day)
	if err != nil {
		return nil, fmt.Errorf("list due configs: %w", err)
	}
	defer rows.Close()

	var list []*repository.DueConfig
	for rows.Next() {
		var c entity.InvoiceConfig
		var s entity.UserSettings
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Status, &c.AutoSendEnabled, &c.SendDay,
			&c.PrestadorCNPJ, &c.PrestadorRazaoSocial, &c.PrestadorInscricaoMunicipal,
			&c.PrestadorCodigoMunicipio, &c.NaturezaOperacao, &c.OptanteSimplesNacional,
			&c.RegimeEspecialTributacao,
			&c.RecipientName, &c.RecipientDocumentEncrypted, &c.RecipientEmail,
			&c.TomadorTelefone, &c.TomadorLogradouro, &c.TomadorNumero, &c.TomadorComplemento,
			&c.TomadorBairro, &c.TomadorCodigoMunicipio, &c.TomadorUF, &c.TomadorCEP,
			&c.ServiceDescription, &c.Amount, &c.ServicoAliquotaISS, &c.ServicoISSRetido,
			&c.ServicoItemListaServico, &c.ServicoCodigoCNAE,
			&c.ServicoCodigoTributacaoMunicipio, &c.ServicoValorDeducoes,
			&c.ServicoCodigoMunicipioPrestacao,
			&c.EmailEnabled, &c.EmailTo, &c.EmailSubject, &c.EmailBodyTemplate,
			&c.CreatedAt, &c.UpdatedAt,
			&s.ID, &s.UserID, &s.GovernmentAPIKeyEncrypted, &s.AutoSend,
			&s.RequireConfirmation, &s.TOTPSecretEncrypted, &s.TOTPVerified,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due config: %w", err)
		}
		list = append(list, &repository.DueConfig{Config: &c, Settings: &s})
	}
	return list, rows.Err()
}

// CountByUser total de configuraciones del usuario.
func (r *InvoiceConfigRepo) CountByUser(userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM invoice_configs WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoice_configs: %w", err)
	}
	return n, nil
}
