package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
)

var _ repository.InvoiceEmissionRepository = (*InvoiceEmissionRepo)(nil)

// InvoiceEmissionRepo implementación del puerto InvoiceEmissionRepository
// sobre PostgreSQL. El índice único parcial sobre config_id (estados en vuelo)
// es el que garantiza una sola emisión activa por configuración.
type InvoiceEmissionRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceEmissionRepository construye el adaptador de emisiones.
func NewInvoiceEmissionRepository(pool *pgxpool.Pool) *InvoiceEmissionRepo {
	return &InvoiceEmissionRepo{pool: pool}
}

const emissionColumns = `
	id, config_id, user_id, status, government_response, pdf_url,
	email_sent, error_message, emitted_at`

func scanEmission(row pgx.Row) (*entity.InvoiceEmission, error) {
	var e entity.InvoiceEmission
	err := row.Scan(
		&e.ID, &e.ConfigID, &e.UserID, &e.Status, &e.GovernmentResponse,
		&e.PDFURL, &e.EmailSent, &e.ErrorMessage, &e.EmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create inserta la fila de la emisión. Choca con el índice único parcial si
// la configuración ya tiene una emisión en vuelo.
func (r *InvoiceEmissionRepo) Create(em *entity.InvoiceEmission) error {
	query := `
		INSERT INTO invoice_emissions (` + emissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		em.ID, em.ConfigID, em.UserID, em.Status, em.GovernmentResponse,
		em.PDFURL, em.EmailSent, em.ErrorMessage, em.EmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmissionInFlight
		}
		return fmt.Errorf("insert invoice_emission: %w", err)
	}
	return nil
}

func (r *InvoiceEmissionRepo) GetByID(id string) (*entity.InvoiceEmission, error) {
	query := `SELECT ` + emissionColumns + ` FROM invoice_emissions WHERE id = $1`
	em, err := scanEmission(r.pool.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice_emission: %w", err)
	}
	return em, nil
}

func (r *InvoiceEmissionRepo) GetByIDAndUser(id, userID string) (*entity.InvoiceEmission, error) {
	query := `SELECT ` + emissionColumns + ` FROM invoice_emissions
		WHERE id = $1 AND user_id = $2`
	em, err := scanEmission(r.pool.QueryRow(context.Background(), query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get invoice_emission: %w", err)
	}
	return em, nil
}

// FinishSuccess transiciona processing -> success guardando la respuesta cruda
// del API y la URL del PDF. Devuelve false si la fila ya no estaba en
// processing (cancelación concurrente o doble finalización).
func (r *InvoiceEmissionRepo) FinishSuccess(id string, governmentResponse []byte, pdfURL string) (bool, error) {
	query := `
		UPDATE invoice_emissions
		SET status = $2, government_response = $3, pdf_url = $4, error_message = ''
		WHERE id = $1 AND status = $5`
	tag, err := r.pool.Exec(context.Background(), query,
		id, entity.EmissionStatusSuccess, governmentResponse, pdfURL,
		entity.EmissionStatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("finish invoice_emission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FinishError transiciona processing -> error con el mensaje. Mismo guard que
// FinishSuccess.
func (r *InvoiceEmissionRepo) FinishError(id, message string) (bool, error) {
	query := `
		UPDATE invoice_emissions
		SET status = $2, error_message = $3
		WHERE id = $1 AND status = $4`
	tag, err := r.pool.Exec(context.Background(), query,
		id, entity.EmissionStatusError, message, entity.EmissionStatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("fail invoice_emission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InvoiceEmissionRepo) MarkEmailSent(id string) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE invoice_emissions SET email_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

// Cancel transiciona a cancelled desde los estados cancelables, acotado al
// dueño. success y cancelled quedan intactos.
func (r *InvoiceEmissionRepo) Cancel(id, userID string) (bool, error) {
	query := `
		UPDATE invoice_emissions
		SET status = $3
		WHERE id = $1 AND user_id = $2
		  AND status IN ($4, $5, $6)`
	tag, err := r.pool.Exec(context.Background(), query,
		id, userID, entity.EmissionStatusCancelled,
		entity.EmissionStatusPending, entity.EmissionStatusProcessing,
		entity.EmissionStatusError,
	)
	if err != nil {
		return false, fmt.Errorf("cancel invoice_emission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListInFlightByUser emisiones no terminales (y errores recientes) del usuario
// con el nombre de su configuración, más recientes primero.
func (r *InvoiceEmissionRepo) ListInFlightByUser(userID string, limit int) ([]*repository.PipelineItem, error) {
	query := `
		SELECT ` + prefixColumns("e", emissionColumns) + `, c.name
		FROM invoice_emissions e
		JOIN invoice_configs c ON c.id = e.config_id
		WHERE e.user_id = $1
		  AND e.status IN ($2, $3, $4, $5)
		ORDER BY e.emitted_at DESC
		LIMIT $6`
	rows, err := r.pool.Query(context.Background(), query, userID,
		entity.EmissionStatusPending, entity.EmissionStatusProcessing,
		entity.EmissionStatusAwaitingConf, entity.EmissionStatusError,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pipeline: %w", err)
	}
	defer rows.Close()

	var list []*repository.PipelineItem
	for rows.Next() {
		var e entity.InvoiceEmission
		var name string
		err := rows.Scan(
			&e.ID, &e.ConfigID, &e.UserID, &e.Status, &e.GovernmentResponse,
			&e.PDFURL, &e.EmailSent, &e.ErrorMessage, &e.EmittedAt,
			&name,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pipeline item: %w", err)
		}
		list = append(list, &repository.PipelineItem{Emission: &e, ConfigName: name})
	}
	return list, rows.Err()
}

func (r *InvoiceEmissionRepo) CountByUserStatus(userID string, statuses []string) (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM invoice_emissions WHERE user_id = $1 AND status = ANY($2)`,
		userID, statuses).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count emissions by status: %w", err)
	}
	return n, nil
}

func (r *InvoiceEmissionRepo) CountSuccessSince(userID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM invoice_emissions
		 WHERE user_id = $1 AND status = $2 AND emitted_at >= $3`,
		userID, entity.EmissionStatusSuccess, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count success emissions: %w", err)
	}
	return n, nil
}
