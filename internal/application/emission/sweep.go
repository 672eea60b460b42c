package emission

import (
	"context"
	"time"

	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/pkg/logger"
)

// SweepReport resultado de una pasada del barrido diario.
type SweepReport struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// Sweep barrido diario de emisión automática: emite todas las configuraciones
// programadas para el día de hoy. Corre una vez por invocación (cron externo
// o cmd/sweep).
type Sweep struct {
	configRepo   repository.InvoiceConfigRepository
	orchestrator *Orchestrator
	log          *logger.Logger
	now          func() time.Time // inyectable en tests
}

// NewSweep construye el barrido.
func NewSweep(configRepo repository.InvoiceConfigRepository, orchestrator *Orchestrator, log *logger.Logger) *Sweep {
	return &Sweep{
		configRepo:   configRepo,
		orchestrator: orchestrator,
		log:          log,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj del barrido. Útil en tests para fijar el día
// del mes contra el que se compara send_day.
func (s *Sweep) WithClock(now func() time.Time) *Sweep {
	s.now = now
	return s
}

// Run procesa secuencialmente las configuraciones vencidas hoy: auto-envío
// habilitado, send_day = día actual, estado ready, y dueño con API key
// configurada y auto_send global activo. El error de un ítem se cuenta y se
// sigue con el resto; una configuración rota nunca aborta el barrido.
func (s *Sweep) Run(ctx context.Context) (*SweepReport, error) {
	day := s.now().Day()

	due, err := s.configRepo.ListDueToday(day)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{Total: len(due)}
	if len(due) == 0 {
		s.log.Info().Int("day", day).Msg("nenhuma nota para emitir hoje")
		return report, nil
	}

	for _, item := range due {
		cfg := item.Config

		em, err := s.orchestrator.SubmitSync(ctx, cfg.ID, cfg.UserID)
		if err != nil {
			report.Errors++
			s.log.Error().Str("config_id", cfg.ID).Err(err).Msg("barrido: emisión no disparada")
			continue
		}
		if em != nil && em.Status == entity.EmissionStatusError {
			report.Errors++
			s.log.Error().
				Str("config_id", cfg.ID).
				Str("emission_id", em.ID).
				Str("detail", em.ErrorMessage).
				Msg("barrido: emisión terminó en error")
			continue
		}

		report.Processed++
	}

	s.log.Info().
		Int("processed", report.Processed).
		Int("errors", report.Errors).
		Int("total", report.Total).
		Msg("barrido diario completado")
	return report, nil
}
