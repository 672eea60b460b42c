package emission_test

import (
	"context"
	"sync"
	"time"

	"github.com/despachanota/despachanota-api/internal/application/emission"
	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/internal/infrastructure/email"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los repositorios. Implementan la misma semántica que
// los adaptadores de postgres (guards de estado incluidos) para que el
// orquestador se pruebe contra el contrato real de los puertos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[string]*entity.InvoiceConfig
	due     []*repository.DueConfig
	dueDay  int // si es >0, due solo vence ese día del mes
	dueErr  error
	lastDay int // último día consultado vía ListDueToday
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: map[string]*entity.InvoiceConfig{}}
}

func (r *fakeConfigRepo) Create(cfg *entity.InvoiceConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *fakeConfigRepo) GetByID(id, userID string) (*entity.InvoiceConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok || cfg.UserID != userID {
		return nil, nil
	}
	clone := *cfg
	return &clone, nil
}

func (r *fakeConfigRepo) ListByUser(userID string) ([]*entity.InvoiceConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InvoiceConfig
	for _, cfg := range r.configs {
		if cfg.UserID == userID {
			clone := *cfg
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) Update(cfg *entity.InvoiceConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *fakeConfigRepo) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok || cfg.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.configs, id)
	return nil
}

func (r *fakeConfigRepo) SetStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.configs[id]; ok {
		cfg.Status = status
	}
	return nil
}

func (r *fakeConfigRepo) ListDueToday(day int) ([]*repository.DueConfig, error) {
	r.mu.Lock()
	r.lastDay = day
	r.mu.Unlock()
	if r.dueErr != nil {
		return nil, r.dueErr
	}
	if r.dueDay != 0 && day != r.dueDay {
		return nil, nil
	}
	return r.due, nil
}

func (r *fakeConfigRepo) CountByUser(userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, cfg := range r.configs {
		if cfg.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeConfigRepo) statusOf(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.configs[id]; ok {
		return cfg.Status
	}
	return ""
}

type fakeSettingsRepo struct {
	settings map[string]*entity.UserSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]*entity.UserSettings{}}
}

func (r *fakeSettingsRepo) Create(s *entity.UserSettings) error {
	r.settings[s.UserID] = s
	return nil
}

func (r *fakeSettingsRepo) GetByUserID(userID string) (*entity.UserSettings, error) {
	return r.settings[userID], nil
}

func (r *fakeSettingsRepo) Update(userID string, in repository.UserSettingsUpdate) (*entity.UserSettings, error) {
	s, ok := r.settings[userID]
	if !ok {
		s = &entity.UserSettings{UserID: userID}
		r.settings[userID] = s
	}
	if in.GovernmentAPIKeyEncrypted != nil {
		s.GovernmentAPIKeyEncrypted = *in.GovernmentAPIKeyEncrypted
	}
	if in.AutoSend != nil {
		s.AutoSend = *in.AutoSend
	}
	if in.RequireConfirmation != nil {
		s.RequireConfirmation = *in.RequireConfirmation
	}
	return s, nil
}

func (r *fakeSettingsRepo) SetTOTPSecret(userID, secretEncrypted string) error {
	s, ok := r.settings[userID]
	if !ok {
		return domain.ErrNotFound
	}
	s.TOTPSecretEncrypted = secretEncrypted
	s.TOTPVerified = false
	return nil
}

func (r *fakeSettingsRepo) MarkTOTPVerified(userID string) error {
	s, ok := r.settings[userID]
	if !ok {
		return domain.ErrNotFound
	}
	s.TOTPVerified = true
	return nil
}

type fakeEmissionRepo struct {
	mu        sync.Mutex
	emissions map[string]*entity.InvoiceEmission
	createErr error
}

func newFakeEmissionRepo() *fakeEmissionRepo {
	return &fakeEmissionRepo{emissions: map[string]*entity.InvoiceEmission{}}
}

func (r *fakeEmissionRepo) Create(em *entity.InvoiceEmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	// Índice único parcial: una sola emisión en vuelo por configuración.
	for _, other := range r.emissions {
		if other.ConfigID == em.ConfigID &&
			(other.Status == entity.EmissionStatusPending || other.Status == entity.EmissionStatusProcessing) {
			return domain.ErrEmissionInFlight
		}
	}
	clone := *em
	r.emissions[em.ID] = &clone
	return nil
}

func (r *fakeEmissionRepo) GetByID(id string) (*entity.InvoiceEmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok {
		return nil, nil
	}
	clone := *em
	return &clone, nil
}

func (r *fakeEmissionRepo) GetByIDAndUser(id, userID string) (*entity.InvoiceEmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok || em.UserID != userID {
		return nil, nil
	}
	clone := *em
	return &clone, nil
}

func (r *fakeEmissionRepo) FinishSuccess(id string, governmentResponse []byte, pdfURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok || em.Status != entity.EmissionStatusProcessing {
		return false, nil
	}
	em.Status = entity.EmissionStatusSuccess
	em.GovernmentResponse = governmentResponse
	em.PDFURL = pdfURL
	return true, nil
}

func (r *fakeEmissionRepo) FinishError(id, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok || em.Status != entity.EmissionStatusProcessing {
		return false, nil
	}
	em.Status = entity.EmissionStatusError
	em.ErrorMessage = message
	return true, nil
}

func (r *fakeEmissionRepo) MarkEmailSent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok {
		return domain.ErrNotFound
	}
	em.EmailSent = true
	return nil
}

func (r *fakeEmissionRepo) Cancel(id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	em, ok := r.emissions[id]
	if !ok || em.UserID != userID {
		return false, nil
	}
	switch em.Status {
	case entity.EmissionStatusPending, entity.EmissionStatusProcessing, entity.EmissionStatusError:
		em.Status = entity.EmissionStatusCancelled
		return true, nil
	}
	return false, nil
}

// cancelAllOf cancela todas las emisiones cancelables del usuario (tests de carreras).
func (r *fakeEmissionRepo) cancelAllOf(userID string) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.emissions))
	for id := range r.emissions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		_, _ = r.Cancel(id, userID)
	}
}

func (r *fakeEmissionRepo) ListInFlightByUser(userID string, limit int) ([]*repository.PipelineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.PipelineItem
	for _, em := range r.emissions {
		if em.UserID != userID {
			continue
		}
		switch em.Status {
		case entity.EmissionStatusSuccess, entity.EmissionStatusCancelled:
			continue
		}
		clone := *em
		out = append(out, &repository.PipelineItem{Emission: &clone})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeEmissionRepo) CountByUserStatus(userID string, statuses []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, em := range r.emissions {
		if em.UserID != userID {
			continue
		}
		for _, s := range statuses {
			if em.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeEmissionRepo) CountSuccessSince(userID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, em := range r.emissions {
		if em.UserID == userID && em.Status == entity.EmissionStatusSuccess && !em.EmittedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles del gateway fiscal y del correo
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu          sync.Mutex
	emitResp    *focusnfe.EmissionResponse
	emitErr     error
	pdf         []byte
	pdfErr      error
	lastRef     string
	lastPayload *focusnfe.Payload
	lastToken   string
	emitCalls   int
	onEmit      func(ref string) // hook para simular carreras
}

func (g *fakeGateway) Emit(ctx context.Context, ref string, payload *focusnfe.Payload) (*focusnfe.EmissionResponse, error) {
	g.mu.Lock()
	g.emitCalls++
	g.lastRef = ref
	g.lastPayload = payload
	hook := g.onEmit
	g.mu.Unlock()

	if hook != nil {
		hook(ref)
	}
	if g.emitErr != nil {
		return nil, g.emitErr
	}
	return g.emitResp, nil
}

func (g *fakeGateway) GetDocument(ctx context.Context, ref string) ([]byte, error) {
	if g.pdfErr != nil {
		return nil, g.pdfErr
	}
	return g.pdf, nil
}

func (g *fakeGateway) factory() emission.GatewayFactory {
	return func(token string) emission.Gateway {
		g.mu.Lock()
		g.lastToken = token
		g.mu.Unlock()
		return g
	}
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []email.InvoiceMessage
	sendErr error
}

func (m *fakeMailer) SendInvoice(ctx context.Context, msg email.InvoiceMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
