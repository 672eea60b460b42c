package emission

import (
	"context"
	"fmt"
	"time"

	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/nfse"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/internal/infrastructure/email"
	"github.com/despachanota/despachanota-api/internal/infrastructure/focusnfe"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/despachanota/despachanota-api/pkg/logger"
	"github.com/google/uuid"
)

// processTimeout presupuesto del ciclo completo de una emisión desacoplada
// (emitir + descargar PDF + correo).
const processTimeout = 90 * time.Second

// Orchestrator orquesta el ciclo completo de emisión de una NFS-e:
//
//	configuración → fila processing → payload → API fiscal → success/error → correo
//
// El camino asíncrono (Submit) corre en goroutine independiente con su propio
// context.Background() + timeout, desacoplado del ciclo HTTP; el camino
// síncrono (SubmitSync) lo usa el sweep diario. Ambos escriben el estado
// terminal a través de FinishSuccess/FinishError, que solo afectan filas aún
// en processing: una finalización tardía nunca pisa una cancelación.
type Orchestrator struct {
	configRepo   repository.InvoiceConfigRepository
	settingsRepo repository.UserSettingsRepository
	emissionRepo repository.InvoiceEmissionRepository
	secrets      *cipher.SecretCipher
	gateways     GatewayFactory
	mailer       EmailSender
	log          *logger.Logger
}

// NewOrchestrator construye el orquestador con todas sus dependencias.
// mailer puede ser nil: en ese caso el paso de correo se omite.
func NewOrchestrator(
	configRepo repository.InvoiceConfigRepository,
	settingsRepo repository.UserSettingsRepository,
	emissionRepo repository.InvoiceEmissionRepository,
	secrets *cipher.SecretCipher,
	gateways GatewayFactory,
	mailer EmailSender,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		configRepo:   configRepo,
		settingsRepo: settingsRepo,
		emissionRepo: emissionRepo,
		secrets:      secrets,
		gateways:     gateways,
		mailer:       mailer,
		log:          log,
	}
}

// Submit dispara una emisión sin bloquear al llamador: valida, crea la fila
// en processing y devuelve de inmediato; el estado terminal lo escribe una
// goroutine independiente.
func (o *Orchestrator) Submit(configID, userID string) (*entity.InvoiceEmission, error) {
	cfg, token, em, err := o.prepare(configID, userID)
	if err != nil {
		return nil, err
	}
	go o.process(em, cfg, token)
	return em, nil
}

// SubmitSync emite y espera el resultado (camino del sweep diario).
// Devuelve la fila de emisión en su estado terminal.
func (o *Orchestrator) SubmitSync(ctx context.Context, configID, userID string) (*entity.InvoiceEmission, error) {
	cfg, token, em, err := o.prepare(configID, userID)
	if err != nil {
		return nil, err
	}
	o.processWithContext(ctx, em, cfg, token)
	return o.emissionRepo.GetByID(em.ID)
}

// prepare valida configuración y credenciales y crea la fila de emisión en
// processing. Todo lo que pueda fallar por datos del usuario falla aquí,
// antes de crear la fila.
func (o *Orchestrator) prepare(configID, userID string) (*entity.InvoiceConfig, string, *entity.InvoiceEmission, error) {
	cfg, err := o.configRepo.GetByID(configID, userID)
	if err != nil {
		return nil, "", nil, err
	}
	if cfg == nil {
		return nil, "", nil, domain.ErrNotFound
	}

	settings, err := o.settingsRepo.GetByUserID(userID)
	if err != nil {
		return nil, "", nil, err
	}
	if settings == nil || settings.GovernmentAPIKeyEncrypted == "" {
		return nil, "", nil, fmt.Errorf("%w: chave de API do governo não configurada", domain.ErrInvalidInput)
	}
	token, err := o.secrets.Decrypt(settings.GovernmentAPIKeyEncrypted)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: chave de API do governo", domain.ErrIntegrity)
	}

	em := &entity.InvoiceEmission{
		ID:        uuid.New().String(),
		ConfigID:  cfg.ID,
		UserID:    userID,
		Status:    entity.EmissionStatusProcessing,
		EmittedAt: time.Now(),
	}
	if err := o.emissionRepo.Create(em); err != nil {
		return nil, "", nil, err
	}
	return cfg, token, em, nil
}

// process es el núcleo desacoplado: corre con su propio contexto y siempre
// intenta dejar la fila en un estado terminal.
func (o *Orchestrator) process(em *entity.InvoiceEmission, cfg *entity.InvoiceConfig, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()
	o.processWithContext(ctx, em, cfg, token)
}

func (o *Orchestrator) processWithContext(ctx context.Context, em *entity.InvoiceEmission, cfg *entity.InvoiceConfig, token string) {
	// markError deja la emisión en error con mensaje legible. Si la fila ya
	// no está en processing (cancelada entre medio) no escribe nada.
	markError := func(step string, err error) {
		updated, uerr := o.emissionRepo.FinishError(em.ID, err.Error())
		if uerr != nil {
			o.log.Error().Str("emission_id", em.ID).Err(uerr).Msg("no se pudo persistir el estado error")
		}
		o.log.Error().
			Str("emission_id", em.ID).
			Str("config_id", cfg.ID).
			Str("step", step).
			Bool("persisted", updated).
			Err(err).
			Msg("emisión fallida")
	}

	recipientDoc := ""
	if cfg.RecipientDocumentEncrypted != "" {
		var err error
		recipientDoc, err = o.secrets.Decrypt(cfg.RecipientDocumentEncrypted)
		if err != nil {
			markError("decrypt-documento", err)
			return
		}
	}

	ref := nfse.EmissionRef(em.ID)
	payload := focusnfe.BuildPayload(cfg, nfse.CleanDocument(recipientDoc), time.Now())
	gw := o.gateways(token)

	resp, err := gw.Emit(ctx, ref, payload)
	if err != nil {
		markError("emit", err)
		return
	}

	updated, err := o.emissionRepo.FinishSuccess(em.ID, resp.Raw, resp.PDFLocation())
	if err != nil {
		o.log.Error().Str("emission_id", em.ID).Err(err).Msg("no se pudo persistir el estado success")
		return
	}
	if !updated {
		// Cancelada mientras el API respondía: no propagar sent ni correo.
		o.log.Warn().Str("emission_id", em.ID).Msg("emisión terminada fuera de processing, resultado descartado")
		return
	}

	if err := o.configRepo.SetStatus(cfg.ID, entity.ConfigStatusSent); err != nil {
		o.log.Error().Str("config_id", cfg.ID).Err(err).Msg("no se pudo marcar la configuración como sent")
	}

	o.sendEmail(ctx, gw, em, cfg, ref)

	o.log.Info().
		Str("emission_id", em.ID).
		Str("config_id", cfg.ID).
		Str("ref", ref).
		Msg("NFS-e emitida")
}

// sendEmail paso de correo post-éxito. Best-effort: cualquier fallo solo se
// loguea, jamás revierte el success fiscal.
func (o *Orchestrator) sendEmail(ctx context.Context, gw Gateway, em *entity.InvoiceEmission, cfg *entity.InvoiceConfig, ref string) {
	if o.mailer == nil || !cfg.EmailEnabled || cfg.EmailTo == "" {
		return
	}

	pdf, err := gw.GetDocument(ctx, ref)
	if err != nil {
		o.log.Error().Str("emission_id", em.ID).Err(err).Msg("correo omitido: no se pudo descargar el PDF")
		return
	}

	subject := cfg.EmailSubject
	if subject == "" {
		subject = "Nota Fiscal"
	}
	body := cfg.EmailBodyTemplate
	if body == "" {
		body = "Segue em anexo a nota fiscal."
	}

	err = o.mailer.SendInvoice(ctx, email.InvoiceMessage{
		To:           cfg.EmailTo,
		Subject:      subject,
		BodyTemplate: body,
		Variables: map[string]string{
			"valor":        cfg.Amount.StringFixed(2),
			"destinatario": cfg.RecipientName,
		},
		PDF: pdf,
		Ref: ref,
	})
	if err != nil {
		o.log.Error().Str("emission_id", em.ID).Err(err).Msg("fallo enviando el correo de la nota")
		return
	}

	if err := o.emissionRepo.MarkEmailSent(em.ID); err != nil {
		o.log.Error().Str("emission_id", em.ID).Err(err).Msg("no se pudo marcar email_sent")
	}
}

// Cancel transiciona una emisión a cancelled. Solo el dueño puede cancelar y
// solo desde pending, processing o error. No aborta una llamada ya enviada al
// API fiscal: solo reescribe el estado almacenado.
func (o *Orchestrator) Cancel(emissionID, userID string) error {
	cancelled, err := o.emissionRepo.Cancel(emissionID, userID)
	if err != nil {
		return err
	}
	if cancelled {
		return nil
	}
	// 0 filas afectadas: distinguir inexistente/ajena de transición inválida.
	em, err := o.emissionRepo.GetByIDAndUser(emissionID, userID)
	if err != nil {
		return err
	}
	if em == nil {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}
