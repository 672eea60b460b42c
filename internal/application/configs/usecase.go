package configs

import (
	"fmt"
	"time"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain"
	"github.com/despachanota/despachanota-api/internal/domain/entity"
	"github.com/despachanota/despachanota-api/internal/domain/nfse"
	"github.com/despachanota/despachanota-api/internal/domain/repository"
	"github.com/despachanota/despachanota-api/pkg/cipher"
	"github.com/google/uuid"
)

// UseCase CRUD de configuraciones de NFS-e. El documento del tomador entra en
// claro por el DTO, se cifra antes de tocar el repositorio y solo se descifra
// para responderle al dueño. El estado ready/pending_info se recalcula en
// cada escritura.
type UseCase struct {
	configRepo repository.InvoiceConfigRepository
	secrets    *cipher.SecretCipher
}

// NewUseCase construye el caso de uso de configuraciones.
func NewUseCase(configRepo repository.InvoiceConfigRepository, secrets *cipher.SecretCipher) *UseCase {
	return &UseCase{configRepo: configRepo, secrets: secrets}
}

// Create valida, cifra el documento y persiste con el estado derivado.
func (uc *UseCase) Create(userID string, in dto.ConfigRequest) (*dto.ConfigResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	cfg := &entity.InvoiceConfig{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.apply(cfg, in); err != nil {
		return nil, err
	}
	cfg.Status = nfse.DeriveStatus(cfg)

	if err := uc.configRepo.Create(cfg); err != nil {
		return nil, err
	}
	return uc.toResponse(cfg)
}

// Update reemplaza los campos editables y recalcula el estado. Una
// configuración ya enviada (sent) vuelve a ready/pending_info: editarla la
// devuelve al ciclo de emisión.
func (uc *UseCase) Update(id, userID string, in dto.ConfigRequest) (*dto.ConfigResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	cfg, err := uc.configRepo.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}

	if err := uc.apply(cfg, in); err != nil {
		return nil, err
	}
	cfg.Status = nfse.DeriveStatus(cfg)
	cfg.UpdatedAt = time.Now()

	if err := uc.configRepo.Update(cfg); err != nil {
		return nil, err
	}
	return uc.toResponse(cfg)
}

// Get devuelve la configuración del dueño con el documento descifrado.
func (uc *UseCase) Get(id, userID string) (*dto.ConfigResponse, error) {
	cfg, err := uc.configRepo.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(cfg)
}

// List configuraciones del usuario, más recientes primero.
func (uc *UseCase) List(userID string) ([]*dto.ConfigResponse, error) {
	cfgs, err := uc.configRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ConfigResponse, 0, len(cfgs))
	for _, cfg := range cfgs {
		resp, err := uc.toResponse(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Delete elimina la configuración del dueño.
func (uc *UseCase) Delete(id, userID string) error {
	return uc.configRepo.Delete(id, userID)
}

// validate reglas estructurales del request; la completitud para emitir la
// decide DeriveStatus, no esta validación.
func validate(in dto.ConfigRequest) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name é obrigatório", domain.ErrInvalidInput)
	}
	if in.SendDay != nil && (*in.SendDay < 1 || *in.SendDay > 28) {
		return fmt.Errorf("%w: send_day deve estar entre 1 e 28", domain.ErrInvalidInput)
	}
	if in.Amount.IsNegative() || in.AliquotaISS.IsNegative() || in.ValorDeducoes.IsNegative() {
		return fmt.Errorf("%w: valores não podem ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

// apply vuelca el request sobre la entidad, cifrando el documento del tomador.
func (uc *UseCase) apply(cfg *entity.InvoiceConfig, in dto.ConfigRequest) error {
	cfg.Name = in.Name
	cfg.AutoSendEnabled = in.AutoSendEnabled
	cfg.SendDay = in.SendDay

	cfg.PrestadorCNPJ = nfse.CleanDocument(in.PrestadorCNPJ)
	cfg.PrestadorRazaoSocial = in.RazaoSocial
	cfg.PrestadorInscricaoMunicipal = in.InscricaoMunicipal
	cfg.PrestadorCodigoMunicipio = in.CodigoMunicipio
	cfg.NaturezaOperacao = in.NaturezaOperacao
	cfg.OptanteSimplesNacional = in.OptanteSimplesNacional
	cfg.RegimeEspecialTributacao = in.RegimeEspecialTributacao

	cfg.RecipientName = in.RecipientName
	cfg.RecipientEmail = in.RecipientEmail
	cfg.TomadorTelefone = in.TomadorTelefone
	cfg.TomadorLogradouro = in.TomadorLogradouro
	cfg.TomadorNumero = in.TomadorNumero
	cfg.TomadorComplemento = in.TomadorComplemento
	cfg.TomadorBairro = in.TomadorBairro
	cfg.TomadorCodigoMunicipio = in.TomadorCodigoMunicipio
	cfg.TomadorUF = in.TomadorUF
	cfg.TomadorCEP = in.TomadorCEP

	cfg.ServiceDescription = in.ServiceDescription
	cfg.Amount = in.Amount
	cfg.ServicoAliquotaISS = in.AliquotaISS
	cfg.ServicoISSRetido = in.ISSRetido
	cfg.ServicoItemListaServico = in.ItemListaServico
	cfg.ServicoCodigoCNAE = in.CodigoCNAE
	cfg.ServicoCodigoTributacaoMunicipio = in.CodigoTributacaoMunicipio
	cfg.ServicoValorDeducoes = in.ValorDeducoes
	cfg.ServicoCodigoMunicipioPrestacao = in.CodigoMunicipioPrestacao

	cfg.EmailEnabled = in.EmailEnabled
	cfg.EmailTo = in.EmailTo
	cfg.EmailSubject = in.EmailSubject
	cfg.EmailBodyTemplate = in.EmailBodyTemplate

	// El documento nunca se guarda en claro; vacío limpia el campo.
	cfg.RecipientDocumentEncrypted = ""
	if in.RecipientDocument != "" {
		blob, err := uc.secrets.Encrypt(in.RecipientDocument)
		if err != nil {
			return err
		}
		cfg.RecipientDocumentEncrypted = blob
	}
	return nil
}

func (uc *UseCase) toResponse(cfg *entity.InvoiceConfig) (*dto.ConfigResponse, error) {
	doc := ""
	if cfg.RecipientDocumentEncrypted != "" {
		plain, err := uc.secrets.Decrypt(cfg.RecipientDocumentEncrypted)
		if err != nil {
			// Blob alterado o cifrado con otra clave: fatal para este registro.
			return nil, fmt.Errorf("%w: documento do tomador (config %s)", domain.ErrIntegrity, cfg.ID)
		}
		doc = plain
	}
	return &dto.ConfigResponse{
		ID:     cfg.ID,
		Name:   cfg.Name,
		Status: cfg.Status,

		AutoSendEnabled: cfg.AutoSendEnabled,
		SendDay:         cfg.SendDay,

		PrestadorCNPJ:            cfg.PrestadorCNPJ,
		RazaoSocial:              cfg.PrestadorRazaoSocial,
		InscricaoMunicipal:       cfg.PrestadorInscricaoMunicipal,
		CodigoMunicipio:          cfg.PrestadorCodigoMunicipio,
		NaturezaOperacao:         cfg.NaturezaOperacao,
		OptanteSimplesNacional:   cfg.OptanteSimplesNacional,
		RegimeEspecialTributacao: cfg.RegimeEspecialTributacao,

		RecipientName:          cfg.RecipientName,
		RecipientDocument:      doc,
		RecipientEmail:         cfg.RecipientEmail,
		TomadorTelefone:        cfg.TomadorTelefone,
		TomadorLogradouro:      cfg.TomadorLogradouro,
		TomadorNumero:          cfg.TomadorNumero,
		TomadorComplemento:     cfg.TomadorComplemento,
		TomadorBairro:          cfg.TomadorBairro,
		TomadorCodigoMunicipio: cfg.TomadorCodigoMunicipio,
		TomadorUF:              cfg.TomadorUF,
		TomadorCEP:             cfg.TomadorCEP,

		ServiceDescription:        cfg.ServiceDescription,
		Amount:                    cfg.Amount,
		AliquotaISS:               cfg.ServicoAliquotaISS,
		ISSRetido:                 cfg.ServicoISSRetido,
		ItemListaServico:          cfg.ServicoItemListaServico,
		CodigoCNAE:                cfg.ServicoCodigoCNAE,
		CodigoTributacaoMunicipio: cfg.ServicoCodigoTributacaoMunicipio,
		ValorDeducoes:             cfg.ServicoValorDeducoes,
		CodigoMunicipioPrestacao:  cfg.ServicoCodigoMunicipioPrestacao,

		EmailEnabled:      cfg.EmailEnabled,
		EmailTo:           cfg.EmailTo,
		EmailSubject:      cfg.EmailSubject,
		EmailBodyTemplate: cfg.EmailBodyTemplate,

		CreatedAt: cfg.CreatedAt,
		UpdatedAt: cfg.UpdatedAt,
	}, nil
}
