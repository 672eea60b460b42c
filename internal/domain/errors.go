package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("não autenticado")
	ErrForbidden          = errors.New("acesso negado")
	ErrInvalidTOTP        = errors.New("código de verificação inválido")
	ErrIntegrity          = errors.New("registro cifrado ilegível")
	ErrTOTPNotConfigured  = errors.New("segundo fator não configurado")
	ErrInvalidTransition  = errors.New("transição de status não permitida")
	ErrEmissionInFlight   = errors.New("já existe uma emissão em andamento para esta configuração")
	ErrExternalService    = errors.New("falha no serviço externo")
)
