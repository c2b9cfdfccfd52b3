package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound              = errors.New("recurso não encontrado")
	ErrUserNotFound          = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists    = errors.New("o e-mail já está cadastrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("não autorizado")
	ErrForbidden             = errors.New("acesso negado")
	ErrConflict              = errors.New("conflito com o estado atual")
	ErrInvalidTransition     = errors.New("transição de status de nota fiscal inválida")
	ErrJustificationTooShort = errors.New("justificativa de cancelamento muito curta")
	ErrConfirmationRequired  = errors.New("mudança para produção exige confirmação explícita")
	ErrGatewayUnavailable    = errors.New("gateway fiscal indisponível")
)
