package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gotransfer/internal/domain"
)

// AppError é a interface central para todos os erros customizados do serviço.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Genéricos ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., OCC, recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa ausência ou invalidez do token do operador.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autorização.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Erros do protocolo de recebimento de guias ---

// MalformedTokenError indica que o texto lido do QR code não tem a estrutura esperada.
type MalformedTokenError struct {
	Msg string
}

func (e *MalformedTokenError) Error() string    { return fmt.Sprintf("QR code inválido: %s", e.Msg) }
func (e *MalformedTokenError) Category() string { return "MALFORMED_TOKEN" }
func (e *MalformedTokenError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *MalformedTokenError) Unwrap() error    { return nil }

// NewMalformedTokenError cria um erro de token malformado.
func NewMalformedTokenError(msg string) AppError {
	return &MalformedTokenError{Msg: msg}
}

// UnsupportedTokenTypeError indica um QR code válido que não é de guia de transferência.
type UnsupportedTokenTypeError struct {
	Type string
}

func (e *UnsupportedTokenTypeError) Error() string {
	return fmt.Sprintf("QR code do tipo '%s' não é uma guia de transferência", e.Type)
}
func (e *UnsupportedTokenTypeError) Category() string { return "UNSUPPORTED_TOKEN_TYPE" }
func (e *UnsupportedTokenTypeError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *UnsupportedTokenTypeError) Unwrap() error    { return nil }

// NewUnsupportedTokenTypeError cria um erro de tipo de token não suportado.
func NewUnsupportedTokenTypeError(tokenType string) AppError {
	return &UnsupportedTokenTypeError{Type: tokenType}
}

// SlipNotFoundError indica que a referência não corresponde a nenhuma guia.
type SlipNotFoundError struct {
	SlipID string
}

func (e *SlipNotFoundError) Error() string {
	return fmt.Sprintf("Guia de transferência %s não encontrada", e.SlipID)
}
func (e *SlipNotFoundError) Category() string { return "SLIP_NOT_FOUND" }
func (e *SlipNotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *SlipNotFoundError) Unwrap() error    { return nil }

// NewSlipNotFoundError cria um erro de guia inexistente.
func NewSlipNotFoundError(slipID string) AppError {
	return &SlipNotFoundError{SlipID: slipID}
}

// InvalidStateError indica que a guia não está mais em trânsito.
// É o resultado esperado de um recebimento repetido e deve ser exibido como aviso.
type InvalidStateError struct {
	SlipID  string
	Current domain.SlipStatus
}

func (e *InvalidStateError) Error() string {
	switch e.Current {
	case domain.SlipCompleted:
		return fmt.Sprintf("A guia %s já foi recebida", e.SlipID)
	case domain.SlipCancelled:
		return fmt.Sprintf("A guia %s foi cancelada", e.SlipID)
	default:
		return fmt.Sprintf("A guia %s está no status '%s' e não pode ser recebida", e.SlipID, e.Current)
	}
}
func (e *InvalidStateError) Category() string { return "INVALID_STATE" }
func (e *InvalidStateError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InvalidStateError) Unwrap() error    { return nil }

// NewInvalidStateError cria um erro de transição inválida.
func NewInvalidStateError(slipID string, current domain.SlipStatus) AppError {
	return &InvalidStateError{SlipID: slipID, Current: current}
}

// DeniedCredentialError indica PIN inválido para a filial de destino.
type DeniedCredentialError struct{}

func (e *DeniedCredentialError) Error() string    { return "PIN inválido para a filial de destino" }
func (e *DeniedCredentialError) Category() string { return "DENIED_CREDENTIAL" }
func (e *DeniedCredentialError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *DeniedCredentialError) Unwrap() error    { return nil }

// NewDeniedCredentialError cria um erro de credencial negada.
func NewDeniedCredentialError() AppError {
	return &DeniedCredentialError{}
}

// CredentialLockedError indica que a guia está bloqueada por excesso de PINs incorretos.
type CredentialLockedError struct {
	SlipID string
}

func (e *CredentialLockedError) Error() string {
	return fmt.Sprintf("Muitas tentativas de PIN para a guia %s. Aguarde e tente novamente", e.SlipID)
}
func (e *CredentialLockedError) Category() string { return "CREDENTIAL_LOCKED" }
func (e *CredentialLockedError) HTTPStatus() int  { return http.StatusTooManyRequests } // 429
func (e *CredentialLockedError) Unwrap() error    { return nil }

// NewCredentialLockedError cria um erro de bloqueio de PIN.
func NewCredentialLockedError(slipID string) AppError {
	return &CredentialLockedError{SlipID: slipID}
}

// LedgerUnavailableError indica que o livro de estoque não respondeu; nada foi confirmado.
type LedgerUnavailableError struct {
	Err error
}

func (e *LedgerUnavailableError) Error() string {
	return "Livro de estoque indisponível. O recebimento não foi registrado; tente novamente"
}
func (e *LedgerUnavailableError) Category() string { return "LEDGER_UNAVAILABLE" }
func (e *LedgerUnavailableError) HTTPStatus() int  { return http.StatusServiceUnavailable } // 503
func (e *LedgerUnavailableError) Unwrap() error    { return e.Err }

// NewLedgerUnavailableError cria um erro de livro de estoque indisponível.
func NewLedgerUnavailableError(err error) AppError {
	return &LedgerUnavailableError{Err: err}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helpers ---

// AsAppError procura um AppError na cadeia de erros.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// ToErrorResponse monta o corpo padronizado de erro, marcando InvalidState como informativo.
func ToErrorResponse(err error) domain.ErrorResponse {
	status, category, message := MapToHTTPStatus(err)
	resp := domain.ErrorResponse{Code: status, Category: category, Message: message}

	var stateErr *InvalidStateError
	if stderrors.As(err, &stateErr) {
		resp.Informational = true
		resp.CurrentStatus = stateErr.Current
	}
	return resp
}
