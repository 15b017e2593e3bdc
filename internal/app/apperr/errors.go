package apperr

import (
	"errors"
	"net/http"
)

// Kind categoria de erro de domínio
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindPermission
	KindNotFound
	KindConflict
)

var (
	ErrInvalidCredentials = Auth("Credenciais inválidas")
	ErrTokenMissing       = Auth("Token não fornecido")
	ErrTokenInvalid       = Auth("Token inválido ou expirado")
	ErrForbidden          = Permission("Sem permissão para esta operação")
)

// Error erro com categoria e mensagem segura para o cliente
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func Auth(msg string) error       { return &Error{Kind: KindAuth, Message: msg} }
func Permission(msg string) error { return &Error{Kind: KindPermission, Message: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }

// Internal embrulha um erro inesperado; a mensagem nunca chega ao cliente
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf devolve KindInternal para erros não classificados
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message mensagem do erro classificado, ou vazia
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// HTTPStatus conflitos de unicidade respondem 400, como o resto das validações
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
