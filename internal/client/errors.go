// ABOUTME: Typed backend error returned by every gateway call
// ABOUTME: Classifies failures by kind so callers branch without string matching

package client

import (
	"errors"
	"net/http"
)

// Kind categorizes a gateway failure
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
	KindServerError
	KindCanceled
	KindTimeout
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindServerError:
		return "server_error"
	case KindCanceled:
		return "canceled"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// User-facing messages produced by the gateway
const (
	MsgCannotConnect  = "Não foi possível conectar ao servidor."
	MsgGeneric        = "Erro ao comunicar com o servidor."
	MsgSessionExpired = "Sessão expirada. Faça login novamente."
	MsgCanceled       = "Requisição cancelada."
	MsgTimeout        = "O servidor demorou demais para responder."
)

// Error is a classified gateway failure
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status, or 0 when no response was received
	Status int
	// Silent marks a repeated 401 whose notification was already shown
	Silent bool
	cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of a gateway error, or KindUnknown for other errors
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsSilent reports whether err is a de-duplicated 401 that needs no toast
func IsSilent(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Silent
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}
