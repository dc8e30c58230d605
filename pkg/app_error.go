package pkg

import (
	"errors"
	"net/http"
)

// ErrorKind is the closed set of error categories exposed to API callers.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation_error"
	KindAuth          ErrorKind = "auth_error"
	KindAuthorization ErrorKind = "authorization_error"
	KindNotFound      ErrorKind = "not_found"
	KindDomain        ErrorKind = "domain_error"
	KindInternal      ErrorKind = "internal_error"
)

// AppError carries a machine-readable kind and code plus the message shown to users.
// Err keeps the original cause for logs; it is never serialized.
type AppError struct {
	Kind       ErrorKind
	Code       string
	Message    string
	Err        error
	HTTPStatus int
}

// HTTPError is the failure half of the action envelope.
type HTTPError struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Code    string    `json:"code"`
	Kind    ErrorKind `json:"kind"`
}

// SuccessEnvelope is the success half of the action envelope.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
		Kind:    e.Kind,
	}
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{
		Kind:       kindFromStatus(httpStatus),
		Code:       code,
		Message:    message,
		Err:        err,
		HTTPStatus: httpStatus,
	}
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return NewDomainError(code, message, nil, httpStatus)
}

func NewValidationError(code, message string) *AppError {
	return NewDomainErrorSimple(code, message, http.StatusBadRequest)
}

func NewAuthError(message string) *AppError {
	return NewDomainErrorSimple("NOT_LOGGED_IN", message, http.StatusUnauthorized)
}

func NewForbiddenError(code, message string) *AppError {
	return NewDomainErrorSimple(code, message, http.StatusForbidden)
}

func NewNotFoundError(code, message string) *AppError {
	return NewDomainErrorSimple(code, message, http.StatusNotFound)
}

func NewInternalError(err error) *AppError {
	return NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

func Success(data any) SuccessEnvelope {
	return SuccessEnvelope{Success: true, Data: data}
}

// AsAppError returns err as an *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindAuthorization
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindDomain
	default:
		return KindInternal
	}
}
