package errors

import (
	"errors"
	"net/http"
)

// Validation errors: no state touched, caller retries with corrected input.
var (
	ErrInvalidUser      = errors.New("invalid user")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrAmountOutOfRange = errors.New("amount out of range")
	ErrDurationTooLong  = errors.New("duration too long")
	ErrInvalidInput     = errors.New("invalid input")
)

// Precondition errors: no partial mutation, caller must resolve the
// underlying condition before retrying.
var (
	ErrInvalidState           = errors.New("invalid loan state for transition")
	ErrGraceNotExpired        = errors.New("grace period not expired")
	ErrUserBlacklisted        = errors.New("user is blacklisted")
	ErrRiskTooHigh            = errors.New("risk level too high")
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrReentrantCall          = errors.New("reentrant ledger operation")
)

// Authorization and integrity errors
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidVerificationKey = errors.New("invalid verification key")
)

// AppError represents an application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "application error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrLoanNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// StatusOf maps a domain error to the HTTP status it surfaces as.
// Unknown errors map to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidUser),
		errors.Is(err, ErrAmountOutOfRange),
		errors.Is(err, ErrDurationTooLong),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrGraceNotExpired),
		errors.Is(err, ErrUserBlacklisted),
		errors.Is(err, ErrRiskTooHigh),
		errors.Is(err, ErrInsufficientCollateral),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidVerificationKey):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
