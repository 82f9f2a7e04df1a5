package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodeInvalidEstado    ErrorCode = "INVALID_ESTADO"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeAccessDenied       ErrorCode = "ACCESS_DENIED"

	ErrCodePlanNotFound        ErrorCode = "PLAN_NOT_FOUND"
	ErrCodeSeguimientoNotFound ErrorCode = "SEGUIMIENTO_NOT_FOUND"
	ErrCodeReporteNotFound     ErrorCode = "REPORTE_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"

	ErrCodeEmailExists    ErrorCode = "EMAIL_EXISTS"
	ErrCodeLastAdmin      ErrorCode = "LAST_ADMIN"
	ErrCodeSelfDelete     ErrorCode = "SELF_DELETE"
	ErrCodeSelfDemote     ErrorCode = "SELF_DEMOTE"
	ErrCodePermNotEntidad ErrorCode = "PERMISSION_ONLY_FOR_ENTIDAD"
)

// AppError is the single error shape crossing service boundaries. The
// persistence layer never leaks raw errors past a repository; they are
// wrapped here with a stable code and status.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	// ErrInvalidCredentials is deliberately the same for unknown email and
	// wrong password so callers cannot enumerate registered emails. The
	// token endpoint surfaces it as a generic 400.
	ErrInvalidCredentials = &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       ErrCodeInvalidCredentials,
		Message:    "Credenciales inválidas",
		StatusCode: http.StatusBadRequest,
	}

	ErrUnauthenticated = NewUnauthorizedError("Token inválido", ErrCodeUnauthenticated)
	ErrForbidden       = NewForbiddenError("Sin permisos", ErrCodeAccessDenied)

	ErrPlanNotFound        = NewNotFoundError("Plan no encontrado", ErrCodePlanNotFound)
	ErrSeguimientoNotFound = NewNotFoundError("Seguimiento no encontrado", ErrCodeSeguimientoNotFound)
	ErrReporteNotFound     = NewNotFoundError("No report found", ErrCodeReporteNotFound)
	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrEmailExists    = NewConflictError("Email already exists", ErrCodeEmailExists)
	ErrLastAdmin      = NewConflictError("Cannot remove the last admin", ErrCodeLastAdmin)
	ErrSelfDelete     = NewConflictError("You cannot delete your own account", ErrCodeSelfDelete)
	ErrSelfDemote     = NewConflictError("You cannot remove your own admin access", ErrCodeSelfDemote)
	ErrPermNotEntidad = NewValidationError("Solo aplica para usuarios con rol 'entidad'", ErrCodePermNotEntidad)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
