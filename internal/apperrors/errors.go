package apperrors

import "net/http"

// ErrorCode identifies the class of failure for API clients.
type ErrorCode string

const (
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError ErrorCode = "VALIDATION_ERROR"
	ErrorCodeConfigError     ErrorCode = "CONFIG_ERROR"
	ErrorCodeAuthError       ErrorCode = "AUTH_ERROR"
	ErrorCodeProviderError   ErrorCode = "PROVIDER_ERROR"
	ErrorCodeUnsupported     ErrorCode = "UNSUPPORTED_OPERATION"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
)

// ErrorBody is the serialized error payload.
// Format: {"code": "...", "message": "...", "detail": "..."}
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

// AppError is the base error type for HTTP responses.
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	// Detail carries the underlying cause for provider failures so the
	// caller can tell an upstream outage from a local mistake.
	Detail string
}

func (err *AppError) Error() string {
	return err.Message
}

func (err *AppError) ErrorBody() ErrorBody {
	return ErrorBody{
		Code:    err.Code,
		Message: err.Message,
		Detail:  err.Detail,
	}
}

func NewAppError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewValidationError covers missing or malformed request input.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorCodeValidationError, message, http.StatusBadRequest)
}

// NewConfigError covers absent credentials or other required settings.
func NewConfigError(message string) *AppError {
	return NewAppError(ErrorCodeConfigError, message, http.StatusInternalServerError)
}

// NewAuthError covers failed token exchanges and invalid or replayed OAuth state.
func NewAuthError(message string) *AppError {
	return NewAppError(ErrorCodeAuthError, message, http.StatusBadRequest)
}

// NewProviderError covers downstream 5xx and transport failures after
// retries are exhausted. The underlying message travels in Detail.
func NewProviderError(message string, cause error) *AppError {
	err := NewAppError(ErrorCodeProviderError, message, http.StatusBadGateway)
	if cause != nil {
		err.Detail = cause.Error()
	}
	return err
}

// NewUnsupportedError covers operations a provider does not implement.
func NewUnsupportedError(message string) *AppError {
	return NewAppError(ErrorCodeUnsupported, message, http.StatusBadRequest)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorCodeNotFound, message, http.StatusNotFound)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrorCodeInternalError, message, http.StatusInternalServerError)
}

// EnsureAppError converts an arbitrary error into an AppError.
func EnsureAppError(err error) *AppError {
	if err == nil {
		return NewInternalError("Unknown error")
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("Internal server error")
}
