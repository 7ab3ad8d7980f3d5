package services

// Error category codes, stable across the API. Handlers map them to HTTP
// statuses and serialize {error, code} bodies, services never see statuses.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError is a service-level failure with a stable category and a message
// safe to show to clients.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewAuthError(message string) *AppError {
	return &AppError{Code: CodeAuthentication, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message}
}

// Fixed-message failures shared across flows. The wording stays generic
// where detail would aid account or token enumeration.
var (
	ErrInvalidCredentials  = NewAuthError("Invalid credentials")
	ErrEmailTaken          = NewConflictError("Email already exists")
	ErrInvalidRefreshToken = NewAuthError("Invalid refresh token")
	ErrRefreshTokenExpired = NewAuthError("Refresh token expired")
)
