package dto

// ErrorCode represents standardized wire error codes
type ErrorCode string

// Wire error codes. Validation and authorization messages surface verbatim;
// remote-store causes never reach the wire.
const (
	ErrorCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrorCodeOnboardingIncomplete   ErrorCode = "ONBOARDING_INCOMPLETE"
	ErrorCodeForbidden              ErrorCode = "FORBIDDEN"
	ErrorCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeNotFound               ErrorCode = "NOT_FOUND"
	ErrorCodeConflict               ErrorCode = "CONFLICT"
	ErrorCodeRemoteUnavailable      ErrorCode = "REMOTE_UNAVAILABLE"
)

// ErrorDetail is the wire error envelope
type ErrorDetail struct {
	Code      ErrorCode   `json:"code" example:"FORBIDDEN"`
	Message   string      `json:"message" example:"must be connected to message this user"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message}
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithRetryable marks the error as retryable
func (e *ErrorDetail) WithRetryable() *ErrorDetail {
	e.Retryable = true
	return e
}
