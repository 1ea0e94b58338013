package apperrors

import "errors"

// Common errors
var (
	// Authentication errors
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrOnboardingIncomplete   = errors.New("onboarding incomplete: college domain not set")
	ErrAccountDeactivated     = errors.New("account is deactivated")

	// Authorization errors
	ErrPermissionDenied  = errors.New("permission denied")
	ErrCrossTenantAccess = errors.New("resource belongs to a different college")
	ErrNotConnected      = errors.New("must be connected to perform this action")
	ErrBlocked           = errors.New("messaging is blocked between these users")

	// Validation errors
	ErrValidationFailed  = errors.New("validation failed")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEmptyContent      = errors.New("content must not be empty")

	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Remote store errors
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
)

// Connection errors
var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrDuplicateRequest   = errors.New("a connection request already exists between these users")
	ErrNotReceiver        = errors.New("only the receiver can respond to a connection request")
	ErrSelfConnection     = errors.New("cannot send a connection request to yourself")
)

// CustomError represents application-specific errors with additional context.
// Code and Retryable feed the wire error envelope; the wrapped cause is for
// logging only and is never shown to end users.
type CustomError struct {
	Err       error
	Message   string
	Code      string
	Retryable bool
	Details   map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewResourceNotFoundError creates an error for an absent resource. Tenant-scoped
// reads return the same error for resources filtered out by college domain, so
// existence never leaks across tenants.
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message, Code: "NOT_FOUND"}
}

// NewConflictError creates an error for unique-constraint style conflicts
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message, Code: "CONFLICT"}
}

// NewForbiddenError creates an error for role, ownership or tenant violations
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message, Code: "FORBIDDEN"}
}

// NewValidationError creates an error for malformed input, raised before any
// remote call is made
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message, Code: "VALIDATION_FAILED"}
}

// NewRemoteError wraps a remote-store failure. The user-facing message is generic;
// cause is attached for logging only.
func NewRemoteError(operation string, cause error) error {
	return &CustomError{
		Err:       ErrRemoteUnavailable,
		Message:   "the service is temporarily unavailable, please try again",
		Code:      "REMOTE_UNAVAILABLE",
		Retryable: true,
		Details:   map[string]interface{}{"operation": operation, "cause": cause},
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
