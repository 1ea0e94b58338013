package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// Field length limits shared across resource modules.
const (
	ContentMaxLength = 5000
	TitleMaxLength   = 200
	NameMinLength    = 2
	NameMaxLength    = 100
)

// UserID validates that id is a well-formed UUID-shaped identifier.
// Malformed identifiers are rejected before any remote call is made.
func UserID(id string) error {
	if id == "" {
		return apperrors.NewValidationError("user id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("user id is not a valid identifier")
	}
	return nil
}

// ResourceID validates a resource identifier the same way as UserID but with a
// resource-appropriate message.
func ResourceID(id string) error {
	if id == "" {
		return apperrors.NewValidationError("resource id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("resource id is not a valid identifier")
	}
	return nil
}

// RequiredText trims value and validates it is non-empty and within maxLen.
// Returns the trimmed value.
func RequiredText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(field + " must not be empty")
	}
	if maxLen > 0 && len(trimmed) > maxLen {
		return "", apperrors.NewValidationError(field + " is too long")
	}
	return trimmed, nil
}

// OptionalText trims value and validates length when present.
func OptionalText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if maxLen > 0 && len(trimmed) > maxLen {
		return "", apperrors.NewValidationError(field + " is too long")
	}
	return trimmed, nil
}

// YearInRange validates a graduation-style year value.
func YearInRange(field string, year, min, max int) error {
	if year < min || year > max {
		return apperrors.NewValidationError(field + " is out of range")
	}
	return nil
}
