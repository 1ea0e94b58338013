package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/logger"
)

// ErrorHandlerMiddleware translates errors attached to the gin context into
// the wire error envelope. Handlers attach errors with c.Error and return;
// this middleware owns the status mapping so every endpoint reports failures
// the same way.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status, detail := translate(err)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		}
		c.JSON(status, dto.NewErrorResponse(detail))
	}
}

// translate maps an error to an HTTP status and wire envelope. Remote-store
// causes are never surfaced; validation and authorization messages are.
func translate(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	switch {
	case apperrors.Is(err, apperrors.ErrAuthenticationRequired, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeAuthenticationRequired, message)

	case apperrors.Is(err, apperrors.ErrOnboardingIncomplete):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeOnboardingIncomplete, "finish setting up your account before using this feature")

	case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrCrossTenantAccess,
		apperrors.ErrNotConnected, apperrors.ErrBlocked, apperrors.ErrNotReceiver,
		apperrors.ErrAccountDeactivated):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrInvalidIdentifier,
		apperrors.ErrEmptyContent, apperrors.ErrSelfConnection):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)

	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrConnectionNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeNotFound, message)

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrDuplicateRequest, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message)

	case apperrors.Is(err, apperrors.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable,
			dto.NewErrorDetail(dto.ErrorCodeRemoteUnavailable, "the service is temporarily unavailable, please try again").WithRetryable()

	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeRemoteUnavailable, "an unexpected error occurred").WithRetryable()
	}
}
