package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	"github.com/oguzk/campdir/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers
// delegate every error path here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		message = errorMessage(err, "invalid request")
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "invalid credentials"
	case apperrors.Is(err, apperrors.ErrTokenMissing, apperrors.ErrTokenMalformed,
		apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrSubjectNotFound):
		status = http.StatusUnauthorized
		message = errorMessage(err, "authentication failed")
	case apperrors.Is(err, apperrors.ErrInvalidResetToken):
		status = http.StatusBadRequest
		message = "invalid or expired reset token"
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
		message = errorMessage(err, "permission denied")
	case apperrors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		message = errorMessage(err, "resource not found")
	case apperrors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		message = errorMessage(err, "resource conflict")
	case apperrors.Is(err, apperrors.ErrUpstreamFailure):
		status = http.StatusInternalServerError
		message = errorMessage(err, "upstream failure")
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
	}

	c.JSON(status, dto.NewErrorResponse(message))
}

// errorMessage prefers the wrapped CustomError message when one exists
func errorMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
