package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"livestock/internal/identity"
	"livestock/internal/repository"
	"livestock/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository/identity errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidJobID),
		errors.Is(err, service.ErrInvalidTransporterID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidLivestock),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidHistoryFilter),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidNotification),
		errors.Is(err, service.ErrInvalidNotificationType),
		errors.Is(err, service.ErrInvalidNotificationID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTimeframe),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPushToken),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidPhone),
		errors.Is(err, identity.ErrInvalidCode):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrJobBusy),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, identity.ErrEmailTaken):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotAssignedTransporter),
		errors.Is(err, service.ErrNotificationNotOwned):
		return http.StatusForbidden

	// Expired or exhausted verifications
	case errors.Is(err, identity.ErrVerificationExpired):
		return http.StatusGone
	case errors.Is(err, identity.ErrTooManyAttempts):
		return http.StatusTooManyRequests

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// formatTime renders a timestamp for responses; the zero time renders empty.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
