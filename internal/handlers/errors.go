package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrBatchInProgress),
		errors.Is(err, apperrors.ErrPrintCancelled):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientLeaves),
		errors.Is(err, apperrors.ErrBookExhausted),
		errors.Is(err, apperrors.ErrNoActiveBook):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrNoPrintDevice),
		errors.Is(err, apperrors.ErrPrintDeviceError):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Internal errors are logged
// and replaced by fallback so storage details do not leak to the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
