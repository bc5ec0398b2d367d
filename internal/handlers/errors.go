package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sibgate/bankcore/internal/apperrors"
)

// respondError maps service errors onto HTTP status codes. Business outcomes
// keep their message; unexpected failures get the fallback message so
// internals never leak to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrCurrencyMismatch):
		logger.Warn("request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAccountNotActive),
		errors.Is(err, apperrors.ErrInvalidStateForCancellation):
		logger.Warn("state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInsufficientPaymentAmount),
		errors.Is(err, apperrors.ErrEarlyRepaymentNotAllowed):
		logger.Warn("operation not permitted by balance or product", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			logger.Error("request failed", slog.String("error", appErr.Error()), slog.Int("code", appErr.Code))
			c.JSON(appErr.Code, gin.H{"error": fallback})
			return
		}
		logger.Error("request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
