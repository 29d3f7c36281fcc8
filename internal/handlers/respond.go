package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LogixPH/logix_ops_app/internal/apperrors"
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/LogixPH/logix_ops_app/internal/middleware"
)

// requireIdentity pulls the resolved caller identity out of the request
// context. The auth middleware guarantees it on every /api/v1 route; a miss
// means a misconfigured chain and aborts with 401.
func requireIdentity(c *gin.Context) (domain.Identity, bool) {
	ident, ok := middleware.GetIdentityFromCtx(c.Request.Context())
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Identity not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return ident, ok
}

// respondServiceError maps service errors onto HTTP statuses. Sentinel
// classifications decide the status; anything unclassified is a 500 with a
// generic message so internals do not leak.
func respondServiceError(c *gin.Context, ctx context.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Concurrent modification", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
