package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LogixPH/logix_ops_app/internal/apperrors"
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/LogixPH/logix_ops_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// RequireCapability checks the caller holds a capability. The decision comes
// from the identity's role, never from where in the UI the call originated.
func (s *BaseService) RequireCapability(ctx context.Context, ident domain.Identity, cap domain.Capability) error {
	if ident.Can(cap) {
		return nil
	}
	s.LogWarn(ctx, "Capability check failed",
		slog.String("user_id", ident.UserID),
		slog.String("capability", string(cap)))
	return fmt.Errorf("%w: %s", apperrors.ErrForbidden, cap)
}
