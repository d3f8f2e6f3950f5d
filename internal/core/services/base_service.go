package services

import (
	"context"
	"log/slog"

	"github.com/beanline/coffee_backoffice/internal/cache"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/beanline/coffee_backoffice/internal/platform/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// dashboardCacheKey is the single cache entry holding the dashboard summary.
const dashboardCacheKey = "dashboard:summary"

// BaseService provides common functionality for all services
type BaseService struct {
	// DashboardCache is invalidated after every write that changes a rollup.
	DashboardCache cache.DashboardCache
	Telemetry      *telemetry.Instruments
}

func newBaseService() BaseService {
	return BaseService{
		DashboardCache: cache.NoopDashboardCache{},
		Telemetry:      telemetry.NewInstruments(),
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a rejected request with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// LogFailure logs client errors at warn level and everything else at error level.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// startSpan opens a span named after the operation.
func (s *BaseService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.Telemetry == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.Telemetry.Tracer.Start(ctx, name)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// invalidateDashboard drops the cached summary. Failures only delay freshness
// until the TTL expires, so they are logged and swallowed.
func (s *BaseService) invalidateDashboard(ctx context.Context) {
	if s.DashboardCache == nil {
		return
	}
	if err := s.DashboardCache.Invalidate(ctx, dashboardCacheKey); err != nil {
		s.LogWarn(ctx, err, "Failed to invalidate dashboard cache")
	}
}
