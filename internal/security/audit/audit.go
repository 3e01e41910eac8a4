package audit

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey struct{}

// WithRequestID attaches a request id that audit lines will carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger writes one structured line per mutating or destructive action.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("channel", "audit"))}
}

// LogAction records who did what to which record. A nil Logger drops the line.
func (al *Logger) LogAction(ctx context.Context, actor, action, resource, resourceID, status, details string) {
	if al == nil {
		return
	}
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("actor", actor),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogCreate(ctx context.Context, actor, resource, resourceID, status, details string) {
	al.LogAction(ctx, actor, "create", resource, resourceID, status, details)
}

func (al *Logger) LogUpdate(ctx context.Context, actor, resource, resourceID, status, details string) {
	al.LogAction(ctx, actor, "update", resource, resourceID, status, details)
}

func (al *Logger) LogDeletion(ctx context.Context, actor, resource, resourceID, status, details string) {
	al.LogAction(ctx, actor, "delete", resource, resourceID, status, details)
}

func (al *Logger) LogDenied(ctx context.Context, actor, reason string) {
	al.LogAction(ctx, actor, "access_denied", "api", "", "denied", reason)
}
