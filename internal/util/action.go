package util

import (
	"context"
	"log/slog"
	"strings"
)

type contextKey string

const (
	actionIDCtxKey = contextKey("action_id")
	loggerCtxKey   = contextKey("logger")
)

// WithAction tags ctx with an action id, generating one when id is blank.
// A child slog.Logger carrying "action" and "action_id" is stored alongside
// so downstream code can call LoggerFromContext(ctx).
func WithAction(ctx context.Context, action, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		id = NewID()
	}
	ctx = context.WithValue(ctx, actionIDCtxKey, id)
	logger := slog.Default().With("action", action, "action_id", id)
	return ContextWithLogger(ctx, logger)
}

// ActionIDFromContext returns the action id, or "" when untagged.
func ActionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(actionIDCtxKey).(string)
	return id
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// LoggerFromContext returns the logger stored in ctx or slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
