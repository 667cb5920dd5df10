package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext stores logger in ctx. Anything that later logs on behalf of ctx
// (including Transport) picks it up.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns a context whose logger carries args on top of whatever ctx
// already held. fallback seeds the chain when ctx has no logger yet.
func With(ctx context.Context, fallback *slog.Logger, args ...any) context.Context {
	return WithContext(ctx, Or(ctx, fallback).With(args...))
}

// Or returns the logger stored in ctx, then fallback, then slog.Default.
func Or(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

func FromContext(ctx context.Context) *slog.Logger {
	return Or(ctx, nil)
}
