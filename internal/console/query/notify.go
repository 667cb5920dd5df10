package query

import (
	"context"
	"log/slog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a short message for the user, shown once and then forgotten.
type Notice struct {
	Level   Level
	Message string
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// LogNotifier writes notices to a logger. It is the fallback when no
// interactive notifier is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := slog.LevelInfo
	if n.Level == LevelError || n.Level == LevelWarning {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "notice", "level", string(n.Level), "message", n.Message)
}
