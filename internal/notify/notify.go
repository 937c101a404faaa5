// Package notify reports final flow outcomes to the user. Fire-and-forget:
// callers never consume a return value.
package notify

import (
	"context"
	"log/slog"
)

// Notifier reports a flow's final outcome.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications through slog.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier on the given logger, or the default
// logger when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

// Success implements Notifier.
func (n *LogNotifier) Success(msg string) {
	n.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, slog.String("outcome", "success"))
}

// Error implements Notifier.
func (n *LogNotifier) Error(msg string) {
	n.Logger.LogAttrs(context.Background(), slog.LevelError, msg, slog.String("outcome", "failure"))
}
