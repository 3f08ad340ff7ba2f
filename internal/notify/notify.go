// Package notify is the port for transient user-facing messages. The client
// wrapper and navigation guard report through it; how messages reach the user
// is up to the adapter.
package notify

import "log/slog"

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier renders notifications through slog, the sink the CLI uses.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.Logger.Error(message)
	case LevelWarning:
		n.Logger.Warn(message)
	default:
		n.Logger.Info(message)
	}
}

// Discard drops every notification, for tests that only assert on errors.
type Discard struct{}

func (Discard) Notify(Level, string) {}
