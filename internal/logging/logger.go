// Package logging provides the diagnostic logger shared by the service
// layer. It is constructed once in main and injected; nothing in this
// repository holds package-level logging state.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
)

// Logger writes info-level lifecycle lines and debug-level payload dumps.
// When disabled, both are no-ops.
type Logger struct {
	enabled bool
	log     *slog.Logger
}

// New creates a Logger writing to w. The enabled flag comes from the gateway
// settings; a disabled logger discards everything.
func New(enabled bool, w io.Writer) *Logger {
	return &Logger{
		enabled: enabled,
		log: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With("source", "stripe-checkout"),
	}
}

// Info logs a lifecycle message with optional attributes.
func (l *Logger) Info(msg string, args ...any) {
	if !l.enabled {
		return
	}
	l.log.Info(msg, args...)
}

// Warn logs a warning with optional attributes.
func (l *Logger) Warn(msg string, args ...any) {
	if !l.enabled {
		return
	}
	l.log.Warn(msg, args...)
}

// Debug logs a message together with a JSON rendering of payload. Used for
// full request/response dumps.
func (l *Logger) Debug(msg string, payload any) {
	if !l.enabled {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		l.log.Debug(msg, "marshal_error", err)
		return
	}
	l.log.Debug(msg, "payload", string(b))
}
