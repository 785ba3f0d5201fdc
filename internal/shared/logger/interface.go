package logger

import (
	"io"
	"log/slog"
)

// Interface is the structured logger handed to every component. Arguments
// after the message are alternating key/value pairs.
type Interface interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	// With returns a child logger that adds the pairs to every record.
	With(keysAndValues ...any) Interface
	// Named tags records with a "logger" attribute, e.g. "connect" or "gorm".
	Named(name string) Interface
}

type slogAdapter struct {
	base *slog.Logger
}

// NewLogger wraps the process logger configured by Init.
func NewLogger() Interface {
	return FromSlog(Get())
}

// FromSlog adapts an existing slog logger.
func FromSlog(l *slog.Logger) Interface {
	return slogAdapter{base: l}
}

// NewNopLogger discards everything.
func NewNopLogger() Interface {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slogAdapter{base: slog.New(h)}
}

func (l slogAdapter) Debugw(msg string, kv ...any) { l.base.Debug(msg, kv...) }
func (l slogAdapter) Infow(msg string, kv ...any)  { l.base.Info(msg, kv...) }
func (l slogAdapter) Warnw(msg string, kv ...any)  { l.base.Warn(msg, kv...) }
func (l slogAdapter) Errorw(msg string, kv ...any) { l.base.Error(msg, kv...) }

func (l slogAdapter) With(kv ...any) Interface {
	return slogAdapter{base: l.base.With(kv...)}
}

func (l slogAdapter) Named(name string) Interface {
	return slogAdapter{base: l.base.With("logger", name)}
}
