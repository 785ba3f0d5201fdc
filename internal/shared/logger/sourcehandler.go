package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceHandler adds the caller location to records at or above minLevel.
// The wrapped handler must not add source itself.
type sourceHandler struct {
	next     slog.Handler
	minLevel slog.Level
}

func NewSourceHandler(next slog.Handler, minLevel slog.Level) slog.Handler {
	return sourceHandler{next: next, minLevel: minLevel}
}

func (h sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sourceHandler{next: h.next.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h sourceHandler) WithGroup(name string) slog.Handler {
	return sourceHandler{next: h.next.WithGroup(name), minLevel: h.minLevel}
}
