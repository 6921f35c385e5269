package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor derives an attribute from the context of a log call.
// It reports false when the context carries nothing to log.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// FromContextValue returns an extractor logging ctx.Value(key) under name.
func FromContextValue(name string, key any) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	}
}

// contextHandler appends the extracted attributes to every record.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func withContext(h slog.Handler, extractors []ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return h
	}
	return contextHandler{Handler: h, extractors: extractors}
}

func (h contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, extract := range h.extractors {
			if attr, ok := extract(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
