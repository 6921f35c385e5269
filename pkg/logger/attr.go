package logger

import (
	"log/slog"
	"time"
)

func group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// HandlerID records a handler instance identifier under the key "handler_id".
// If id is nil, it returns an empty Attr.
func HandlerID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("handler_id", id)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// State records a state name under the key "state".
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// Transition records a from/to pair as a "transition" group.
func Transition(from, to string) slog.Attr {
	return group("transition", slog.String("from", from), slog.String("to", to))
}

// Operation records the attempted operation under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Delay records a grace period under the key "delay".
func Delay(d time.Duration) slog.Attr {
	return slog.Duration("delay", d)
}
