package transition

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/delayed/pkg/broadcast"
	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/emitter"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

// Options holds the collaborators shared by the gates and waiters of one handler.
// Use BuildOptions to obtain a fully defaulted value.
type Options struct {
	Name         string
	InitialState State
	Emitter      *emitter.Emitter[Event]
	Clock        clock.Clock
	Logger       *slog.Logger
	Metrics      *Metrics
	Broadcaster  broadcast.Broadcaster[Notice]
	ID           uuid.UUID
}

// Option configures a handler.
type Option func(*Options)

// WithName sets the handler name used in logs, metrics and notices.
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

// WithInitialState starts the handler in s instead of its default stable state.
// An in-flight state bootstraps a grace period that is already running.
func WithInitialState(s State) Option {
	return func(o *Options) {
		if s != "" {
			o.InitialState = s
		}
	}
}

// WithEmitter injects the event hub, e.g. to share it between components.
func WithEmitter(e *emitter.Emitter[Event]) Option {
	return func(o *Options) {
		if e != nil {
			o.Emitter = e
		}
	}
}

// WithClock replaces the system clock. Mostly useful with clock.Fake in tests.
func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records handler activity on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// WithBroadcaster mirrors every published event as a Notice on b.
func WithBroadcaster(b broadcast.Broadcaster[Notice]) Option {
	return func(o *Options) {
		if b != nil {
			o.Broadcaster = b
		}
	}
}

// BuildOptions applies opts over the defaults. The resulting logger carries
// the component name and handler ID.
func BuildOptions(defaultName string, defaultInitial State, opts ...Option) Options {
	o := Options{
		Name:         defaultName,
		InitialState: defaultInitial,
		ID:           uuid.New(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With(logger.Component(o.Name), logger.HandlerID(o.ID))

	return o.withDefaults()
}

// withDefaults fills every unset collaborator. It is idempotent.
// A default emitter logs panicking listeners instead of propagating them.
func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "transition"
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Clock == nil {
		o.Clock = clock.System
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Emitter == nil {
		log := o.Logger
		o.Emitter = emitter.New[Event](emitter.WithPanicHandler[Event](func(event Event, recovered any) {
			log.Error("listener panicked",
				logger.Event(event.String()),
				slog.Any("panic", recovered),
			)
		}))
	}
	return o
}
