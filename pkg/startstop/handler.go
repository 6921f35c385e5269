package startstop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/delayed/pkg/async"
	"github.com/dmitrymomot/delayed/pkg/emitter"
	"github.com/dmitrymomot/delayed/pkg/logger"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

// Lifecycle states.
const (
	StateStopped  transition.State = "STOPPED"
	StateStarting transition.State = "STARTING"
	StateStarted  transition.State = "STARTED"
	StateStopping transition.State = "STOPPING"
)

// Lifecycle events.
const (
	EventStartScheduled transition.Event = "START_SCHEDULED"
	EventStart          transition.Event = "START"
	EventStartAbort     transition.Event = "START_ABORT"
	EventStopScheduled  transition.Event = "STOP_SCHEDULED"
	EventStop           transition.Event = "STOP"
	EventStopAbort      transition.Event = "STOP_ABORT"
)

// Reasons reported for operations called from the wrong state.
const (
	ReasonNotStopped = "has to be stopped to be started"
	ReasonNoStartup  = "there is no startup scheduled"
	ReasonNotStarted = "have to be started to be stopped"
	ReasonNoStop     = "there is no stop scheduled"
)

// Handler cycles STOPPED -> STARTING -> STARTED -> STOPPING -> STOPPED with
// a cancelable grace period on the way up and on the way down. The two
// directions are independent gates sharing one state and one event hub.
type Handler struct {
	cell   *transition.Cell
	start  *transition.Gate
	stop   *transition.Gate
	waiter *transition.Waiter
	hub    *emitter.Emitter[transition.Event]
}

// New creates a handler in STOPPED (or WithInitialState). Starting in
// STARTING or STOPPING arms the matching timer right away.
func New(startDelay, stopDelay time.Duration, opts ...transition.Option) (*Handler, error) {
	if startDelay < 0 || stopDelay < 0 {
		return nil, transition.ErrNegativeDelay
	}

	o := transition.BuildOptions("startstop", StateStopped, opts...)
	cell := transition.NewCell(o.InitialState)

	start, err := transition.NewGate(cell, transition.Spec{
		Name:             "start",
		From:             StateStopped,
		Pending:          StateStarting,
		To:               StateStarted,
		Scheduled:        EventStartScheduled,
		Finished:         EventStart,
		Aborted:          EventStartAbort,
		NotReady:         ReasonNotStopped,
		NothingScheduled: ReasonNoStartup,
	}, startDelay, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create start gate: %w", err)
	}

	stop, err := transition.NewGate(cell, transition.Spec{
		Name:             "stop",
		From:             StateStarted,
		Pending:          StateStopping,
		To:               StateStopped,
		Scheduled:        EventStopScheduled,
		Finished:         EventStop,
		Aborted:          EventStopAbort,
		NotReady:         ReasonNotStarted,
		NothingScheduled: ReasonNoStop,
	}, stopDelay, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create stop gate: %w", err)
	}

	if !cell.Knows(o.InitialState) {
		return nil, fmt.Errorf("%w: %s", transition.ErrUnknownState, o.InitialState)
	}

	switch o.InitialState {
	case StateStarting:
		err = start.Resume()
	case StateStopping:
		err = stop.Resume()
	}
	if err != nil {
		return nil, err
	}

	o.Logger.Debug("start/stop handler created",
		logger.State(o.InitialState.String()),
		slog.Duration("start_delay", startDelay),
		slog.Duration("stop_delay", stopDelay),
	)

	return &Handler{
		cell:   cell,
		start:  start,
		stop:   stop,
		waiter: transition.NewWaiter(cell, o),
		hub:    o.Emitter,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(startDelay, stopDelay time.Duration, opts ...transition.Option) *Handler {
	h, err := New(startDelay, stopDelay, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// State returns the current state.
func (h *Handler) State() transition.State { return h.cell.Current() }

// Is reports whether the current state is s.
func (h *Handler) Is(s transition.State) bool { return h.cell.Is(s) }

// StartDelay returns the grace period applied by ScheduleStart.
func (h *Handler) StartDelay() time.Duration { return h.start.Delay() }

// SetStartDelay changes the start grace period. Negative values are rejected.
func (h *Handler) SetStartDelay(d time.Duration) error { return h.start.SetDelay(d) }

// StopDelay returns the grace period applied by ScheduleStop.
func (h *Handler) StopDelay() time.Duration { return h.stop.Delay() }

// SetStopDelay changes the stop grace period. Negative values are rejected.
func (h *Handler) SetStopDelay(d time.Duration) error { return h.stop.SetDelay(d) }

// ScheduleStart moves STOPPED to STARTING with the configured start delay.
func (h *Handler) ScheduleStart() (bool, error) { return h.start.Schedule() }

// ScheduleStartIn is ScheduleStart with a one-off delay. Zero means no delay.
func (h *Handler) ScheduleStartIn(d time.Duration) (bool, error) { return h.start.ScheduleIn(d) }

// AbortStart cancels a scheduled start and returns to STOPPED.
func (h *Handler) AbortStart() (bool, error) { return h.start.Abort() }

// ScheduleStop moves STARTED to STOPPING with the configured stop delay.
func (h *Handler) ScheduleStop() (bool, error) { return h.stop.Schedule() }

// ScheduleStopIn is ScheduleStop with a one-off delay. Zero means no delay.
func (h *Handler) ScheduleStopIn(d time.Duration) (bool, error) { return h.stop.ScheduleIn(d) }

// AbortStop cancels a scheduled stop and returns to STARTED.
func (h *Handler) AbortStop() (bool, error) { return h.stop.Abort() }

// Close cancels any running timer without publishing. Later schedules and
// aborts fail with transition.ErrClosed.
func (h *Handler) Close() {
	h.start.Close()
	h.stop.Close()
}

// On registers fn for every publication of event.
func (h *Handler) On(event transition.Event, fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.hub.On(event, fn)
}

// Once registers fn for the next publication of event only.
func (h *Handler) Once(event transition.Event, fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.hub.Once(event, fn)
}

// Off removes a listener. It reports false if sub was already gone.
func (h *Handler) Off(sub emitter.Subscription[transition.Event]) bool {
	return h.hub.Off(sub)
}

// OnStartScheduled registers fn for every EventStartScheduled.
func (h *Handler) OnStartScheduled(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStartScheduled, fn)
}

// OnceStartScheduled registers fn for the next EventStartScheduled.
func (h *Handler) OnceStartScheduled(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStartScheduled, fn)
}

// OnStart registers fn for every EventStart.
func (h *Handler) OnStart(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStart, fn)
}

// OnceStart registers fn for the next EventStart.
func (h *Handler) OnceStart(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStart, fn)
}

// OnStartAbort registers fn for every EventStartAbort.
func (h *Handler) OnStartAbort(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStartAbort, fn)
}

// OnceStartAbort registers fn for the next EventStartAbort.
func (h *Handler) OnceStartAbort(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStartAbort, fn)
}

// OnStopScheduled registers fn for every EventStopScheduled.
func (h *Handler) OnStopScheduled(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStopScheduled, fn)
}

// OnceStopScheduled registers fn for the next EventStopScheduled.
func (h *Handler) OnceStopScheduled(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStopScheduled, fn)
}

// OnStop registers fn for every EventStop.
func (h *Handler) OnStop(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStop, fn)
}

// OnceStop registers fn for the next EventStop.
func (h *Handler) OnceStop(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStop, fn)
}

// OnStopAbort registers fn for every EventStopAbort.
func (h *Handler) OnStopAbort(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.On(EventStopAbort, fn)
}

// OnceStopAbort registers fn for the next EventStopAbort.
func (h *Handler) OnceStopAbort(fn emitter.Listener) emitter.Subscription[transition.Event] {
	return h.Once(EventStopAbort, fn)
}

// WaitForStart settles once a scheduled start completes.
func (h *Handler) WaitForStart(ctx context.Context, timeout time.Duration) *async.Future[transition.State] {
	return h.waiter.Wait(ctx, timeout, EventStart)
}

// WaitForStop settles once a scheduled stop completes.
func (h *Handler) WaitForStop(ctx context.Context, timeout time.Duration) *async.Future[transition.State] {
	return h.waiter.Wait(ctx, timeout, EventStop)
}

// Wait settles on the first of events. See transition.Waiter.
func (h *Handler) Wait(ctx context.Context, timeout time.Duration, events ...transition.Event) *async.Future[transition.State] {
	return h.waiter.Wait(ctx, timeout, events...)
}
