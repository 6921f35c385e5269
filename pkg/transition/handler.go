package transition

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/delayed/pkg/async"
	"github.com/dmitrymomot/delayed/pkg/emitter"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

// Reasons reported by the simple handler.
const (
	ReasonNotInA         = "must be in state A to schedule a transition"
	ReasonNothingToAbort = "no transition scheduled to abort"
	ReasonNotInB         = "cannot reset unless in state B"
)

// Handler moves from A to B through a cancelable grace period:
//
//	A --schedule--> PENDING --delay--> B --reset--> A
//	PENDING --abort--> A
//
// All methods are safe for concurrent use. Listeners run synchronously on the
// goroutine that caused the event, which is the timer goroutine for
// EventFinished.
type Handler struct {
	cell   *Cell
	gate   *Gate
	waiter *Waiter
	hub    *emitter.Emitter[Event]
	obs    *observer
	closed atomic.Bool
}

// New creates a handler in state A (or WithInitialState) with the given delay.
// Starting in PENDING arms the timer right away.
func New(delay time.Duration, opts ...Option) (*Handler, error) {
	if delay < 0 {
		return nil, ErrNegativeDelay
	}

	o := BuildOptions("transition", StateA, opts...)
	cell := NewCell(o.InitialState)

	gate, err := NewGate(cell, Spec{
		From:             StateA,
		Pending:          StatePending,
		To:               StateB,
		Scheduled:        EventScheduled,
		Finished:         EventFinished,
		Aborted:          EventAborted,
		NotReady:         ReasonNotInA,
		NothingScheduled: ReasonNothingToAbort,
	}, delay, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create transition gate: %w", err)
	}

	h := &Handler{
		cell:   cell,
		gate:   gate,
		waiter: NewWaiter(cell, o),
		hub:    o.Emitter,
		obs:    newObserver(o),
	}

	if err := cell.AddTransition(StateB, StateA, EventReset, nil, []Action{h.ensureOpen}); err != nil {
		return nil, fmt.Errorf("failed to register reset: %w", err)
	}

	if !cell.Knows(o.InitialState) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, o.InitialState)
	}
	if o.InitialState == StatePending {
		if err := gate.Resume(); err != nil {
			return nil, err
		}
	}

	o.Logger.Debug("transition handler created",
		logger.State(o.InitialState.String()),
		logger.Delay(delay),
	)
	return h, nil
}

// MustNew is like New but panics on error.
func MustNew(delay time.Duration, opts ...Option) *Handler {
	h, err := New(delay, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// State returns the current state.
func (h *Handler) State() State { return h.cell.Current() }

// Is reports whether the handler is in s.
func (h *Handler) Is(s State) bool { return h.cell.Is(s) }

// Delay returns the delay used by the next ScheduleTransition.
func (h *Handler) Delay() time.Duration { return h.gate.Delay() }

// SetDelay changes the delay of future schedules only.
func (h *Handler) SetDelay(d time.Duration) error { return h.gate.SetDelay(d) }

// ScheduleTransition moves A to PENDING and publishes EventScheduled.
// It reports whether any listener was registered for the event.
func (h *Handler) ScheduleTransition() (bool, error) {
	return h.gate.Schedule()
}

// AbortTransition cancels a pending transition, moving back to A and
// publishing EventAborted.
func (h *Handler) AbortTransition() (bool, error) {
	return h.gate.Abort()
}

// Reset moves B back to A and publishes EventReset.
func (h *Handler) Reset() (bool, error) {
	if h.closed.Load() {
		return false, ErrClosed
	}
	if _, err := h.cell.Fire(EventReset, nil); err != nil {
		return false, h.obs.refuse(opReset, ReasonNotInB, err)
	}
	return h.obs.publish(EventReset, StateA), nil
}

// Close cancels a pending timer without publishing anything. Every later
// mutating call fails with ErrClosed. Listeners stay registered.
func (h *Handler) Close() {
	h.closed.Store(true)
	h.gate.Close()
}

// On registers fn for every publish of event.
func (h *Handler) On(event Event, fn emitter.Listener) emitter.Subscription[Event] {
	return h.hub.On(event, fn)
}

// Once registers fn for the next publish of event.
func (h *Handler) Once(event Event, fn emitter.Listener) emitter.Subscription[Event] {
	return h.hub.Once(event, fn)
}

// Off removes a listener registered with On or Once.
func (h *Handler) Off(sub emitter.Subscription[Event]) bool {
	return h.hub.Off(sub)
}

// OnTransitionScheduled registers fn for every EventScheduled.
func (h *Handler) OnTransitionScheduled(fn emitter.Listener) emitter.Subscription[Event] {
	return h.On(EventScheduled, fn)
}

// OnceTransitionScheduled registers fn for the next EventScheduled.
func (h *Handler) OnceTransitionScheduled(fn emitter.Listener) emitter.Subscription[Event] {
	return h.Once(EventScheduled, fn)
}

// OnTransitionFinished registers fn for every EventFinished.
func (h *Handler) OnTransitionFinished(fn emitter.Listener) emitter.Subscription[Event] {
	return h.On(EventFinished, fn)
}

// OnceTransitionFinished registers fn for the next EventFinished.
func (h *Handler) OnceTransitionFinished(fn emitter.Listener) emitter.Subscription[Event] {
	return h.Once(EventFinished, fn)
}

// OnTransitionAborted registers fn for every EventAborted.
func (h *Handler) OnTransitionAborted(fn emitter.Listener) emitter.Subscription[Event] {
	return h.On(EventAborted, fn)
}

// OnceTransitionAborted registers fn for the next EventAborted.
func (h *Handler) OnceTransitionAborted(fn emitter.Listener) emitter.Subscription[Event] {
	return h.Once(EventAborted, fn)
}

// OnReset registers fn for every EventReset.
func (h *Handler) OnReset(fn emitter.Listener) emitter.Subscription[Event] {
	return h.On(EventReset, fn)
}

// OnceReset registers fn for the next EventReset.
func (h *Handler) OnceReset(fn emitter.Listener) emitter.Subscription[Event] {
	return h.Once(EventReset, fn)
}

// WaitForTransition settles when the pending transition finishes.
// See Waiter.Wait for the timeout and cancellation rules.
func (h *Handler) WaitForTransition(ctx context.Context, timeout time.Duration) *async.Future[State] {
	return h.waiter.Wait(ctx, timeout, EventFinished)
}

// WaitForAbortion settles when the pending transition is aborted.
func (h *Handler) WaitForAbortion(ctx context.Context, timeout time.Duration) *async.Future[State] {
	return h.waiter.Wait(ctx, timeout, EventAborted)
}

// WaitForTransitionOrAbortion settles on whichever of finish or abort comes first.
func (h *Handler) WaitForTransitionOrAbortion(ctx context.Context, timeout time.Duration) *async.Future[State] {
	return h.waiter.Wait(ctx, timeout, EventFinished, EventAborted)
}

func (h *Handler) ensureOpen(_, _ State, _ Event, _ any) error {
	if h.closed.Load() {
		return ErrClosed
	}
	return nil
}
