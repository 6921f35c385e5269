package transition

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/delayed/pkg/async"
	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/emitter"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

// Waiter turns handler events into single-shot futures.
type Waiter struct {
	cell  *Cell
	hub   *emitter.Emitter[Event]
	clock clock.Clock
	obs   *observer
}

// NewWaiter creates a Waiter observing the hub configured in opts.
// The hub must be the one the handler publishes on.
func NewWaiter(cell *Cell, opts Options) *Waiter {
	opts = opts.withDefaults()
	return &Waiter{
		cell:  cell,
		hub:   opts.Emitter,
		clock: opts.Clock,
		obs:   newObserver(opts),
	}
}

// Wait returns a future that settles exactly once:
//   - with the state current at delivery when any of events is published;
//   - with the current state and a *WaitTimeoutError once timeout elapses
//     (a non-positive timeout waits indefinitely);
//   - with the current state and ctx.Err() when ctx is done.
//
// Whatever settles the future first, the remaining listeners, the timer and
// the context hook are all detached, so nothing fires for a later transition.
func (w *Waiter) Wait(ctx context.Context, timeout time.Duration, events ...Event) *async.Future[State] {
	future, settle := async.NewPromise[State]()

	if len(events) == 0 {
		settle(w.cell.Current(), ErrNothingToAwait)
		return future
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		mu      sync.Mutex
		subs    []emitter.Subscription[Event]
		timer   clock.Timer
		stopCtx func() bool
	)

	finish := func(state State, err error, outcome string) {
		if !settle(state, err) {
			return
		}

		// Registration below holds mu, so a settlement racing it waits here
		// until every hook exists and can be detached.
		mu.Lock()
		pending, t, stop := subs, timer, stopCtx
		subs, timer, stopCtx = nil, nil, nil
		mu.Unlock()

		for _, sub := range pending {
			w.hub.Off(sub)
		}
		if t != nil {
			t.Stop()
		}
		if stop != nil {
			stop()
		}

		w.obs.metrics.observeWait(w.obs.name, outcome)
		w.obs.log.DebugContext(ctx, "wait settled",
			slog.String("outcome", outcome),
			logger.State(state.String()),
			logger.Error(err),
		)
	}

	mu.Lock()
	defer mu.Unlock()

	for _, event := range events {
		subs = append(subs, w.hub.Once(event, func() {
			finish(w.cell.Current(), nil, WaitResolved)
		}))
	}

	if timeout > 0 {
		timer = w.clock.AfterFunc(timeout, func() {
			state := w.cell.Current()
			finish(state, &WaitTimeoutError{State: state, Timeout: timeout}, WaitTimedOut)
		})
	}

	stopCtx = context.AfterFunc(ctx, func() {
		finish(w.cell.Current(), ctx.Err(), WaitCancelled)
	})

	return future
}
