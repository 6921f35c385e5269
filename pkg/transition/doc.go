// Package transition implements delayed, cancelable state transitions.
//
// A transition leaves a stable state, spends a grace period in an in-flight
// state and only then reaches its target. During the grace period it can be
// aborted, which returns to the origin and guarantees the finish event is
// never published for that schedule.
//
// The building blocks are reusable:
//
//   - Cell holds the single active state and the table of legal moves.
//   - Gate drives one From -> Pending -> To transition over a Cell and owns
//     its timer. Several gates can share one Cell.
//   - Waiter turns published events into futures with optional timeout and
//     context cancellation.
//
// Handler combines them into the simple A -> PENDING -> B lifecycle:
//
//	h, err := transition.New(5*time.Second, transition.WithName("voice"))
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
//	h.OnTransitionFinished(func() { log.Println("now in", h.State()) })
//
//	if _, err := h.ScheduleTransition(); err != nil {
//		return err
//	}
//	state, err := h.WaitForTransitionOrAbortion(ctx, 10*time.Second).Await()
//
// State always changes before the matching event is published and events are
// published outside every lock, so listeners may query or drive the handler.
// Operations called from the wrong state return an *IllegalStateError whose
// message is the human readable reason; use errors.Is(err, ErrIllegalState).
//
// Handlers log through log/slog at debug level, can record Prometheus metrics
// (WithMetrics) and can mirror every event as a Notice on a broadcaster
// (WithBroadcaster).
package transition
