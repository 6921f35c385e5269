package transition

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/delayed/pkg/broadcast"
	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/emitter"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

const (
	opSchedule = "schedule"
	opAbort    = "abort"
	opReset    = "reset"
)

// observer publishes events of one handler and reports them to the logger,
// metrics and the notice feed.
type observer struct {
	name    string
	hub     *emitter.Emitter[Event]
	clock   clock.Clock
	log     *slog.Logger
	metrics *Metrics
	notices broadcast.Broadcaster[Notice]
}

func newObserver(o Options) *observer {
	return &observer{
		name:    o.Name,
		hub:     o.Emitter,
		clock:   o.Clock,
		log:     o.Logger,
		metrics: o.Metrics,
		notices: o.Broadcaster,
	}
}

// publish must be called after the state change and outside every lock.
// It reports whether any listener was registered for event.
func (ob *observer) publish(event Event, state State) bool {
	ob.log.Debug("transition event",
		logger.Event(event.String()),
		logger.State(state.String()),
	)
	ob.metrics.observeEvent(ob.name, event)

	if ob.notices != nil {
		notice := Notice{
			ID:      uuid.New(),
			Handler: ob.name,
			Event:   event,
			State:   state,
			At:      ob.clock.Now(),
		}
		if err := ob.notices.Broadcast(context.Background(), broadcast.Message[Notice]{Data: notice}); err != nil {
			ob.log.Warn("failed to broadcast notice", logger.Event(event.String()), logger.Error(err))
		}
	}

	return ob.hub.Emit(event)
}

// refuse turns a rejected cell move into an IllegalStateError carrying reason.
// Other errors are returned unchanged.
func (ob *observer) refuse(op, reason string, err error) error {
	var (
		noRule   *ErrNoTransitionAvailable
		rejected *ErrTransitionRejected
		state    State
	)
	switch {
	case errors.As(err, &noRule):
		state = noRule.State
	case errors.As(err, &rejected):
		state = rejected.State
	default:
		return err
	}

	ob.metrics.observeRejected(ob.name, op)
	ob.log.Debug("operation refused",
		logger.Operation(op),
		logger.State(state.String()),
		slog.String("reason", reason),
	)
	return newIllegalStateError(op, state, reason)
}

func (ob *observer) inFlight(v bool) {
	ob.metrics.setInFlight(ob.name, v)
}
