package transition

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrIllegalState      = errors.New("transition: operation not allowed in current state")
	ErrInvalidTransition = errors.New("transition: from, to and event must be set")
	ErrNegativeDelay     = errors.New("transition: delay must not be negative")
	ErrUnknownState      = errors.New("transition: unknown state")
	ErrClosed            = errors.New("transition: handler is closed")
	ErrWaitTimeout       = errors.New("transition: wait timed out")
	ErrNothingToAwait    = errors.New("transition: no events to wait for")
)

// IllegalStateError reports an operation invoked from a state that does not
// permit it. Error returns the human-readable reason only.
type IllegalStateError struct {
	Op     string
	State  State
	Reason string
}

func (e *IllegalStateError) Error() string {
	return e.Reason
}

func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalState
}

func newIllegalStateError(op string, state State, reason string) *IllegalStateError {
	return &IllegalStateError{Op: op, State: state, Reason: reason}
}

// IsIllegalStateError reports whether err is or wraps an IllegalStateError.
func IsIllegalStateError(err error) bool {
	var e *IllegalStateError
	return errors.As(err, &e)
}

// WaitTimeoutError rejects a wait whose timeout elapsed before any of the
// awaited events was published. State is the state at the moment of expiry.
type WaitTimeoutError struct {
	State   State
	Timeout time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("transition: wait timed out after %v in state %s", e.Timeout, e.State)
}

func (e *WaitTimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// ErrNoTransitionAvailable indicates the cell has no rule for the event in its current state.
type ErrNoTransitionAvailable struct {
	State State
	Event Event
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

// ErrTransitionRejected indicates every matching rule was vetoed by a guard.
type ErrTransitionRejected struct {
	State State
	Event Event
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.State, e.Event)
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
