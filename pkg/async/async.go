package async

import (
	"context"
	"sync"
	"time"
)

// Future represents a result that becomes available exactly once.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// SettleFunc completes a Future. Only the first call has an effect; it
// reports whether this call was the one that settled the Future.
type SettleFunc[U any] func(result U, err error) bool

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

func (f *Future[U]) settle(result U, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result = result
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// NewPromise returns an unsettled Future together with the function that
// settles it. Competing producers (an event, a timeout, a cancellation) may all
// call settle; the first one wins and the rest observe false.
func NewPromise[U any]() (*Future[U], SettleFunc[U]) {
	f := newFuture[U]()
	return f, f.settle
}

// Await blocks until the Future is settled and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most timeout for the Future to settle.
// On timeout it returns the zero value and ErrTimeout; the Future itself is
// left untouched and may still settle later.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// AwaitContext waits until the Future settles or ctx is done, whichever
// comes first. A settled Future always wins over an already cancelled ctx.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the Future is settled.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the Future is settled without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn in its own goroutine and returns a Future for its result.
// If ctx is already cancelled fn is not called and the Future settles with ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		select {
		case <-ctx.Done():
			var zero U
			f.settle(zero, ctx.Err())
			return
		default:
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}
