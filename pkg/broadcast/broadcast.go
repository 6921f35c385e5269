package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on. It is closed once
	// the subscriber is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Dropped reports how many messages were discarded because the buffer was full.
	Dropped() uint64

	// Close detaches the subscriber and closes its channel. Idempotent.
	Close() error
}

// Broadcaster fans messages out to every subscriber without ever blocking the
// sender: a full subscriber buffer drops the message for that subscriber only.
type Broadcaster[T any] interface {
	// Subscribe attaches a subscriber for the lifetime of ctx.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast offers msg to every active subscriber.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes every subscriber. Later subscriptions are returned closed.
	Close() error
}

type subscriber[T any] struct {
	ch      chan Message[T]
	closed  bool
	dropped atomic.Uint64
	detach  func()
	mu      sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch: make(chan Message[T], bufferSize),
	}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *subscriber[T]) Close() error {
	if s.detach != nil {
		s.detach()
	}
	s.closeChannel()
	return nil
}

func (s *subscriber[T]) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

func (s *subscriber[T]) send(msg Message[T]) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.ch <- msg:
	default:
		s.dropped.Add(1)
	}
}
