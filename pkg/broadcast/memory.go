package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]func() bool
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
}

// NewMemoryBroadcaster creates an in-memory broadcaster whose subscribers
// buffer up to bufferSize messages each (at least 1).
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]func() bool),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe attaches a new subscriber. It is detached and closed when ctx is
// done, when the subscriber is closed or when the broadcaster is closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := newSubscriber[T](b.bufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.closeChannel()
		return sub
	}

	sub.detach = func() { b.unsubscribe(sub) }
	b.subscribers[sub] = context.AfterFunc(ctx, func() { _ = sub.Close() })

	return sub
}

// Broadcast offers msg to every subscriber. A subscriber with a full buffer
// misses the message and stays subscribed. Always returns nil.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		sub.send(msg)
	}

	return nil
}

// Len returns the number of attached subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber. It is safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for sub, stop := range b.subscribers {
		stop()
		sub.closeChannel()
	}
	clear(b.subscribers)

	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if stop, ok := b.subscribers[sub]; ok {
		stop()
		delete(b.subscribers, sub)
	}
}
