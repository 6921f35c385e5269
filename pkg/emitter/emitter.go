package emitter

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Listener is invoked synchronously when its event is emitted.
type Listener func()

// PanicHandler receives the value recovered from a panicking listener.
type PanicHandler[E comparable] func(event E, recovered any)

// Subscription identifies a registered listener so it can be removed with Off.
// The zero value matches no listener.
type Subscription[E comparable] struct {
	event E
	id    uint64
}

// Event returns the event the subscription is registered for.
func (s Subscription[E]) Event() E {
	return s.event
}

type entry struct {
	id    uint64
	fn    Listener
	once  bool
	fired atomic.Bool
}

// Emitter is a synchronous publish/subscribe hub keyed by event name.
// Listeners run on the emitting goroutine, in registration order, and no
// lock is held while they run, so a listener may subscribe, unsubscribe or
// emit again. All methods are safe for concurrent use.
type Emitter[E comparable] struct {
	mu        sync.RWMutex
	listeners map[E][]*entry
	seq       uint64
	onPanic   PanicHandler[E]
}

// Option configures an Emitter.
type Option[E comparable] func(*Emitter[E])

// WithPanicHandler recovers panicking listeners and reports them to fn, so the
// remaining listeners of the same emit still run. Without it a panic
// propagates to the emitter's caller.
func WithPanicHandler[E comparable](fn PanicHandler[E]) Option[E] {
	return func(e *Emitter[E]) {
		if fn != nil {
			e.onPanic = fn
		}
	}
}

// New creates an empty Emitter.
func New[E comparable](opts ...Option[E]) *Emitter[E] {
	e := &Emitter[E]{
		listeners: make(map[E][]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers fn for every future emit of event.
func (e *Emitter[E]) On(event E, fn Listener) Subscription[E] {
	return e.add(event, fn, false)
}

// Once registers fn for the next emit of event only. The listener is removed
// before it runs, so it fires at most once even under concurrent emits.
func (e *Emitter[E]) Once(event E, fn Listener) Subscription[E] {
	return e.add(event, fn, true)
}

// Off removes the listener behind sub. It reports whether the listener was
// still registered. An emit already in progress still delivers to it.
func (e *Emitter[E]) Off(sub Subscription[E]) bool {
	if sub.id == 0 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remove(sub.event, sub.id)
}

// Emit runs every listener currently registered for event and returns once
// all of them have returned. It reports whether any listener was registered.
func (e *Emitter[E]) Emit(event E) bool {
	e.mu.RLock()
	snapshot := slices.Clone(e.listeners[event])
	e.mu.RUnlock()

	if len(snapshot) == 0 {
		return false
	}

	for _, l := range snapshot {
		if l.once {
			// Claim the one-shot listener before running it; a concurrent emit
			// holding the same snapshot loses the claim and skips it.
			if !l.fired.CompareAndSwap(false, true) {
				continue
			}
			e.mu.Lock()
			e.remove(event, l.id)
			e.mu.Unlock()
		}
		e.call(event, l.fn)
	}

	return true
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter[E]) ListenerCount(event E) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

// RemoveAll drops every listener registered for event.
func (e *Emitter[E]) RemoveAll(event E) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, event)
}

func (e *Emitter[E]) add(event E, fn Listener, once bool) Subscription[E] {
	if fn == nil {
		return Subscription[E]{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	e.listeners[event] = append(e.listeners[event], &entry{id: e.seq, fn: fn, once: once})
	return Subscription[E]{event: event, id: e.seq}
}

// remove must be called with e.mu held for writing.
// The slice is rebuilt rather than edited in place because emits may hold
// snapshots of the old one.
func (e *Emitter[E]) remove(event E, id uint64) bool {
	current := e.listeners[event]
	idx := slices.IndexFunc(current, func(l *entry) bool { return l.id == id })
	if idx < 0 {
		return false
	}

	if len(current) == 1 {
		delete(e.listeners, event)
		return true
	}

	next := make([]*entry, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	e.listeners[event] = next
	return true
}

func (e *Emitter[E]) call(event E, fn Listener) {
	if e.onPanic == nil {
		fn()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.onPanic(event, r)
		}
	}()
	fn()
}
