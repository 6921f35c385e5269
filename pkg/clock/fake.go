package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock. Callbacks never run on their own;
// they run synchronously inside Advance once their deadline is reached.
// All methods are safe for concurrent use.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers map[*fakeTimer]struct{}
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// NewFake returns a Fake clock positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{
		now:    start,
		timers: make(map[*fakeTimer]struct{}),
	}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc registers fn to run once the clock has been advanced by at least d.
// A non-positive d is due on the next Advance call, including Advance(0).
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(max(d, 0)),
		seq:      f.seq,
		fn:       fn,
	}
	f.timers[t] = struct{}{}
	return t
}

// Advance moves the clock forward by d and runs every callback that became due,
// in deadline order (registration order for equal deadlines). Callbacks that
// register new timers which are already due run in the same call.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(max(d, 0))
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.nextDue(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.deadline
		next.done = true
		delete(f.timers, next)
		f.mu.Unlock()

		next.fn()
	}
}

// Pending reports how many timers are armed and not yet fired or stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var next *fakeTimer
	for t := range f.timers {
		if t.deadline.After(target) {
			continue
		}
		if next == nil || t.deadline.Before(next.deadline) ||
			(t.deadline.Equal(next.deadline) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	delete(t.clock.timers, t)
	return true
}
