package transition

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

// Spec describes one delayed transition From -> Pending -> To with its abort
// path Pending -> From, the events published along the way and the reasons
// reported when an operation is called from the wrong state.
type Spec struct {
	Name             string
	From             State
	Pending          State
	To               State
	Scheduled        Event
	Finished         Event
	Aborted          Event
	NotReady         string
	NothingScheduled string
}

func (s Spec) validate() error {
	if s.From == "" || s.Pending == "" || s.To == "" ||
		s.Scheduled == "" || s.Finished == "" || s.Aborted == "" {
		return ErrInvalidTransition
	}
	return nil
}

var errBadArmRequest = errors.New("transition: schedule fired without arm request")

// closedReady is the latch used when nothing has to be waited for before firing.
var closedReady = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

type armRequest struct {
	delay time.Duration
	ready <-chan struct{}
}

// Gate owns the grace-period timer of one delayed transition over a shared
// Cell. Several gates may share a cell as long as their in-flight states differ.
//
// Rule actions arm, clear and cancel the timer with the cell locked. Close
// stops it under the gate lock alone and may leave the cell in Pending. A
// timer that fires after an abort, a close or a newer schedule is rejected
// by owns, which re-checks closed and the generation under the gate lock.
type Gate struct {
	spec  Spec
	cell  *Cell
	obs   *observer
	clock clock.Clock
	log   *slog.Logger

	mu     sync.Mutex
	delay  time.Duration
	timer  clock.Timer
	gen    uint64
	closed bool
}

// NewGate registers the schedule, finish and abort rules of spec on cell.
func NewGate(cell *Cell, spec Spec, delay time.Duration, opts Options) (*Gate, error) {
	if cell == nil {
		return nil, ErrInvalidTransition
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if delay < 0 {
		return nil, ErrNegativeDelay
	}

	opts = opts.withDefaults()
	if spec.Name == "" {
		spec.Name = opts.Name
	}

	g := &Gate{
		spec:  spec,
		cell:  cell,
		obs:   newObserver(opts),
		clock: opts.Clock,
		log:   opts.Logger.With(slog.String("gate", spec.Name)),
		delay: delay,
	}

	if err := cell.AddTransition(spec.From, spec.Pending, spec.Scheduled, nil, []Action{g.arm}); err != nil {
		return nil, err
	}
	if err := cell.AddTransition(spec.Pending, spec.To, spec.Finished, []Guard{g.owns}, []Action{g.disarm}); err != nil {
		return nil, err
	}
	if err := cell.AddTransition(spec.Pending, spec.From, spec.Aborted, nil, []Action{g.cancel}); err != nil {
		return nil, err
	}

	return g, nil
}

// Schedule starts the grace period with the configured delay.
func (g *Gate) Schedule() (bool, error) {
	return g.ScheduleIn(g.Delay())
}

// ScheduleIn starts a grace period of d, moving the cell from From to Pending
// and publishing Scheduled. It reports whether Scheduled had any listener.
// Outside From it fails with an IllegalStateError carrying NotReady.
func (g *Gate) ScheduleIn(d time.Duration) (bool, error) {
	if d < 0 {
		return false, ErrNegativeDelay
	}
	if g.isClosed() {
		return false, ErrClosed
	}

	// The timer callback blocks on ready so Finished is never published
	// before Scheduled has been delivered.
	ready := make(chan struct{})
	defer close(ready)

	if _, err := g.cell.Fire(g.spec.Scheduled, armRequest{delay: d, ready: ready}); err != nil {
		return false, g.obs.refuse(opSchedule, g.spec.NotReady, err)
	}

	g.log.Debug("transition scheduled",
		logger.Transition(g.spec.From.String(), g.spec.To.String()),
		logger.Delay(d),
	)
	g.obs.inFlight(true)
	return g.obs.publish(g.spec.Scheduled, g.spec.Pending), nil
}

// Abort cancels the grace period, moving the cell back to From and publishing
// Aborted. The timer is stopped before Aborted is published, so Finished never
// follows an accepted abort. Outside Pending it fails with an
// IllegalStateError carrying NothingScheduled.
func (g *Gate) Abort() (bool, error) {
	if g.isClosed() {
		return false, ErrClosed
	}

	if _, err := g.cell.Fire(g.spec.Aborted, nil); err != nil {
		return false, g.obs.refuse(opAbort, g.spec.NothingScheduled, err)
	}

	g.log.Debug("transition aborted", logger.State(g.spec.From.String()))
	g.obs.inFlight(false)
	return g.obs.publish(g.spec.Aborted, g.spec.From), nil
}

// Resume arms the timer with the configured delay when the cell already sits
// in Pending without a running timer, as happens when a handler is created in
// its in-flight state. Nothing is published.
func (g *Gate) Resume() error {
	return g.cell.Hold(func(current State) error {
		if current != g.spec.Pending {
			return newIllegalStateError("resume", current, g.spec.NothingScheduled)
		}

		g.mu.Lock()
		defer g.mu.Unlock()

		if g.closed {
			return ErrClosed
		}
		if g.timer != nil {
			return nil
		}
		g.armLocked(g.delay, closedReady)
		g.obs.inFlight(true)
		return nil
	})
}

// Armed reports whether the gate holds a running timer.
func (g *Gate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

// Delay returns the delay used by Schedule.
func (g *Gate) Delay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.delay
}

// SetDelay changes the delay of future schedules. A running timer keeps its delay.
func (g *Gate) SetDelay(d time.Duration) error {
	if d < 0 {
		return ErrNegativeDelay
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delay = d
	return nil
}

// Close cancels a running timer without publishing anything and makes every
// later Schedule, Abort and Resume fail with ErrClosed. The cell keeps its state.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true
	if g.timer != nil {
		g.obs.inFlight(false)
	}
	g.stopLocked()
}

func (g *Gate) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// fire runs on the timer goroutine.
func (g *Gate) fire(gen uint64, ready <-chan struct{}) {
	<-ready

	if _, err := g.cell.Fire(g.spec.Finished, gen); err != nil {
		g.log.Debug("stale timer ignored", logger.Error(err))
		return
	}

	g.log.Debug("transition finished", logger.State(g.spec.To.String()))
	g.obs.inFlight(false)
	g.obs.publish(g.spec.Finished, g.spec.To)
}

// Rule callbacks below run with the cell locked.

func (g *Gate) arm(_, _ State, _ Event, data any) error {
	req, ok := data.(armRequest)
	if !ok {
		return errBadArmRequest
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	g.armLocked(req.delay, req.ready)
	return nil
}

func (g *Gate) owns(_ State, _ Event, data any) bool {
	gen, ok := data.(uint64)
	if !ok {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && g.timer != nil && g.gen == gen
}

func (g *Gate) disarm(_, _ State, _ Event, _ any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timer = nil
	return nil
}

func (g *Gate) cancel(_, _ State, _ Event, _ any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	g.stopLocked()
	return nil
}

func (g *Gate) armLocked(d time.Duration, ready <-chan struct{}) {
	g.stopLocked()
	gen := g.gen
	g.timer = g.clock.AfterFunc(d, func() { g.fire(gen, ready) })
}

// stopLocked stops the timer before dropping the handle and invalidates any
// callback already on its way.
func (g *Gate) stopLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
}
