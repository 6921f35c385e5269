package startstop_test

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/startstop"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

func Example() {
	clk := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	h := startstop.MustNew(0, 30*time.Second,
		transition.WithInitialState(startstop.StateStarted),
		transition.WithClock(clk),
	)
	defer h.Close()

	h.OnStop(func() { fmt.Println("disconnected") })
	h.OnStopAbort(func() { fmt.Println("still connected") })

	// The last user leaves and comes back within the grace period.
	_, _ = h.ScheduleStop()
	clk.Advance(10 * time.Second)
	_, _ = h.AbortStop()

	// The last user leaves for good.
	_, _ = h.ScheduleStop()
	clk.Advance(30 * time.Second)
	fmt.Println(h.State())

	_, err := h.ScheduleStop()
	fmt.Println(err)

	// Output:
	// still connected
	// disconnected
	// STOPPED
	// have to be started to be stopped
}
