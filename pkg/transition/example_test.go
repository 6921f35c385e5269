package transition_test

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

func Example() {
	clk := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	h := transition.MustNew(5*time.Second, transition.WithClock(clk))
	defer h.Close()

	h.OnTransitionScheduled(func() { fmt.Println("scheduled:", h.State()) })
	h.OnTransitionAborted(func() { fmt.Println("aborted:", h.State()) })
	h.OnTransitionFinished(func() { fmt.Println("finished:", h.State()) })

	_, _ = h.ScheduleTransition()
	clk.Advance(2 * time.Second)
	_, _ = h.AbortTransition()

	done := h.WaitForTransition(context.Background(), 0)
	_, _ = h.ScheduleTransition()
	clk.Advance(5 * time.Second)

	state, err := done.Await()
	fmt.Println(state, err)

	_, err = h.ScheduleTransition()
	fmt.Println(err)

	// Output:
	// scheduled: PENDING
	// aborted: A
	// scheduled: PENDING
	// finished: B
	// B <nil>
	// must be in state A to schedule a transition
}
