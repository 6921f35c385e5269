package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/delayed/pkg/clock"
)

func TestSystemClock(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	clock.System.AfterFunc(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("system timer did not fire")
	}

	stopped := clock.System.AfterFunc(time.Hour, func() {})
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
}

func TestFake(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fires only when advanced past deadline", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var fired int
		clk.AfterFunc(10*time.Millisecond, func() { fired++ })

		clk.Advance(9 * time.Millisecond)
		assert.Equal(t, 0, fired)
		assert.Equal(t, 1, clk.Pending())

		clk.Advance(time.Millisecond)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 0, clk.Pending())
		assert.Equal(t, start.Add(10*time.Millisecond), clk.Now())
	})

	t.Run("zero delay fires on Advance(0)", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var fired bool
		clk.AfterFunc(0, func() { fired = true })
		assert.False(t, fired)

		clk.Advance(0)
		assert.True(t, fired)
	})

	t.Run("deadline order then registration order", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var order []string
		clk.AfterFunc(20*time.Millisecond, func() { order = append(order, "late") })
		clk.AfterFunc(5*time.Millisecond, func() { order = append(order, "first") })
		clk.AfterFunc(5*time.Millisecond, func() { order = append(order, "second") })

		clk.Advance(time.Second)
		assert.Equal(t, []string{"first", "second", "late"}, order)
	})

	t.Run("callback sees its own deadline as now", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var seen time.Time
		clk.AfterFunc(7*time.Millisecond, func() { seen = clk.Now() })

		clk.Advance(time.Second)
		assert.Equal(t, start.Add(7*time.Millisecond), seen)
		assert.Equal(t, start.Add(time.Second), clk.Now())
	})

	t.Run("stop prevents firing", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var fired bool
		timer := clk.AfterFunc(time.Millisecond, func() { fired = true })

		require.True(t, timer.Stop())
		assert.False(t, timer.Stop())

		clk.Advance(time.Second)
		assert.False(t, fired)
	})

	t.Run("stop after fire reports false", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		timer := clk.AfterFunc(time.Millisecond, func() {})
		clk.Advance(time.Millisecond)
		assert.False(t, timer.Stop())
	})

	t.Run("timers armed by callbacks fire when due", func(t *testing.T) {
		t.Parallel()
		clk := clock.NewFake(start)
		var chain []int
		clk.AfterFunc(time.Millisecond, func() {
			chain = append(chain, 1)
			clk.AfterFunc(time.Millisecond, func() { chain = append(chain, 2) })
			clk.AfterFunc(time.Hour, func() { chain = append(chain, 3) })
		})

		clk.Advance(10 * time.Millisecond)
		assert.Equal(t, []int{1, 2}, chain)
		assert.Equal(t, 1, clk.Pending())
	})
}
