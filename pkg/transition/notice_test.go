package transition_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/delayed/pkg/broadcast"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

func TestNotices(t *testing.T) {
	t.Parallel()

	feed := broadcast.NewMemoryBroadcaster[transition.Notice](8)
	t.Cleanup(func() { _ = feed.Close() })
	sub := feed.Subscribe(t.Context())

	h, clk := newFakeHandler(t, 20*time.Millisecond,
		transition.WithName("voice"),
		transition.WithBroadcaster(feed),
	)

	_, err := h.ScheduleTransition()
	require.NoError(t, err)
	clk.Advance(20 * time.Millisecond)

	next := func() transition.Notice {
		t.Helper()
		select {
		case msg := <-sub.Receive(t.Context()):
			return msg.Data
		case <-time.After(time.Second):
			t.Fatal("notice not delivered")
			return transition.Notice{}
		}
	}

	scheduled := next()
	assert.Equal(t, "voice", scheduled.Handler)
	assert.Equal(t, transition.EventScheduled, scheduled.Event)
	assert.Equal(t, transition.StatePending, scheduled.State)
	assert.Equal(t, epoch, scheduled.At)
	assert.NotEqual(t, uuid.Nil, scheduled.ID)

	finished := next()
	assert.Equal(t, transition.EventFinished, finished.Event)
	assert.Equal(t, transition.StateB, finished.State)
	assert.Equal(t, epoch.Add(20*time.Millisecond), finished.At)
	assert.NotEqual(t, scheduled.ID, finished.ID)
}
