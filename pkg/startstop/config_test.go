package startstop_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/delayed/pkg/clock"
	"github.com/dmitrymomot/delayed/pkg/config"
	"github.com/dmitrymomot/delayed/pkg/logger"
	"github.com/dmitrymomot/delayed/pkg/startstop"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

func TestNewFromConfig(t *testing.T) {
	t.Setenv("STARTSTOP_START_DELAY", "1s")
	t.Setenv("STARTSTOP_STOP_DELAY", "30s")
	t.Setenv("STARTSTOP_INITIAL_STATE", "STARTED")

	var cfg startstop.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "startstop", cfg.Name)

	clk := clock.NewFake(epoch)
	h, err := startstop.NewFromConfig(cfg, transition.WithClock(clk))
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, startstop.StateStarted, h.State())
	assert.Equal(t, time.Second, h.StartDelay())
	assert.Equal(t, 30*time.Second, h.StopDelay())

	_, err = h.ScheduleStop()
	require.NoError(t, err)
	clk.Advance(30 * time.Second)
	assert.Equal(t, startstop.StateStopped, h.State())
}

func TestNewFromConfig_Zero(t *testing.T) {
	h, err := startstop.NewFromConfig(startstop.Config{})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, startstop.StateStopped, h.State())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CALL_STARTSTOP_START_DELAY", "500ms")
	t.Setenv("CALL_STARTSTOP_STOP_DELAY", "1m")
	t.Setenv("CALL_STARTSTOP_LOG_LEVEL", "warn")
	t.Setenv("CALL_STARTSTOP_LOG_SERVICE", "calls")

	cfg, err := startstop.LoadConfig("CALL_")
	require.NoError(t, err)
	assert.Equal(t, "startstop", cfg.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.StartDelay)
	assert.Equal(t, time.Minute, cfg.StopDelay)
	assert.Equal(t, startstop.StateStopped, cfg.InitialState)
	assert.Equal(t, slog.LevelWarn, cfg.Log.Level)
	assert.Equal(t, logger.FormatJSON, cfg.Log.Format)
	assert.Equal(t, "calls", cfg.Log.Service)

	h, err := startstop.NewFromConfig(cfg, transition.WithClock(clock.NewFake(epoch)))
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, time.Minute, h.StopDelay())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("BAD_STARTSTOP_LOG_FORMAT", "xml")

	cfg, err := startstop.LoadConfig("BAD_")
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = startstop.NewFromConfig(cfg) }, "unknown log format stops startup")
}
