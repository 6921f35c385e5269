package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/delayed/pkg/logger"
)

type sessionKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("json at info by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello", slog.String("k", "v"))
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("gate")))
		log.Info("x")
		assert.Equal(t, "gate", decode(t, buf)["component"])
	})

	t.Run("context value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextValue("session", sessionKey{}),
		)
		ctx := context.WithValue(context.Background(), sessionKey{}, "s-42")
		log.With(logger.State("A")).InfoContext(ctx, "x")
		entry := decode(t, buf)
		assert.Equal(t, "s-42", entry["session"])
		assert.Equal(t, "A", entry["state"])
	})

	t.Run("context without value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextValue("session", sessionKey{}),
		)
		log.InfoContext(context.Background(), "x")
		assert.NotContains(t, decode(t, buf), "session")
	})

	t.Run("custom extractor in group", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(context.Context) (slog.Attr, bool) {
				return slog.Int("n", 7), true
			}),
		)
		log.WithGroup("g").InfoContext(context.Background(), "x")
		g, ok := decode(t, buf)["g"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 7, g["n"])
	})
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	assert.NotPanics(t, func() { logger.New(logger.WithFormat("")) })
}

func TestWithEnvironment(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("prod", "presence"))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())
		log.Info("x")
		entry := decode(t, buf)
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "presence", entry["service"])
	})

	t.Run("development", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("staging", ""))
		log.Debug("shown")
		assert.Contains(t, buf.String(), "msg=shown")
		assert.Contains(t, buf.String(), "env=development")
		assert.NotContains(t, buf.String(), "service=")
	})
}

func TestNewFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := logger.Config{Level: slog.LevelDebug, Format: logger.FormatJSON, Service: "voice"}
	log := logger.NewFromConfig(cfg, logger.WithOutput(buf))
	log.Debug("x")
	entry := decode(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "voice", entry["service"])
}
