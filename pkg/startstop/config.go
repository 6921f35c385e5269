package startstop

import (
	"time"

	"github.com/dmitrymomot/delayed/pkg/config"
	"github.com/dmitrymomot/delayed/pkg/logger"
	"github.com/dmitrymomot/delayed/pkg/transition"
)

// Config describes a Handler through environment variables.
// The logger reads STARTSTOP_LOG_LEVEL, STARTSTOP_LOG_FORMAT and
// STARTSTOP_LOG_SERVICE.
type Config struct {
	Name         string           `env:"STARTSTOP_NAME" envDefault:"startstop"`
	StartDelay   time.Duration    `env:"STARTSTOP_START_DELAY" envDefault:"0s"`
	StopDelay    time.Duration    `env:"STARTSTOP_STOP_DELAY" envDefault:"0s"`
	InitialState transition.State `env:"STARTSTOP_INITIAL_STATE" envDefault:"STOPPED"`
	Log          logger.Config    `envPrefix:"STARTSTOP_"`
}

// LoadConfig reads Config from the environment, with every variable name
// preceded by prefix. Results are cached per prefix.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, config.WithPrefix(prefix)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Handler from cfg, logging through a logger built
// from cfg.Log. Explicit opts win over cfg.
func NewFromConfig(cfg Config, opts ...transition.Option) (*Handler, error) {
	base := []transition.Option{
		transition.WithName(cfg.Name),
		transition.WithInitialState(cfg.InitialState),
		transition.WithLogger(logger.NewFromConfig(cfg.Log)),
	}
	return New(cfg.StartDelay, cfg.StopDelay, append(base, opts...)...)
}
