package transition

import (
	"time"

	"github.com/dmitrymomot/delayed/pkg/config"
	"github.com/dmitrymomot/delayed/pkg/logger"
)

// Config describes a Handler through environment variables.
// The logger reads TRANSITION_LOG_LEVEL, TRANSITION_LOG_FORMAT and
// TRANSITION_LOG_SERVICE.
type Config struct {
	Name         string        `env:"TRANSITION_NAME" envDefault:"transition"`
	Delay        time.Duration `env:"TRANSITION_DELAY" envDefault:"0s"`
	InitialState State         `env:"TRANSITION_INITIAL_STATE" envDefault:"A"`
	Log          logger.Config `envPrefix:"TRANSITION_"`
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
func NewFromConfig(cfg Config, opts ...Option) (*Handler, error) {
	base := []Option{
		WithName(cfg.Name),
		WithInitialState(cfg.InitialState),
		WithLogger(logger.NewFromConfig(cfg.Log)),
	}
	return New(cfg.Delay, append(base, opts...)...)
}
