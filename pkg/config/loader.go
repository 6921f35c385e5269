package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores parsed configurations keyed by type name and env prefix.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// LoadOption tunes a single Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	prefix string
}

// WithPrefix prepends prefix to every env tag of the target struct, so the same
// struct type can describe several independently configured instances,
// e.g. VOICE_TRANSITION_DELAY and STREAM_TRANSITION_DELAY.
// Each prefix is cached separately.
func WithPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// Load parses environment variables into v based on its `env` tags.
//
// The default .env file is read once per process if it exists. Each unique
// type/prefix pair is parsed only once; later calls receive the cached copy.
//
// Example:
//
//	type TransitionConfig struct {
//		Delay time.Duration `env:"TRANSITION_DELAY" envDefault:"5s"`
//	}
//
//	var cfg TransitionConfig
//	if err := config.Load(&cfg, config.WithPrefix("VOICE_")); err != nil {
//		// Handle error
//	}
func Load[T any](v *T, opts ...LoadOption) error {
	defaultEnvLoaded.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	key := getTypeName[T]() + "|" + o.prefix

	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}

	globalCache.mu.Lock()
	once, exists := globalCache.onces[key]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[key] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		if parseErr := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			// Let a later call retry once the environment is fixed.
			globalCache.mu.Lock()
			delete(globalCache.onces, key)
			globalCache.mu.Unlock()
			return
		}

		globalCache.mu.Lock()
		globalCache.values[key] = *v
		globalCache.mu.Unlock()
	})

	if err != nil {
		return err
	}

	if cached, ok := globalCache.get(key); ok {
		*v = cached.(T)
		return nil
	}

	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...LoadOption) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment.
// Variables that are already set are not overridden.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// ResetCache forgets every cached configuration so the next Load parses the
// environment again. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	clear(globalCache.values)
	clear(globalCache.onces)
}

func (c *configCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func getTypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
