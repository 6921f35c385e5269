// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is read once per process if present, then the target
// struct is populated from its `env` tags.
//
// Each struct type is parsed once and cached by value. WithPrefix scopes the
// tags of a struct to a prefix and caches that combination separately, which
// lets several handlers share one config type:
//
//	var voice transition.Config
//	if err := config.Load(&voice, config.WithPrefix("VOICE_")); err != nil {
//		log.Fatal(err)
//	}
//
// A failed parse is not cached, so a later Load retries. Use ResetCache in
// tests that change the environment between loads, and LoadEnv to read extra
// .env files before the first Load.
//
// Errors can be compared with errors.Is against ErrParsingConfig,
// ErrNilPointer, ErrConfigNotLoaded and ErrLoadingEnvFile.
package config
