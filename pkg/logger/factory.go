package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format selects the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names accepted by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config describes a logger through environment variables. Handler configs
// embed it under their own prefix, e.g. TRANSITION_LOG_LEVEL.
type Config struct {
	Level   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Format  Format     `env:"LOG_FORMAT" envDefault:"json"`
	Service string     `env:"LOG_SERVICE"`
}

// Option configures New.
type Option func(*settings)

type settings struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat sets the encoding. An unknown format panics, since a
// misconfigured logger should stop startup.
func WithFormat(f Format) Option {
	return func(s *settings) {
		switch f {
		case FormatJSON, FormatText:
			s.format = f
		case "":
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput redirects records to w. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithContextExtractors adds attributes derived from the context of
// *Context log calls, e.g. a request or session ID of the caller that
// scheduled a transition.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name when it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*settings) {}
	}
	return WithContextExtractors(FromContextValue(name, key))
}

// WithEnvironment applies the preset for env and tags records with service.
// Production logs JSON from info up; anything else logs text from debug up.
func WithEnvironment(env, service string) Option {
	return func(s *settings) {
		if env == EnvProduction || env == "prod" {
			env, s.level, s.format = EnvProduction, slog.LevelInfo, FormatJSON
		} else {
			env, s.level, s.format = EnvDevelopment, slog.LevelDebug, FormatText
		}
		if service != "" {
			s.attrs = append(s.attrs, slog.String("service", service))
		}
		s.attrs = append(s.attrs, slog.String("env", env))
	}
}

// New builds a logger writing JSON at info level to stdout unless configured otherwise.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	handlerOpts := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler = slog.NewJSONHandler(s.output, handlerOpts)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.output, handlerOpts)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}

	return slog.New(withContext(h, s.extractors))
}

// NewFromConfig builds a logger from cfg; opts are applied on top.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithLevel(cfg.Level), WithFormat(cfg.Format)}
	if cfg.Service != "" {
		base = append(base, WithAttr(slog.String("service", cfg.Service)))
	}
	return New(append(base, opts...)...)
}
