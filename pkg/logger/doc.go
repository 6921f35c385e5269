// Package logger builds *slog.Logger instances for transition handlers and
// keeps attribute keys consistent across packages.
//
// New takes functional options; NewFromConfig takes a Config parsed from the
// environment (LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, usually under a handler
// prefix). Context extractors add caller-scoped values to records logged
// with the *Context methods:
//
//	log := logger.New(
//		logger.WithEnvironment(logger.EnvDevelopment, "presence"),
//		logger.WithContextValue("session", sessionKey{}),
//	)
//	log.DebugContext(ctx, "wait settled", logger.State("B"))
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally.
package logger
