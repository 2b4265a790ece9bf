// Package log provides named slog loggers for lvlmk, backed by
// charmbracelet/log handlers. The level is taken from the LVLMK_LOG
// environment variable (debug, info, warn, error); it defaults to info.
package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// EnvVar is the environment variable consulted for the log level.
const EnvVar = "LVLMK_LOG"

// NewHandler returns a slog.Handler writing to stderr with the given prefix.
func NewHandler(name string) slog.Handler {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
		Level:           levelFromEnv(),
	})
}

// New returns a named logger.
func New(name string) *slog.Logger {
	return slog.New(NewHandler(name))
}

// NewContext returns a context carrying a fresh named logger.
func NewContext(ctx context.Context, name string) context.Context {
	return IntoContext(ctx, New(name))
}

func levelFromEnv() log.Level {
	v := os.Getenv(EnvVar)
	if v == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(v)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

type ctxKey struct{}

// IntoContext adds a logger to a context. Use FromContext to
// pull the logger out.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the default slog
// logger when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if v := ctx.Value(ctxKey{}); v != nil {
			return v.(*slog.Logger)
		}
	}
	return slog.Default()
}

// SubLogger derives a new logger by appending a suffix to the prefix of
// base, e.g. "lvlmk" becomes "lvlmk/watch".
func SubLogger(base *slog.Logger, suffix string) *slog.Logger {
	if cl, ok := base.Handler().(*log.Logger); ok {
		prefix := cl.GetPrefix()
		if prefix != "" {
			prefix = prefix + "/" + suffix
		} else {
			prefix = suffix
		}
		return slog.New(NewHandler(prefix))
	}
	return slog.New(NewHandler(suffix))
}
