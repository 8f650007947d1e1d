// Package logging configures the zerolog logger shared by the catalog
// binaries and hands out component and request scoped children.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as it appears in LOG_LEVEL.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level written. Unknown names mean info.
	Level LogLevel

	// Pretty switches from JSON lines to console output for local runs.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Service is stamped on every entry when set.
	Service string
}

// DefaultConfig returns JSON logging at info level for the API service.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Service: "catalog-api",
	}
}

// Setup installs the global logger described by cfg and returns it.
// Durations are written in milliseconds. Contexts without a request logger
// fall back to the global one.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.DurationFieldUnit = time.Millisecond

	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		fields = fields.Str("service", cfg.Service)
	}

	log.Logger = fields.Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return log.Logger
}

func parseLevel(level LogLevel) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(string(level)))
	if name == "warning" {
		name = "warn"
	}
	switch l, err := zerolog.ParseLevel(name); {
	case err != nil, name == "", l > zerolog.ErrorLevel, l < zerolog.DebugLevel:
		return zerolog.InfoLevel
	default:
		return l
	}
}

// NewLogger returns a child of the global logger tagged with component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// WithRequestID returns ctx carrying a logger tagged with the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := log.With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the request logger stored in ctx, or the global one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Scoped returns the request logger carried by ctx tagged with component,
// or fallback when ctx has no request logger.
func Scoped(ctx context.Context, fallback zerolog.Logger, component string) zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == zerolog.DefaultContextLogger || l.GetLevel() == zerolog.Disabled {
		return fallback
	}
	return l.With().Str("component", component).Logger()
}

// Levels in use:
//
//	debug  cache hit/miss per key, computed query timings, prefix invalidations
//	info   access log, product mutations, backend connections, seeding progress,
//	       startup and shutdown
//	warn   cache backend errors and corrupt entries, Redis unreachable at startup,
//	       5xx access log lines
//	error  store failures, recovered panics
//
// Common fields: component, request_id, key, operation, duration, status,
// id, sku.
