// Package telemetry centralizes zerolog logger construction so every
// component process writes the same structured, component-tagged JSON
// (or console, for the `run` command) format, the way the teacher's CLI layer wires up
// a single logger root and hands callers a scoped child.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a root logger writing to w. When pretty is true, output goes
// through zerolog's ConsoleWriter (for interactive `run` sessions);
// otherwise it emits newline-delimited JSON, which is what every re-exec'd
// component process uses (the hidden `component` command passes
// pretty=false); those processes share the supervisor's stdout/stderr.
func New(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Default builds a root logger writing JSON to stderr at info level, the
// sane default for a component subprocess before it has parsed its own
// flags.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel, false)
}

// Scoped returns a child logger tagged with component, the convention
// every package in this tree uses to identify which of the simulator's
// processes emitted a given log line.
func Scoped(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// ParseLevel wraps zerolog.ParseLevel, falling back to InfoLevel on a
// bad/empty string rather than erroring, since this is only ever used to
// interpret a --log-level CLI flag with InfoLevel as its default.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
