// Package logging builds the zerolog logger used for run-level output, and adapts it to the
// Printf-style interface that the test framework uses.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/titanic-qa/api-contract-tests/framework"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error. Defaults to info when
	// empty or unrecognised.
	Level string

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type printfLogger struct {
	log   zerolog.Logger
	level zerolog.Level
}

// PrintfLogger returns a framework.Logger that writes each message to log at the given level.
func PrintfLogger(log zerolog.Logger, level zerolog.Level) framework.Logger {
	return printfLogger{log: log, level: level}
}

func (p printfLogger) Printf(message string, args ...interface{}) {
	p.log.WithLevel(p.level).Msgf(message, args...)
}
