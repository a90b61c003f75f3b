// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a logger writing JSON lines to stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(serviceName, os.Stdout)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(serviceName string, w io.Writer) zerolog.Logger {
	// stacks from pkg/errors are rendered as-is; plain errors get one attached
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// WithLevel returns log filtered at the named level. Unknown or empty names keep info.
func WithLevel(log zerolog.Logger, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return log.Level(lvl)
}
