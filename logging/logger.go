// Package logging configures the zerolog logger shared by the server.
//
// In debug mode output goes to the console only. Otherwise every event is
// also appended as a JSON line to the error log file, carrying the timestamp,
// level, message and the caller's source location.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the logger, installs it as the zerolog global and routes the
// standard library logger through it. The returned closer releases the log file.
func Setup(debug bool, level, errorLogPath string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}

	var out io.Writer = console
	var closer io.Closer = nopCloser{}
	if !debug && errorLogPath != "" {
		f, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open error log %s: %w", errorLogPath, err)
		}
		out = zerolog.MultiLevelWriter(console, f)
		closer = f
	}

	logger := New(out, lvl)
	log.Logger = logger

	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)

	return logger, closer, nil
}

// New returns a logger writing to w with timestamp and caller fields.
func New(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
}
