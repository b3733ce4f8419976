// Package logx builds the zerolog logger used for HTTP access logs.
package logx

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewAccessLogger returns a console logger writing to os.Stdout.
func NewAccessLogger(level slog.Level) zerolog.Logger {
	return New(os.Stdout, level)
}

// New returns a console logger writing to w at the zerolog level matching level.
func New(w io.Writer, level slog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stdout,
	}
	return zerolog.New(output).Level(Level(level)).With().Timestamp().Logger()
}

// Level maps a slog level onto zerolog.
func Level(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
