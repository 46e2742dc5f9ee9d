// Package logging provides structured logging for channelsync via zerolog.
// Output is console-formatted on a terminal and JSON everywhere else; the
// LOG_LEVEL, LOG_FORMAT, DEBUG, and NO_COLOR environment variables tune it.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger. Replaced via SetDefault.
var defaultLogger zerolog.Logger

func init() {
	level := levelFromEnv()
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stderr
	if stderrIsTerminal() && os.Getenv("LOG_FORMAT") != "json" {
		w = consoleWriter()
	}

	defaultLogger = New(w).Level(level)
	if level <= zerolog.DebugLevel {
		defaultLogger = defaultLogger.With().Caller().Logger()
	}
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger. zerolog's own global logger
// follows it so third-party code logging through zerolog/log stays aligned.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a timestamped logger writing to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger on stderr.
func NewConsole() zerolog.Logger {
	return New(consoleWriter())
}

// NewJSON creates a structured JSON logger writing to w.
func NewJSON(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(w)
}

// Info starts an info-level event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Error starts an error-level event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func levelFromEnv() zerolog.Level {
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if level, err := zerolog.ParseLevel(s); err == nil {
			return level
		}
		return zerolog.InfoLevel
	}
	if os.Getenv("DEBUG") != "" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
