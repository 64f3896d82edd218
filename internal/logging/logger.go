package logging

import (
	"io"
	"os"
	"time"

	"github.com/pgElephant/RetailMCP/internal/config"
	"github.com/rs/zerolog"
)

// Logger provides structured logging
type Logger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewLogger creates a new logger. When stdoutReserved is set (stdio transport)
// output requested on stdout is moved to stderr so protocol frames stay clean.
func NewLogger(cfg *config.LoggingConfig, stdoutReserved bool) *Logger {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		switch *cfg.Output {
		case "stdout":
			if !stdoutReserved {
				output = os.Stdout
			}
		case "stderr", "":
		default:
			if file, err := os.OpenFile(*cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				output = file
			}
		}
	}

	return New(output, cfg.Format, level)
}

// New builds a logger on an arbitrary writer.
func New(output io.Writer, format string, level zerolog.Level) *Logger {
	if format == "json" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	} else {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}
	}

	return &Logger{
		logger: zerolog.New(output).With().Timestamp().Logger().Level(level),
		level:  level,
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{logger: zerolog.Nop(), level: zerolog.Disabled}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, metadata map[string]interface{}) {
	l.log(zerolog.DebugLevel, message, metadata)
}

// Info logs an info message
func (l *Logger) Info(message string, metadata map[string]interface{}) {
	l.log(zerolog.InfoLevel, message, metadata)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, metadata map[string]interface{}) {
	l.log(zerolog.WarnLevel, message, metadata)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, metadata map[string]interface{}) {
	event := l.logger.Error()
	if err != nil {
		event = event.Err(err)
	}
	if metadata != nil {
		event = event.Fields(metadata)
	}
	event.Msg(message)
}

func (l *Logger) log(level zerolog.Level, message string, metadata map[string]interface{}) {
	if level < l.level {
		return
	}

	event := l.logger.WithLevel(level)
	if metadata != nil {
		event = event.Fields(metadata)
	}
	event.Msg(message)
}

// Child creates a child logger with additional metadata
func (l *Logger) Child(metadata map[string]interface{}) *Logger {
	return &Logger{
		logger: l.logger.With().Fields(metadata).Logger(),
		level:  l.level,
	}
}
