package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cryptoPOC/internal/ports"

	"github.com/rs/zerolog"
)

// LogLevel defines the logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string level to LogLevel.
func ParseLevel(levelStr string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "FATAL":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("%w: unknown log level %q (want DEBUG, INFO, WARNING, ERROR or CRITICAL)", ports.ErrConfigurationError, levelStr)
	}
}

// zerologLevel maps a LogLevel onto the zerolog threshold.
// CRITICAL sits above error, so nothing the application logs gets through.
func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds logger settings.
type Config struct {
	Level  LogLevel
	Format Format
	Output io.Writer // Defaults to os.Stdout
}

// ZerologLogger implements the ports.Logger interface on top of zerolog.
type ZerologLogger struct {
	zl    zerolog.Logger
	level LogLevel
}

// New creates a new zerolog-backed logger.
func New(cfg Config) *ZerologLogger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	zl := zerolog.New(out).
		Level(cfg.Level.zerologLevel()).
		With().
		Timestamp().
		Logger()

	return &ZerologLogger{zl: zl, level: cfg.Level}
}

// Level returns the configured threshold.
func (l *ZerologLogger) Level() LogLevel {
	return l.level
}

func addFields(event *zerolog.Event, fields []ports.Fields) *zerolog.Event {
	if len(fields) > 0 && fields[0] != nil {
		event = event.Fields(fields[0])
	}
	return event
}

// Debug logs a message at Debug level.
func (l *ZerologLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields) {
	addFields(l.zl.Debug(), fields).Msg(msg)
}

// Info logs a message at Info level.
func (l *ZerologLogger) Info(ctx context.Context, msg string, fields ...ports.Fields) {
	addFields(l.zl.Info(), fields).Msg(msg)
}

// Warn logs a message at Warning level.
func (l *ZerologLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields) {
	addFields(l.zl.Warn(), fields).Msg(msg)
}

// Error logs an error message at Error level.
func (l *ZerologLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {
	addFields(l.zl.Error().Err(err), fields).Msg(msg)
}
