package refetch

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger is the minimal structured logging interface used for debug output.
// Arguments after the message are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes levelled log lines to stderr. Intended for examples
// and quick debugging, not production logging.
type SimpleLogger struct{}

// NewSimpleLogger returns a console logger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{}
}

func (l *SimpleLogger) log(level, msg string, keysAndValues ...any) {
	line := fmt.Sprintf("[%s] %s", level, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		line += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	fmt.Fprintln(os.Stderr, line)
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues...)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues...)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues...)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues...)
}

// SlogLogger adapts a *slog.Logger to the Logger interface, so any slog
// handler (tint, JSON, etc.) can receive debug output.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an slog logger. A nil argument uses slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// DebugConfig gates per-concern debug logging of the fetch lifecycle.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogTimeouts  bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled config with all concerns selected
// and UUID request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogTimeouts:  true,
		RequestIDGen: DefaultRequestIDGenerator,
	}
}

// DefaultRequestIDGenerator produces a random UUID per fetch.
func DefaultRequestIDGenerator() string {
	return uuid.NewString()
}
