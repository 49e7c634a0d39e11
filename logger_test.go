package refetch

import (
	"log/slog"
	"strings"
	"testing"
)

// Logger focused tests: light smoke tests ensuring exported logger APIs do
// not panic and remain callable. If richer logging behavior (format, sinks,
// filtering) is added later, expand assertions here.
func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message", "key", "value")
	logger.Info("info message")
	logger.Warn("warn message", "odd-key-only")
	logger.Error("error message", "attempt", 2)
}

func TestSlogLoggerForwards(t *testing.T) {
	var buf strings.Builder
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("debug message", "attempt", 1)
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "attempt=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %q: %s", want, out)
		}
	}
}

func TestSlogLoggerNilFallsBackToDefault(t *testing.T) {
	logger := NewSlogLogger(nil)
	if logger == nil {
		t.Fatal("NewSlogLogger(nil) returned nil")
	}
	logger.Info("still works")
}

func TestDefaultDebugConfig(t *testing.T) {
	config := DefaultDebugConfig()

	if config.Enabled {
		t.Error("Expected debug disabled by default")
	}
	if !config.LogRequests || !config.LogRetries || !config.LogTimeouts {
		t.Error("Expected all concerns selected by default")
	}
	if config.RequestIDGen == nil {
		t.Fatal("Expected RequestIDGen to be set")
	}
	first := config.RequestIDGen()
	second := config.RequestIDGen()
	if first == "" || first == second {
		t.Errorf("Expected distinct non-empty request IDs, got %q and %q", first, second)
	}
}
