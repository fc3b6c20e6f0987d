package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelInfo, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("visible %d", 2)
	logger.Error("loud %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "visible 2") {
		t.Error("info message missing")
	}
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "loud 3") {
		t.Error("error message missing")
	}
}

func TestDefaultLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelInfo, &buf)

	logger.WithField("level", 2).WithField("dataset", "d1").Info("movement done")

	out := buf.String()
	if !strings.Contains(out, "level=2") || !strings.Contains(out, "dataset=d1") {
		t.Errorf("expected fields in output, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"ERROR":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNullLogger(t *testing.T) {
	var logger Logger = &NullLogger{}
	logger.Info("dropped")
	if logger.WithField("k", "v") != logger {
		t.Error("NullLogger.WithField must return itself")
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	if timer.ElapsedMs() < 0 {
		t.Error("elapsed time must be non-negative")
	}
	timer.Reset()
	if timer.Elapsed() < 0 {
		t.Error("elapsed duration must be non-negative after reset")
	}
}
