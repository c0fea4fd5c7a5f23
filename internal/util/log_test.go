package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		" info ":  LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"unknown": LevelInfo,
	}

	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelWarn, &buf)
	logger.Debugf("hidden %d", 1)
	logger.Infof("hidden %d", 2)
	logger.Warnf("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") {
		t.Fatalf("expected warn line, got %q", out)
	}

	logger.SetLevel(LevelTrace)
	logger.Tracef("now visible")
	if !strings.Contains(buf.String(), "[TRACE] now visible") {
		t.Fatalf("expected trace line after SetLevel, got %q", buf.String())
	}
}

func TestNilLoggerIsDisabled(t *testing.T) {
	var logger *Logger
	if logger.Enabled(LevelError) {
		t.Fatalf("nil logger should report disabled")
	}
}
