package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	for _, tc := range []struct {
		level string
		dev   bool
		on    zapcore.Level
		off   zapcore.Level
	}{
		{"debug", false, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", true, zapcore.ErrorLevel, zapcore.WarnLevel},
	} {
		l, err := New(tc.level, tc.dev)
		if err != nil {
			t.Fatalf("New(%q): %v", tc.level, err)
		}
		if !l.Core().Enabled(tc.on) {
			t.Fatalf("%s: level %s should be enabled", tc.level, tc.on)
		}
		if l.Core().Enabled(tc.off) {
			t.Fatalf("%s: level %s should be disabled", tc.level, tc.off)
		}
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Fatalf("want error for unknown level")
	}
	if l := Must("chatty", false); l == nil {
		t.Fatalf("Must returned nil")
	}
}
