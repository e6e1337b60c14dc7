package observability

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := DetermineLogLevel(tt.in); got != tt.want {
			t.Errorf("DetermineLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLogger(t *testing.T) {
	logger := InitLogger("warn")
	if logger.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !logger.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error disabled at warn level")
	}
}
