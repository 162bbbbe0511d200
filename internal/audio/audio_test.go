package audio

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("name", "test")
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Mode != ModeVoice {
		t.Errorf("expected default mode voice, got %s", s.Mode)
	}
	if s.SampleRate != 44100 {
		t.Errorf("expected default sample rate 44100, got %f", s.SampleRate)
	}
	if s.IOBufferDuration != 5*time.Millisecond {
		t.Errorf("expected default IO buffer 5ms, got %s", s.IOBufferDuration)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings must validate: %v", err)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"bad mode", Settings{Mode: "surround", SampleRate: 44100, IOBufferDuration: time.Millisecond}},
		{"zero sample rate", Settings{Mode: ModeVoice, SampleRate: 0, IOBufferDuration: time.Millisecond}},
		{"zero buffer", Settings{Mode: ModeVideo, SampleRate: 48000, IOBufferDuration: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.settings.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoggingConfigure(t *testing.T) {
	c := NewLogging(testLog())
	if err := c.Configure(DefaultSettings()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.Configure(Settings{Mode: "surround"}); err == nil {
		t.Error("expected error for invalid settings")
	}
}
