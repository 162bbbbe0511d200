// Package audio is the boundary to audio-hardware session tuning. The
// coordinator triggers configuration on the accept transition and treats
// the implementation as a side-effecting black box.
package audio

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Session modes.
const (
	ModeVoice = "voice"
	ModeVideo = "video"
)

// Settings describes the audio session parameters applied on accept.
type Settings struct {
	Mode             string
	SampleRate       float64
	IOBufferDuration time.Duration
}

// DefaultSettings returns the stock voice-call tuning.
func DefaultSettings() Settings {
	return Settings{
		Mode:             ModeVoice,
		SampleRate:       44100,
		IOBufferDuration: 5 * time.Millisecond,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.Mode != ModeVoice && s.Mode != ModeVideo {
		return fmt.Errorf("audio mode must be %q or %q, got %q", ModeVoice, ModeVideo, s.Mode)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive, got %f", s.SampleRate)
	}
	if s.IOBufferDuration <= 0 {
		return fmt.Errorf("audio IO buffer duration must be positive, got %s", s.IOBufferDuration)
	}
	return nil
}

// Configurator applies audio session settings to the hardware.
type Configurator interface {
	Configure(Settings) error
}

// Logging is a Configurator that records what it would apply. It stands
// in for the platform audio stack when running without one.
type Logging struct {
	log *logrus.Entry
}

// NewLogging creates a logging Configurator.
func NewLogging(log *logrus.Entry) *Logging {
	return &Logging{log: log}
}

func (l *Logging) Configure(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	l.log.Infof("configuring audio session: mode=%s sample_rate=%.0f io_buffer=%s",
		s.Mode, s.SampleRate, s.IOBufferDuration)
	return nil
}
