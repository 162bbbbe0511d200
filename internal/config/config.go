package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/renwick/callpush/internal/audio"
)

type Config struct {
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Events  EventsConfig  `yaml:"events"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

type EventsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

type AudioConfig struct {
	Mode       string  `yaml:"mode"`
	SampleRate float64 `yaml:"sample_rate"`
	IOBufferMS int     `yaml:"io_buffer_ms"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// Settings converts the audio section to runtime settings.
func (a *AudioConfig) Settings() audio.Settings {
	return audio.Settings{
		Mode:             a.Mode,
		SampleRate:       a.SampleRate,
		IOBufferDuration: time.Duration(a.IOBufferMS) * time.Millisecond,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration defaults applied before the file is
// read.
func Default() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "callpush",
			TopicPrefix: "callpush",
		},
		Events: EventsConfig{
			ListenAddr: "127.0.0.1:8790",
			Path:       "/events",
		},
		Audio: AudioConfig{
			Mode:       audio.ModeVoice,
			SampleRate: 44100,
			IOBufferMS: 5,
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      "",
			MaxSizeMB: 100,
		},
	}
}

func (c *Config) validate() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if c.MQTT.ClientID == "" {
		return fmt.Errorf("mqtt.client_id is required")
	}
	if c.MQTT.TopicPrefix == "" {
		return fmt.Errorf("mqtt.topic_prefix is required")
	}
	if c.Events.ListenAddr == "" {
		return fmt.Errorf("events.listen_addr is required")
	}
	if c.Events.Path == "" || c.Events.Path[0] != '/' {
		return fmt.Errorf("events.path must start with /, got %q", c.Events.Path)
	}
	if err := c.Audio.Settings().Validate(); err != nil {
		return err
	}
	return nil
}
