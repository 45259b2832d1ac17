// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"time"

	"voicegrade/pkg/bitint"
)

// Boundaries and defaults for the capture and analysis pipeline.
const (
	DefaultSampleRate    = 44100 // CD-quality audio
	DefaultChannels      = 1     // Mono capture
	DefaultDeviceID      = MinDeviceID
	DefaultFFTSize       = 256                    // 128 visualization bins
	DefaultChunkInterval = 250 * time.Millisecond // Capture chunk cadence
	DefaultFrameInterval = 16 * time.Millisecond  // ~60Hz visualization refresh

	MinDeviceID   = -1     // -1 selects the system default device
	MinSampleRate = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)
	MaxFFTSize    = 8192
)

// Config is the root application configuration, loaded from YAML with
// environment overrides applied on top.
type Config struct {
	Debug     bool        `yaml:"debug"`
	LogLevel  string      `yaml:"log_level"`
	Audio     AudioConfig `yaml:"audio"`
	Viz       VizConfig   `yaml:"visualization"`
	Transport Transport   `yaml:"transport"`
}

// AudioConfig holds capture device and pipeline settings.
type AudioConfig struct {
	DeviceID         int           `yaml:"device_id"`          // PortAudio device index (-1 for default)
	SampleRate       float64       `yaml:"sample_rate"`        // Sample rate in Hz
	Channels         int           `yaml:"channels"`           // 1=mono, 2=stereo
	ChunkInterval    time.Duration `yaml:"chunk_interval"`     // Interval between emitted capture chunks
	EchoCancellation bool          `yaml:"echo_cancellation"`  // Device-side echo cancellation hint
	NoiseSuppression bool          `yaml:"noise_suppression"`  // Device-side noise suppression hint
	AutoGainControl  bool          `yaml:"auto_gain_control"`  // Device-side AGC hint
	GateThreshold    float64       `yaml:"gate_threshold"`     // Noise gate for the visualization feed, 0 disables
}

// VizConfig holds settings for the real-time frequency display.
type VizConfig struct {
	FFTSize       int           `yaml:"fft_size"`       // Transform size (power of 2); bins = size/2
	FrameInterval time.Duration `yaml:"frame_interval"` // Display refresh cadence
	Window        string        `yaml:"window"`         // Window function name (e.g. "hann")
}

// Transport holds settings for publishing visualization frames.
type Transport struct {
	WebSocketAddr string `yaml:"websocket_addr"` // Listen address for the frame websocket, empty disables
	UDPTarget     string `yaml:"udp_target"`     // Target address for UDP frame packets, empty disables
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			DeviceID:         DefaultDeviceID,
			SampleRate:       DefaultSampleRate,
			Channels:         DefaultChannels,
			ChunkInterval:    DefaultChunkInterval,
			EchoCancellation: true,
			NoiseSuppression: true,
			AutoGainControl:  true,
			GateThreshold:    0.001,
		},
		Viz: VizConfig{
			FFTSize:       DefaultFFTSize,
			FrameInterval: DefaultFrameInterval,
			Window:        "hann",
		},
		Transport: Transport{
			WebSocketAddr: "",
			UDPTarget:     "",
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %.0f out of range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Audio.ChunkInterval <= 0 {
		return fmt.Errorf("audio.chunk_interval must be positive, got %s", c.Audio.ChunkInterval)
	}
	if !bitint.IsPowerOfTwo(c.Viz.FFTSize) || c.Viz.FFTSize > MaxFFTSize {
		return fmt.Errorf("visualization.fft_size must be a power of 2 <= %d, got %d",
			MaxFFTSize, c.Viz.FFTSize)
	}
	if c.Viz.FrameInterval <= 0 {
		return fmt.Errorf("visualization.frame_interval must be positive, got %s", c.Viz.FrameInterval)
	}
	return nil
}
