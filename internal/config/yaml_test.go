// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.Viz.FFTSize != DefaultFFTSize {
		t.Errorf("expected default fft size %d, got %d", DefaultFFTSize, cfg.Viz.FFTSize)
	}
	if cfg.Audio.ChunkInterval != DefaultChunkInterval {
		t.Errorf("expected default chunk interval %s, got %s",
			DefaultChunkInterval, cfg.Audio.ChunkInterval)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
audio:
  sample_rate: 48000
  chunk_interval: 100ms
visualization:
  fft_size: 512
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample rate not loaded: got %.0f", cfg.Audio.SampleRate)
	}
	if cfg.Audio.ChunkInterval != 100*time.Millisecond {
		t.Errorf("chunk interval not loaded: got %s", cfg.Audio.ChunkInterval)
	}
	if cfg.Viz.FFTSize != 512 {
		t.Errorf("fft size not loaded: got %d", cfg.Viz.FFTSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, "sample_rate"},
		{"bad channels", func(c *Config) { c.Audio.Channels = 3 }, "channels"},
		{"bad chunk interval", func(c *Config) { c.Audio.ChunkInterval = 0 }, "chunk_interval"},
		{"non power of two fft", func(c *Config) { c.Viz.FFTSize = 300 }, "fft_size"},
		{"bad frame interval", func(c *Config) { c.Viz.FrameInterval = -1 }, "frame_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOICEGRADE_DEBUG", "true")
	t.Setenv("VOICEGRADE_WS_ADDR", ":9001")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug {
		t.Error("expected debug override from env")
	}
	if cfg.Transport.WebSocketAddr != ":9001" {
		t.Errorf("expected websocket addr override, got %q", cfg.Transport.WebSocketAddr)
	}
}
