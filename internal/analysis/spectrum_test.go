// SPDX-License-Identifier: MIT
package analysis

import (
	"testing"

	"voicegrade/pkg/wavegen"
)

func TestNewSpectrum_Validation(t *testing.T) {
	tests := []struct {
		desc       string
		fftSize    int
		sampleRate float64
		window     string
		wantErr    bool
	}{
		{"valid", 256, 44100, "hann", false},
		{"default window", 256, 44100, "", false},
		{"rectangular", 512, 48000, "none", false},
		{"non power of two", 300, 44100, "hann", true},
		{"zero size", 0, 44100, "hann", true},
		{"bad sample rate", 256, 0, "hann", true},
		{"unknown window", 256, 44100, "triangle", true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := NewSpectrum(tt.fftSize, tt.sampleRate, tt.window)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSpectrum error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpectrum_BinCount(t *testing.T) {
	s, err := NewSpectrum(256, 44100, "hann")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.FrequencyBinCount(); got != 128 {
		t.Errorf("FrequencyBinCount = %d, want 128", got)
	}
}

func TestSpectrum_PeakBin(t *testing.T) {
	const fftSize = 256
	const sampleRate = 44100.0
	s, err := NewSpectrum(fftSize, sampleRate, "hann")
	if err != nil {
		t.Fatal(err)
	}

	// Tone centered exactly on bin 10.
	const bin = 10
	freq := bin * sampleRate / fftSize
	s.Process(wavegen.Sine(fftSize, sampleRate, freq, 0.9))

	magnitudes := make([]byte, s.FrequencyBinCount())
	s.ReadMagnitudes(magnitudes)

	peakBin := 0
	for i := range magnitudes {
		if magnitudes[i] > magnitudes[peakBin] {
			peakBin = i
		}
	}
	if peakBin != bin {
		t.Errorf("peak bin = %d, want %d", peakBin, bin)
	}
	if magnitudes[bin] == 0 {
		t.Error("expected non-zero magnitude at the tone bin")
	}
}

func TestSpectrum_SilenceReadsZero(t *testing.T) {
	s, err := NewSpectrum(256, 44100, "hann")
	if err != nil {
		t.Fatal(err)
	}
	s.Process(wavegen.Silence(256))

	magnitudes := make([]byte, s.FrequencyBinCount())
	s.ReadMagnitudes(magnitudes)
	for i, m := range magnitudes {
		if m != 0 {
			t.Fatalf("bin %d = %d, want 0 for silence", i, m)
		}
	}
}

func TestSpectrum_ReadMagnitudesSizes(t *testing.T) {
	s, err := NewSpectrum(256, 44100, "hann")
	if err != nil {
		t.Fatal(err)
	}
	s.Process(wavegen.Sine(256, 44100, 1722.65625, 0.9))

	// Oversized destination is zero-filled past the bin count.
	long := make([]byte, 200)
	for i := range long {
		long[i] = 0xFF
	}
	s.ReadMagnitudes(long)
	for i := 128; i < len(long); i++ {
		if long[i] != 0 {
			t.Fatalf("byte %d = %d, want 0 past bin count", i, long[i])
		}
	}

	// Short destination receives a prefix without panicking.
	short := make([]byte, 16)
	s.ReadMagnitudes(short)
}

func TestSpectrum_ReadMagnitudesNoAllocs(t *testing.T) {
	s, err := NewSpectrum(256, 44100, "hann")
	if err != nil {
		t.Fatal(err)
	}
	s.Process(wavegen.Voice(256, 44100, 220))

	buffer := make([]byte, s.FrequencyBinCount())
	allocs := testing.AllocsPerRun(100, func() {
		s.ReadMagnitudes(buffer)
	})
	if allocs > 0 {
		t.Errorf("ReadMagnitudes allocated %.1f times per run, want 0", allocs)
	}
}

func TestSpectrum_FrequencyForBin(t *testing.T) {
	s, err := NewSpectrum(256, 44100, "hann")
	if err != nil {
		t.Fatal(err)
	}

	if got := s.FrequencyForBin(0); got != 0 {
		t.Errorf("FrequencyForBin(0) = %v, want 0", got)
	}
	want := 10 * 44100.0 / 256
	if got := s.FrequencyForBin(10); got != want {
		t.Errorf("FrequencyForBin(10) = %v, want %v", got, want)
	}
	if got := s.FrequencyForBin(-1); got != 0 {
		t.Errorf("FrequencyForBin(-1) = %v, want 0", got)
	}
	if got := s.FrequencyForBin(128); got != 0 {
		t.Errorf("FrequencyForBin(128) = %v, want 0", got)
	}
}
