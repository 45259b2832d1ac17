// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"voicegrade/pkg/bitint"
)

// dB bounds for mapping magnitudes onto the byte range.
const (
	spectrumMinDB = -100.0
	spectrumMaxDB = -30.0
)

// Spectrum is the live frequency source consumed by the visualizer.
// The capture engine pushes sample buffers into Process from the audio
// callback; the visualizer reads byte-scaled magnitudes each display
// tick via ReadMagnitudes. All buffers are pre-allocated, so neither
// side allocates after construction.
type Spectrum struct {
	fftCalc    *fourier.FFT
	fftSize    int
	sampleRate float64

	mu        sync.RWMutex
	input     []float64
	coeffs    []complex128
	magnitude []float64
	window    []float64
}

// NewSpectrum creates a Spectrum with the given transform size (a
// power of 2; bin count is fftSize/2) and window function name.
func NewSpectrum(fftSize int, sampleRate float64, windowName string) (*Spectrum, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	coeffs := make([]float64, fftSize)
	if err := applyWindow(coeffs, windowName); err != nil {
		return nil, err
	}

	return &Spectrum{
		fftCalc:    fourier.NewFFT(fftSize),
		fftSize:    fftSize,
		sampleRate: sampleRate,
		input:      make([]float64, fftSize),
		coeffs:     make([]complex128, fftSize/2+1),
		magnitude:  make([]float64, fftSize/2+1),
		window:     coeffs,
	}, nil
}

// Process windows the sample buffer, runs the FFT and stores the
// magnitudes. Input shorter than the transform size is zero-padded.
func (s *Spectrum) Process(samples []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.fftSize; i++ {
		if i < len(samples) {
			s.input[i] = samples[i] * s.window[i]
		} else {
			s.input[i] = 0
		}
	}

	s.fftCalc.Coefficients(s.coeffs, s.input)
	for i, c := range s.coeffs {
		s.magnitude[i] = cmplx.Abs(c)
	}
}

// FrequencyBinCount returns the number of usable magnitude bins.
func (s *Spectrum) FrequencyBinCount() int {
	return s.fftSize / 2
}

// ReadMagnitudes fills dst with the latest magnitudes scaled onto
// [0, 255] through a dB mapping. dst longer than the bin count is
// zero-filled past the end; a shorter dst receives a prefix. Never
// allocates.
func (s *Spectrum) ReadMagnitudes(dst []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bins := s.fftSize / 2
	norm := 2.0 / float64(s.fftSize)
	for i := range dst {
		if i >= bins {
			dst[i] = 0
			continue
		}
		dst[i] = scaleToByte(s.magnitude[i] * norm)
	}
}

// FrequencyForBin returns the center frequency (Hz) of a bin index.
func (s *Spectrum) FrequencyForBin(binIndex int) float64 {
	if binIndex < 0 || binIndex >= s.fftSize/2 {
		return 0
	}
	return float64(binIndex) * (s.sampleRate / float64(s.fftSize))
}

// SampleRate returns the configured sample rate (Hz).
func (s *Spectrum) SampleRate() float64 {
	return s.sampleRate
}

// scaleToByte maps a linear amplitude onto [0, 255] between
// spectrumMinDB and spectrumMaxDB.
func scaleToByte(amplitude float64) byte {
	if amplitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(amplitude)
	v := (db - spectrumMinDB) / (spectrumMaxDB - spectrumMinDB) * 255
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// applyWindow fills coeffs with the named window function. Unknown
// names are an error so config typos surface at startup.
func applyWindow(coeffs []float64, name string) error {
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch strings.ToLower(name) {
	case "", "hann", "hanning":
		window.Hann(coeffs)
	case "hamming":
		window.Hamming(coeffs)
	case "blackman":
		window.Blackman(coeffs)
	case "blackmannuttall":
		window.BlackmanNuttall(coeffs)
	case "nuttall":
		window.Nuttall(coeffs)
	case "lanczos":
		window.Lanczos(coeffs)
	case "bartletthann":
		window.BartlettHann(coeffs)
	case "rectangular", "none":
		// coeffs stay 1.0
	default:
		return fmt.Errorf("unknown window function %q", name)
	}
	return nil
}
