// SPDX-License-Identifier: MIT
//
// Package wavegen generates synthetic waveforms for tests and
// calibration. Samples are float64 in [-1, 1].
package wavegen

import "math"

// Sine returns size samples of a pure sine wave at the given
// frequency (Hz) and amplitude.
func Sine(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*frequency*t) * amplitude
	}
	return buffer
}

// Voice returns size samples of a vocal-like tone: a fundamental
// plus two decaying harmonics.
func Voice(size int, sampleRate, fundamental float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*fundamental*t)*0.5 +
			math.Sin(2*math.Pi*2*fundamental*t)*0.3 +
			math.Sin(2*math.Pi*3*fundamental*t)*0.2
	}
	return buffer
}

// Silence returns size zero-valued samples.
func Silence(size int) []float64 {
	return make([]float64, size)
}
