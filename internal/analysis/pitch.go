// SPDX-License-Identifier: MIT
package analysis

import "math"

const (
	// PitchWindow is the fixed autocorrelation analysis window.
	PitchWindow = 2048

	// pitchSilenceRMS gates out windows too quiet to carry a tone.
	pitchSilenceRMS = 0.01

	// pitchMinCorrelation is the hard acceptance threshold; weaker
	// candidates are treated as no clear periodicity.
	pitchMinCorrelation = 0.9

	// PitchUndetected marks clips with no detectable fundamental.
	PitchUndetected = -1
)

// EstimatePitch returns the fundamental frequency (Hz) of a monophonic
// vocal tone estimated by time-domain autocorrelation over the first
// PitchWindow samples, or PitchUndetected.
//
// Clips shorter than the window return PitchUndetected rather than
// scanning a truncated window, which would silently shrink the lag
// range. The whole scan is O(PitchWindow^2), fine for one post-hoc
// pass but never for per-frame use.
func EstimatePitch(samples []float64, sampleRate int) float64 {
	if sampleRate <= 0 || len(samples) < PitchWindow {
		return PitchUndetected
	}
	window := samples[:PitchWindow]

	var sumSquares float64
	for _, s := range window {
		sumSquares += s * s
	}
	if math.Sqrt(sumSquares/PitchWindow) < pitchSilenceRMS {
		return PitchUndetected
	}

	const half = PitchWindow / 2
	bestLag := 0
	bestCorrelation := 0.0

	for offset := 1; offset < half; offset++ {
		var diff float64
		for i := 0; i < half; i++ {
			diff += math.Abs(window[i] - window[i+offset])
		}
		correlation := 1 - diff/half
		if correlation > pitchMinCorrelation && correlation > bestCorrelation {
			bestCorrelation = correlation
			bestLag = offset
		}
	}

	if bestLag == 0 {
		return PitchUndetected
	}
	return float64(sampleRate) / float64(bestLag)
}
