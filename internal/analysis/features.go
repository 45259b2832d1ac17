// SPDX-License-Identifier: MIT
package analysis

import "math"

// Result holds the acoustic features extracted from one clip.
// FundamentalFreqHz is -1 when no clear periodicity was detected;
// that is a valid outcome, not an error.
type Result struct {
	DurationSeconds   float64 `json:"durationSeconds"`
	SampleRate        int     `json:"sampleRate"`
	RMS               float64 `json:"rms"`
	Peak              float64 `json:"peak"`
	FundamentalFreqHz float64 `json:"fundamentalFreqHz"`
}

// ExtractFeatures computes duration, RMS and peak over the full clip
// and estimates the fundamental frequency over the analysis window.
func ExtractFeatures(clip *Clip) Result {
	var sumSquares, peak float64
	for _, s := range clip.Samples {
		sumSquares += s * s
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	rms := 0.0
	if len(clip.Samples) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(clip.Samples)))
	}

	return Result{
		DurationSeconds:   clip.Duration(),
		SampleRate:        clip.SampleRate,
		RMS:               rms,
		Peak:              peak,
		FundamentalFreqHz: EstimatePitch(clip.Samples, clip.SampleRate),
	}
}

// Analyze runs the full offline pipeline over a decoded clip.
func Analyze(clip *Clip) (Result, Score) {
	result := ExtractFeatures(clip)
	return result, ScoreResult(result)
}
