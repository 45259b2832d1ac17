// SPDX-License-Identifier: MIT
package analysis

import "math"

// Breakdown carries the per-dimension sub-scores, each in [0, 100].
type Breakdown struct {
	Volume   int `json:"volume"`
	Duration int `json:"duration"`
	Clarity  int `json:"clarity"`
	Pitch    int `json:"pitch"`
}

// Score is the normalized quality score derived from a Result.
type Score struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	Grade     string    `json:"grade"`
}

var grades = [...]string{"F", "D", "C", "B", "A"}

// ScoreResult maps extracted features to a Score. Pure and
// deterministic: identical results always produce identical scores.
// Total is clamped before the grade division so a perfect 100 lands
// on A instead of indexing past the grade table.
func ScoreResult(r Result) Score {
	pitch := 25
	if r.FundamentalFreqHz > 0 {
		pitch = 75
	}

	total := clampScore(math.Round(r.RMS*1000 + r.DurationSeconds*10))

	gradeIdx := total / 20
	if gradeIdx >= len(grades) {
		gradeIdx = len(grades) - 1
	}

	return Score{
		Total: total,
		Breakdown: Breakdown{
			Volume:   clampScore(math.Round(r.RMS * 1000)),
			Duration: clampScore(math.Round(r.DurationSeconds * 10)),
			Clarity:  clampScore(math.Round(r.Peak * 100)),
			Pitch:    pitch,
		},
		Grade: grades[gradeIdx],
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
