// SPDX-License-Identifier: MIT
package analysis

import "testing"

func TestScoreResult(t *testing.T) {
	tests := []struct {
		desc  string
		in    Result
		want  Score
	}{
		{
			desc: "mid volume long tone",
			in:   Result{RMS: 0.05, DurationSeconds: 3.0, Peak: 0.8, FundamentalFreqHz: 220},
			want: Score{
				Total:     80,
				Breakdown: Breakdown{Volume: 50, Duration: 30, Clarity: 80, Pitch: 75},
				Grade:     "A",
			},
		},
		{
			desc: "quiet short tone",
			in:   Result{RMS: 0.02, DurationSeconds: 1.5, Peak: 0.3, FundamentalFreqHz: 220},
			want: Score{
				Total:     35,
				Breakdown: Breakdown{Volume: 20, Duration: 15, Clarity: 30, Pitch: 75},
				Grade:     "D",
			},
		},
		{
			desc: "silence",
			in:   Result{RMS: 0, DurationSeconds: 0, Peak: 0, FundamentalFreqHz: PitchUndetected},
			want: Score{
				Total:     0,
				Breakdown: Breakdown{Volume: 0, Duration: 0, Clarity: 0, Pitch: 25},
				Grade:     "F",
			},
		},
		{
			desc: "undetected pitch",
			in:   Result{RMS: 0.03, DurationSeconds: 2.0, Peak: 0.4, FundamentalFreqHz: PitchUndetected},
			want: Score{
				Total:     50,
				Breakdown: Breakdown{Volume: 30, Duration: 20, Clarity: 40, Pitch: 25},
				Grade:     "C",
			},
		},
		{
			desc: "perfect score clamps to A",
			in:   Result{RMS: 0.2, DurationSeconds: 30, Peak: 1.0, FundamentalFreqHz: 440},
			want: Score{
				Total:     100,
				Breakdown: Breakdown{Volume: 100, Duration: 100, Clarity: 100, Pitch: 75},
				Grade:     "A",
			},
		},
		{
			desc: "exactly 100 before clamp",
			in:   Result{RMS: 0.05, DurationSeconds: 5.0, Peak: 0.5, FundamentalFreqHz: 440},
			want: Score{
				Total:     100,
				Breakdown: Breakdown{Volume: 50, Duration: 50, Clarity: 50, Pitch: 75},
				Grade:     "A",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ScoreResult(tt.in); got != tt.want {
				t.Errorf("ScoreResult(%+v)\n got %+v\nwant %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreResult_Deterministic(t *testing.T) {
	in := Result{RMS: 0.041, DurationSeconds: 2.7, Peak: 0.62, FundamentalFreqHz: 196}
	first := ScoreResult(in)
	second := ScoreResult(in)
	if first != second {
		t.Errorf("scorer is not deterministic: %+v vs %+v", first, second)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{101, 100},
		{1e9, 100},
	}
	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.want {
			t.Errorf("clampScore(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
