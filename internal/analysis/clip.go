// SPDX-License-Identifier: MIT
/*
Package analysis implements the offline scoring pipeline for captured
or uploaded clips: decoding raw bytes into PCM, feature extraction,
autocorrelation pitch estimation, and the final quality score. It also
hosts the live frequency spectrum fed by the capture engine.
*/
package analysis

// Clip is an immutable decoded audio clip. Samples are mono float64
// amplitudes in [-1, 1]; for multi-channel sources only the first
// channel is retained.
type Clip struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}
