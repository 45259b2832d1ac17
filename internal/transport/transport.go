// SPDX-License-Identifier: MIT
/*
Package transport publishes visualization frames to external
consumers. All sinks implement viz.FrameSink and must be safe for
calls at display rate.
*/
package transport

import (
	"github.com/rs/zerolog"

	"voicegrade/internal/viz"
)

// Fanout delivers each frame to every sink in order. Send errors from
// one sink do not stop delivery to the others; the first error is
// returned.
type Fanout struct {
	sinks []viz.FrameSink
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(sinks ...viz.FrameSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// SendFrame forwards the frame to all sinks.
func (f *Fanout) SendFrame(frame viz.Frame) error {
	var first error
	for _, s := range f.sinks {
		if err := s.SendFrame(frame); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes all sinks, returning the first error encountered.
func (f *Fanout) Close() error {
	var first error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ viz.FrameSink = (*Fanout)(nil)

// LogSink logs a frame summary at debug level every Nth frame. Useful
// when no network consumer is attached.
type LogSink struct {
	log   zerolog.Logger
	every uint64
}

// NewLogSink creates a LogSink sampling one frame out of every n.
func NewLogSink(log zerolog.Logger, every uint64) *LogSink {
	if every == 0 {
		every = 1
	}
	return &LogSink{log: log, every: every}
}

// SendFrame logs sampled frames and never fails.
func (l *LogSink) SendFrame(frame viz.Frame) error {
	if frame.Seq%l.every != 0 {
		return nil
	}

	var peak byte
	for _, m := range frame.Magnitudes {
		if m > peak {
			peak = m
		}
	}
	l.log.Debug().
		Uint64("seq", frame.Seq).
		Int("bins", len(frame.Magnitudes)).
		Uint8("peak", peak).
		Msg("visualization frame")
	return nil
}

// Close is a no-op.
func (l *LogSink) Close() error { return nil }

var _ viz.FrameSink = (*LogSink)(nil)
