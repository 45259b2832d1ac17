// SPDX-License-Identifier: MIT
/*
Package viz drives the real-time frequency display loop. A Visualizer
pulls one magnitude snapshot per display tick from a live Source and
hands the resulting frame to a FrameSink. The loop is cooperative and
single-shot: once stopped it never emits again, and a tick racing the
stop signal is dropped rather than delivered late.
*/
package viz

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Source is a live frequency-magnitude provider. ReadMagnitudes fills
// caller-provided storage so the per-tick path stays allocation-free.
type Source interface {
	FrequencyBinCount() int
	ReadMagnitudes(dst []byte)
}

// Frame is one visualization snapshot. Magnitudes is only valid for
// the duration of the sink call; sinks that keep data must copy it.
type Frame struct {
	Seq        uint64
	Magnitudes []byte
}

// FrameSink receives rendered frames. Implementations must tolerate
// being called at display rate.
type FrameSink interface {
	SendFrame(frame Frame) error
	Close() error
}

// Visualizer runs the per-frame sampling loop at a fixed cadence.
type Visualizer struct {
	source   Source
	sink     FrameSink
	interval time.Duration
	log      zerolog.Logger

	cancelled atomic.Bool
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	// Reused across ticks; the hot path never allocates.
	buffer []byte
	seq    uint64
}

// New creates a Visualizer reading from source at the given interval.
// An interval <= 0 defaults to 16ms (~60Hz).
func New(source Source, sink FrameSink, interval time.Duration, log zerolog.Logger) *Visualizer {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Visualizer{
		source:   source,
		sink:     sink,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
		buffer:   make([]byte, source.FrequencyBinCount()),
	}
}

// Start launches the sampling loop. Calling Start after Stop is a
// no-op; a stopped visualizer cannot be resumed.
func (v *Visualizer) Start() {
	if v.cancelled.Load() {
		return
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()

		v.log.Debug().
			Int("bins", len(v.buffer)).
			Dur("interval", v.interval).
			Msg("visualizer started")

		for {
			select {
			case <-v.done:
				return
			case <-ticker.C:
				// A stop that landed in the same tick wins: drop the
				// pending frame instead of emitting after cancel.
				if v.cancelled.Load() {
					return
				}
				v.tick()
			}
		}
	}()
}

// tick produces exactly one frame from the current snapshot.
func (v *Visualizer) tick() {
	v.source.ReadMagnitudes(v.buffer)
	v.seq++
	if err := v.sink.SendFrame(Frame{Seq: v.seq, Magnitudes: v.buffer}); err != nil {
		v.log.Warn().Err(err).Uint64("seq", v.seq).Msg("frame sink rejected frame")
	}
}

// Stop cancels the loop and waits for the goroutine to exit. No frame
// is produced after Stop returns. Safe to call multiple times.
func (v *Visualizer) Stop() {
	v.stopOnce.Do(func() {
		v.cancelled.Store(true)
		close(v.done)
	})
	v.wg.Wait()
}

// FrameCount returns the number of frames produced so far. Only
// meaningful once the loop has stopped.
func (v *Visualizer) FrameCount() uint64 {
	return v.seq
}
