// SPDX-License-Identifier: MIT
package viz

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// rampSource fills each read with an incrementing value so frames are
// distinguishable.
type rampSource struct {
	bins  int
	mu    sync.Mutex
	reads int
}

func (r *rampSource) FrequencyBinCount() int { return r.bins }

func (r *rampSource) ReadMagnitudes(dst []byte) {
	r.mu.Lock()
	r.reads++
	v := byte(r.reads)
	r.mu.Unlock()
	for i := range dst {
		dst[i] = v
	}
}

// recordingSink collects frame metadata.
type recordingSink struct {
	mu     sync.Mutex
	frames int
	seqs   []uint64
	bufPtr *byte // first element of the delivered magnitude buffer
	stable bool
}

func newRecordingSink() *recordingSink { return &recordingSink{stable: true} }

func (s *recordingSink) SendFrame(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.seqs = append(s.seqs, frame.Seq)
	if s.bufPtr == nil {
		s.bufPtr = &frame.Magnitudes[0]
	} else if s.bufPtr != &frame.Magnitudes[0] {
		s.stable = false
	}
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestVisualizer_ProducesFrames(t *testing.T) {
	source := &rampSource{bins: 128}
	sink := newRecordingSink()

	v := New(source, sink, time.Millisecond, testLogger())
	v.Start()

	deadline := time.After(time.Second)
	for sink.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 5 frames, got %d", sink.count())
		case <-time.After(time.Millisecond):
		}
	}
	v.Stop()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for i, seq := range sink.seqs {
		if seq != uint64(i+1) {
			t.Fatalf("frame %d has seq %d, want %d", i, seq, i+1)
		}
	}
}

func TestVisualizer_ReusesBuffer(t *testing.T) {
	source := &rampSource{bins: 64}
	sink := newRecordingSink()

	v := New(source, sink, time.Millisecond, testLogger())
	v.Start()

	deadline := time.After(time.Second)
	for sink.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		case <-time.After(time.Millisecond):
		}
	}
	v.Stop()

	if !sink.stable {
		t.Error("magnitude buffer was reallocated between ticks")
	}
}

func TestVisualizer_NoFrameAfterStop(t *testing.T) {
	source := &rampSource{bins: 32}
	sink := newRecordingSink()

	v := New(source, sink, time.Millisecond, testLogger())
	v.Start()

	deadline := time.After(time.Second)
	for sink.count() < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first frame")
		case <-time.After(time.Millisecond):
		}
	}
	v.Stop()

	after := sink.count()
	time.Sleep(20 * time.Millisecond)
	if got := sink.count(); got != after {
		t.Errorf("frames produced after Stop: %d -> %d", after, got)
	}
}

func TestVisualizer_StopIdempotent(t *testing.T) {
	v := New(&rampSource{bins: 8}, newRecordingSink(), time.Millisecond, testLogger())
	v.Start()
	v.Stop()
	v.Stop() // must not panic or hang
}

func TestVisualizer_StartAfterStopIsNoop(t *testing.T) {
	sink := newRecordingSink()
	v := New(&rampSource{bins: 8}, sink, time.Millisecond, testLogger())
	v.Stop()
	v.Start()

	time.Sleep(10 * time.Millisecond)
	if got := sink.count(); got != 0 {
		t.Errorf("stopped visualizer produced %d frames, want 0", got)
	}
}

func TestVisualizer_DefaultInterval(t *testing.T) {
	v := New(&rampSource{bins: 8}, newRecordingSink(), 0, testLogger())
	if v.interval != 16*time.Millisecond {
		t.Errorf("default interval = %s, want 16ms", v.interval)
	}
}

func TestVisualizer_BufferMatchesBinCount(t *testing.T) {
	v := New(&rampSource{bins: 128}, newRecordingSink(), time.Millisecond, testLogger())
	if len(v.buffer) != 128 {
		t.Errorf("buffer length = %d, want 128", len(v.buffer))
	}
}
