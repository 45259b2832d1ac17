// SPDX-License-Identifier: MIT
/*
Package session orchestrates one capture-to-score lifecycle:

	Idle -> Requesting -> Capturing -> Stopping -> Decoding -> Complete

with a terminal Failed state reachable from any non-terminal state.
All device and visualizer handles are session-owned; a session is
single-shot and a new one must be created per capture run.
*/
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voicegrade/internal/analysis"
	"voicegrade/internal/capture"
	"voicegrade/internal/viz"
)

// statusDepth bounds undelivered status messages. The channel has a
// single writer (transitions are serialized by the session mutex);
// messages beyond the buffer are dropped for slow consumers.
const statusDepth = 32

// Session is the capture state machine. All exported methods are safe
// for concurrent use; Start and Stop are idempotent no-ops outside
// their valid source states so UI triggers may fire them freely.
type Session struct {
	provider      capture.Provider
	captureCfg    capture.Config
	sink          viz.FrameSink
	frameInterval time.Duration
	log           zerolog.Logger

	mu         sync.Mutex
	state      State
	handle     capture.Handle
	visualizer *viz.Visualizer
	format     string
	sampleRate int
	chunks     [][]byte
	rawClip    []byte
	clip       *analysis.Clip
	result     analysis.Result
	score      analysis.Score
	failure    error

	status      chan Status
	collectorWG sync.WaitGroup
}

// New creates an idle session. The sink receives visualization frames
// while capturing; frameInterval <= 0 uses the visualizer default.
func New(provider capture.Provider, cfg capture.Config, sink viz.FrameSink,
	frameInterval time.Duration, log zerolog.Logger) *Session {
	return &Session{
		provider:      provider,
		captureCfg:    cfg,
		sink:          sink,
		frameInterval: frameInterval,
		log:           log,
		state:         StateIdle,
		status:        make(chan Status, statusDepth),
	}
}

// Statuses returns the transition message channel. One message is
// emitted per state transition, in transition order; the channel is
// closed once the session reaches Complete or Failed.
func (s *Session) Statuses() <-chan Status {
	return s.status
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins device acquisition. Valid only from Idle; calls in any
// other state are no-ops. The session moves to Requesting
// synchronously; acquisition outcome arrives asynchronously as a
// transition to Capturing or Failed.
func (s *Session) Start() {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(StateRequesting, ReasonNone, "requesting capture device")
	s.mu.Unlock()

	go s.acquire()
}

// acquire performs device acquisition, format negotiation, and the
// transition into Capturing.
func (s *Session) acquire() {
	handle, err := s.provider.Acquire(s.captureCfg)
	if err != nil {
		s.fail(classifyAcquireError(err), err)
		return
	}

	format, ok := negotiateFormat(handle)
	if !ok {
		handle.Release()
		s.fail(ReasonAcquisitionFailed, errors.New("no supported encoding format"))
		return
	}

	s.mu.Lock()
	if s.state != StateRequesting {
		// Failed elsewhere while acquiring; hand the device back.
		s.mu.Unlock()
		handle.Release()
		return
	}
	s.handle = handle
	s.format = format
	s.sampleRate = handle.SampleRate()
	s.visualizer = viz.New(handle.Source(), s.sink, s.frameInterval, s.log)
	s.setStateLocked(StateCapturing, ReasonNone,
		fmt.Sprintf("capture granted, recording as %s", format))
	s.mu.Unlock()

	s.visualizer.Start()

	s.collectorWG.Add(1)
	go s.collectChunks(handle.Chunks())
}

// collectChunks appends emitted chunks until the handle closes the
// channel on release. Zero-size chunks are discarded silently.
func (s *Session) collectChunks(chunks <-chan []byte) {
	defer s.collectorWG.Done()
	for chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, chunk)
		s.mu.Unlock()
	}
}

// Stop halts capture and runs the analysis pipeline to completion.
// Valid only from Capturing; calls in any other state are no-ops, so
// stopping twice produces the same final state as stopping once.
//
// The visualizer is cancelled before anything else: no frame is
// produced while decoding runs. Decoding and analysis are synchronous
// with respect to the state machine.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateCapturing {
		s.mu.Unlock()
		return nil
	}
	s.setStateLocked(StateStopping, ReasonNone, "stopping capture")
	handle := s.handle
	visualizer := s.visualizer
	s.mu.Unlock()

	visualizer.Stop()

	if err := handle.Release(); err != nil {
		s.log.Warn().Err(err).Msg("device release failed")
	}
	// Release closed the chunk channel; wait for the last chunks.
	s.collectorWG.Wait()

	s.mu.Lock()
	s.setStateLocked(StateDecoding, ReasonNone, "decoding captured clip")
	s.rawClip = assembleClip(s.chunks)
	raw, format, rate := s.rawClip, s.format, s.sampleRate
	s.mu.Unlock()

	clip, err := analysis.DecodeRate(raw, format, rate)
	if err != nil {
		// The raw clip stays available for export and playback.
		s.fail(ReasonAnalysisFailed, err)
		return err
	}
	result, score := analysis.Analyze(clip)

	s.mu.Lock()
	s.clip = clip
	s.result = result
	s.score = score
	s.setStateLocked(StateComplete, ReasonNone,
		fmt.Sprintf("analysis complete: %d/100 (%s)", score.Total, score.Grade))
	s.mu.Unlock()
	return nil
}

// Result returns the analysis outcome. Valid only in Complete.
func (s *Session) Result() (analysis.Result, analysis.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete {
		return analysis.Result{}, analysis.Score{}, fmt.Errorf("session is %s, not complete", s.state)
	}
	return s.result, s.score, nil
}

// Clip returns the decoded clip, or nil before analysis succeeded.
func (s *Session) Clip() *analysis.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}

// RawClip returns the assembled clip bytes and their encoding format.
// Available in Complete and after an AnalysisFailed failure.
func (s *Session) RawClip() ([]byte, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawClip, s.format
}

// Err returns the failure that moved the session to Failed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// fail moves the session to Failed with the given reason. No-op once
// a terminal state is reached.
func (s *Session) fail(reason Reason, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	s.failure = err
	s.setStateLocked(StateFailed, reason, statusMessage(reason, err))
}

// setStateLocked transitions state and emits exactly one status
// message. Callers hold s.mu, making this the channel's single
// writer. Slow consumers lose messages past the buffer rather than
// stalling the state machine. The channel is closed when a terminal
// state is reached so consumers can range to completion.
func (s *Session) setStateLocked(state State, reason Reason, message string) {
	s.state = state
	status := Status{State: state, Reason: reason, Message: message}

	s.log.Info().
		Str("state", state.String()).
		Str("reason", string(reason)).
		Msg(message)

	select {
	case s.status <- status:
	default:
		s.log.Debug().Str("state", state.String()).Msg("status message dropped")
	}

	if state.terminal() {
		close(s.status)
	}
}

// negotiateFormat probes the handle in fixed priority order and picks
// the first encoding both the handle and the decoder support.
func negotiateFormat(handle capture.Handle) (string, bool) {
	for _, format := range analysis.FormatPriority {
		if handle.Supports(format) && analysis.Supports(format) {
			return format, true
		}
	}
	return "", false
}

// classifyAcquireError maps acquisition failures onto the two
// distinguished kinds; everything else is a generic failure.
func classifyAcquireError(err error) Reason {
	switch {
	case errors.Is(err, capture.ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, capture.ErrDeviceNotFound):
		return ReasonDeviceNotFound
	default:
		return ReasonAcquisitionFailed
	}
}

// statusMessage derives the human-readable status string for a
// failure kind.
func statusMessage(reason Reason, err error) string {
	switch reason {
	case ReasonPermissionDenied:
		return "microphone access was denied"
	case ReasonDeviceNotFound:
		return "no capture device was found"
	case ReasonAcquisitionFailed:
		return fmt.Sprintf("could not acquire capture device: %v", err)
	case ReasonAnalysisFailed:
		return fmt.Sprintf("analysis failed: %v", err)
	default:
		return fmt.Sprintf("session failed: %v", err)
	}
}

// assembleClip concatenates chunks into one contiguous buffer.
func assembleClip(chunks [][]byte) []byte {
	var size int
	for _, c := range chunks {
		size += len(c)
	}
	clip := make([]byte, 0, size)
	for _, c := range chunks {
		clip = append(clip, c...)
	}
	return clip
}
