// SPDX-License-Identifier: MIT
package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"voicegrade/internal/analysis"
	"voicegrade/internal/config"
	"voicegrade/internal/viz"
)

// framesPerBuffer balances callback latency against per-call overhead.
const framesPerBuffer = 512

// chunkChannelDepth bounds how many chunks can sit undelivered before
// the pump blocks.
const chunkChannelDepth = 16

// PortAudioProvider acquires capture handles backed by PortAudio input
// streams.
type PortAudioProvider struct {
	audio config.AudioConfig
	viz   config.VizConfig
	log   zerolog.Logger
}

// NewPortAudioProvider creates a provider using the given device and
// visualization settings.
func NewPortAudioProvider(cfg *config.Config, log zerolog.Logger) *PortAudioProvider {
	return &PortAudioProvider{audio: cfg.Audio, viz: cfg.Viz, log: log}
}

// Acquire opens the configured input device and starts streaming.
// Device-conditioning hints are accepted for interface compatibility;
// PortAudio exposes no portable control for them, so they are logged
// and otherwise ignored.
func (p *PortAudioProvider) Acquire(cfg Config) (Handle, error) {
	device, err := inputDevice(p.audio.DeviceID)
	if err != nil {
		return nil, err
	}

	spectrum, err := analysis.NewSpectrum(p.viz.FFTSize, p.audio.SampleRate, p.viz.Window)
	if err != nil {
		return nil, err
	}

	pendingCap := int(p.audio.SampleRate*p.audio.ChunkInterval.Seconds()) * 2

	h := &paHandle{
		log:           p.log,
		spectrum:      spectrum,
		sampleRate:    int(p.audio.SampleRate),
		channels:      p.audio.Channels,
		gateThreshold: p.audio.GateThreshold,
		chunkInterval: p.audio.ChunkInterval,
		chunks:        make(chan []byte, chunkChannelDepth),
		pending:       make([]float64, 0, pendingCap),
		mono:          make([]float64, framesPerBuffer),
		done:          make(chan struct{}),
	}

	p.log.Debug().
		Str("device", device.Name).
		Bool("echo_cancellation", cfg.EchoCancellation).
		Bool("noise_suppression", cfg.NoiseSuppression).
		Bool("auto_gain_control", cfg.AutoGainControl).
		Msg("acquiring input device")

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: p.audio.Channels,
			Latency:  device.DefaultHighInputLatency,
		},
		SampleRate:      p.audio.SampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, h.processInput)
	if err != nil {
		return nil, mapAcquireError(err)
	}
	h.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, mapAcquireError(err)
	}

	h.wg.Add(1)
	go h.pumpChunks()

	return h, nil
}

// mapAcquireError classifies backend failures into the kinds the
// session distinguishes.
func mapAcquireError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "access denied") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if strings.Contains(msg, "no such device") || strings.Contains(msg, "device unavailable") {
		return fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
	}
	return err
}

// paHandle is one live PortAudio capture run.
type paHandle struct {
	log      zerolog.Logger
	stream   *portaudio.Stream
	spectrum *analysis.Spectrum

	sampleRate    int
	channels      int
	gateThreshold float64
	chunkInterval time.Duration
	chunks        chan []byte

	mu      sync.Mutex
	pending []float64 // Mono samples accumulated since the last chunk
	mono    []float64 // Reused first-channel extraction buffer

	done        chan struct{}
	releaseOnce sync.Once
	wg          sync.WaitGroup
}

// processInput is the PortAudio callback. It extracts the first
// channel, feeds the live spectrum when the gate is open, and appends
// samples for the next chunk. Runs on a dedicated OS thread; the only
// allocation is a pending-buffer grow past its pre-sized capacity.
func (h *paHandle) processInput(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	frames := len(in) / h.channels
	if frames > len(h.mono) {
		frames = len(h.mono)
	}

	var peak float64
	for i := 0; i < frames; i++ {
		s := float64(in[i*h.channels])
		h.mono[i] = s
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	// Gate conditions the visualization feed only; recorded chunks
	// always keep the raw signal.
	if h.gateThreshold <= 0 || peak > h.gateThreshold {
		h.spectrum.Process(h.mono[:frames])
	}

	h.mu.Lock()
	h.pending = append(h.pending, h.mono[:frames]...)
	h.mu.Unlock()
}

// pumpChunks emits one encoded chunk per interval until release.
func (h *paHandle) pumpChunks() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.chunkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			chunk := h.takeChunk()
			select {
			case h.chunks <- chunk:
			case <-h.done:
				return
			}
		}
	}
}

// takeChunk drains pending samples into a pcm_s16le byte buffer. The
// result may be empty when no samples arrived during the interval.
func (h *paHandle) takeChunk() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	chunk := make([]byte, len(h.pending)*2)
	for i, s := range h.pending {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(chunk[2*i:], uint16(int16(s*32767)))
	}
	h.pending = h.pending[:0]
	return chunk
}

// Supports reports the encodings this handle can emit. PortAudio
// delivers raw samples, so only headerless PCM is offered.
func (h *paHandle) Supports(format string) bool {
	switch strings.ToLower(format) {
	case analysis.FormatPCM, "pcm", "raw":
		return true
	}
	return false
}

// Chunks returns the chunk delivery channel, closed on Release.
func (h *paHandle) Chunks() <-chan []byte {
	return h.chunks
}

// SampleRate returns the rate the stream was opened at.
func (h *paHandle) SampleRate() int {
	return h.sampleRate
}

// Source returns the live frequency source fed by this handle.
func (h *paHandle) Source() viz.Source {
	return h.spectrum
}

// Release stops the stream and closes the chunk channel. Idempotent;
// repeated calls return nil without touching the stream again.
func (h *paHandle) Release() error {
	var err error
	h.releaseOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		if stopErr := h.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := h.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		close(h.chunks)
	})
	return err
}

var _ Provider = (*PortAudioProvider)(nil)
var _ Handle = (*paHandle)(nil)
