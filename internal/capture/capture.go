// SPDX-License-Identifier: MIT
/*
Package capture owns microphone acquisition and chunked sample
delivery. A Provider acquires a Handle for one capture run; the Handle
pushes encoded chunks at a fixed cadence and feeds the live frequency
spectrum consumed by the visualizer.
*/
package capture

import (
	"errors"

	"voicegrade/internal/viz"
)

// Acquisition failure kinds the session must distinguish. Anything
// else is reported as a generic acquisition failure with the
// underlying message.
var (
	ErrPermissionDenied = errors.New("capture permission denied")
	ErrDeviceNotFound   = errors.New("capture device not found")
)

// Config carries device-conditioning hints, passed opaquely to the
// acquisition backend. Backends that cannot honor a hint ignore it.
type Config struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// Handle is one live capture run. Chunks delivers encoded byte
// buffers until Release; the channel is closed on Release. Release is
// idempotent: releasing twice must not fault.
type Handle interface {
	// Supports reports whether the handle can emit chunks in the
	// named encoding format. Queried in priority order during format
	// negotiation.
	Supports(format string) bool

	// Chunks returns the chunk delivery channel. Chunks may be empty
	// when the interval elapsed without new samples; consumers
	// discard zero-size chunks.
	Chunks() <-chan []byte

	// SampleRate returns the rate, in Hz, the device was opened at.
	// Needed to decode headerless chunk formats correctly.
	SampleRate() int

	// Source returns the live frequency source fed by this handle.
	Source() viz.Source

	Release() error
}

// Provider acquires capture handles.
type Provider interface {
	Acquire(cfg Config) (Handle, error)
}
