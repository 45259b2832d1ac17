// SPDX-License-Identifier: MIT
package session

// State is the recording session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateCapturing
	StateStopping
	StateDecoding
	StateComplete
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateCapturing:
		return "capturing"
	case StateStopping:
		return "stopping"
	case StateDecoding:
		return "decoding"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// terminal reports whether no further transitions can occur.
func (s State) terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Reason identifies why a session failed. Empty for progress notices.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonPermissionDenied  Reason = "PermissionDenied"
	ReasonDeviceNotFound    Reason = "DeviceNotFound"
	ReasonAcquisitionFailed Reason = "AcquisitionFailed"
	ReasonAnalysisFailed    Reason = "AnalysisFailed"
)

// Status is one state-transition notice. Every transition emits
// exactly one Status on the session's message channel.
type Status struct {
	State   State
	Reason  Reason
	Message string
}
