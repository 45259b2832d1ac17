// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"time"

	"voicegrade/internal/viz"
)

/*
Frame packet layout (BigEndian):

	|<-- 8 Bytes -->|<----- 8 Bytes ----->|<- 2 Bytes ->|<- N Bytes ->|
	+---------------+---------------------+-------------+-------------+
	|   Sequence    |      Timestamp      |  Bin Count  | Magnitudes  |
	|   (uint64)    | (int64, unix nanos) |  (uint16)   | (N bytes)   |
	+---------------+---------------------+-------------+-------------+
*/

// FrameSink packs visualization frames into binary packets and sends
// them through a Sender. The packet buffer is reused across frames.
type FrameSink struct {
	sender *Sender
	packet *bytes.Buffer
}

// NewFrameSink creates a FrameSink over an established Sender.
func NewFrameSink(sender *Sender) *FrameSink {
	return &FrameSink{
		sender: sender,
		packet: new(bytes.Buffer),
	}
}

// SendFrame packs and transmits one frame.
func (f *FrameSink) SendFrame(frame viz.Frame) error {
	f.packet.Reset()

	binary.Write(f.packet, binary.BigEndian, frame.Seq)
	binary.Write(f.packet, binary.BigEndian, time.Now().UnixNano())
	binary.Write(f.packet, binary.BigEndian, uint16(len(frame.Magnitudes)))
	f.packet.Write(frame.Magnitudes)

	return f.sender.Send(f.packet.Bytes())
}

// Close closes the underlying sender.
func (f *FrameSink) Close() error {
	return f.sender.Close()
}

var _ viz.FrameSink = (*FrameSink)(nil)
