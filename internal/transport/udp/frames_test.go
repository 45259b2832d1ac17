// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"voicegrade/internal/viz"
)

func TestFrameSink_PacketLayout(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	sender, err := NewSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	sink := NewFrameSink(sender)
	defer sink.Close()

	magnitudes := []byte{10, 20, 30, 40}
	before := time.Now().UnixNano()
	if err := sink.SendFrame(viz.Frame{Seq: 42, Magnitudes: magnitudes}); err != nil {
		t.Fatalf("SendFrame: %v", err)
	}
	after := time.Now().UnixNano()

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	packet := make([]byte, 1500)
	n, _, err := listener.ReadFromUDP(packet)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	packet = packet[:n]

	wantLen := 8 + 8 + 2 + len(magnitudes)
	if len(packet) != wantLen {
		t.Fatalf("packet length = %d, want %d", len(packet), wantLen)
	}
	if seq := binary.BigEndian.Uint64(packet[0:8]); seq != 42 {
		t.Errorf("seq = %d, want 42", seq)
	}
	ts := int64(binary.BigEndian.Uint64(packet[8:16]))
	if ts < before || ts > after {
		t.Errorf("timestamp %d outside send window [%d, %d]", ts, before, after)
	}
	if bins := binary.BigEndian.Uint16(packet[16:18]); bins != 4 {
		t.Errorf("bin count = %d, want 4", bins)
	}
	if got := string(packet[18:]); got != string(magnitudes) {
		t.Errorf("magnitudes = %v, want %v", packet[18:], magnitudes)
	}
}

func TestFrameSink_SequentialFrames(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	sender, err := NewSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	sink := NewFrameSink(sender)
	defer sink.Close()

	for seq := uint64(1); seq <= 3; seq++ {
		if err := sink.SendFrame(viz.Frame{Seq: seq, Magnitudes: []byte{byte(seq)}}); err != nil {
			t.Fatalf("SendFrame %d: %v", seq, err)
		}
	}

	packet := make([]byte, 64)
	for seq := uint64(1); seq <= 3; seq++ {
		listener.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := listener.ReadFromUDP(packet)
		if err != nil {
			t.Fatalf("receive %d: %v", seq, err)
		}
		if got := binary.BigEndian.Uint64(packet[:8]); got != seq {
			t.Errorf("packet seq = %d, want %d", got, seq)
		}
		if packet[n-1] != byte(seq) {
			t.Errorf("packet payload = %d, want %d", packet[n-1], seq)
		}
	}
}

func TestSender_BadTarget(t *testing.T) {
	if _, err := NewSender("not a udp target"); err == nil {
		t.Error("expected error for malformed target")
	}
}

func TestSender_CloseIdempotent(t *testing.T) {
	sender, err := NewSender("127.0.0.1:9")
	if err != nil {
		t.Fatal(err)
	}
	if err := sender.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := sender.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := sender.Send([]byte{1}); err == nil {
		t.Error("Send after Close should fail")
	}
}
