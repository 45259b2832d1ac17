// SPDX-License-Identifier: MIT
package analysis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Supported encoding formats, in default probe priority order.
const (
	FormatWAV  = "wav"
	FormatAIFF = "aiff"
	FormatPCM  = "pcm_s16le"
)

// FormatPriority is the probe order used when negotiating the capture
// encoding: first supported format wins.
var FormatPriority = []string{FormatWAV, FormatAIFF, FormatPCM}

// ErrDecode indicates the input bytes could not be decoded into PCM.
var ErrDecode = errors.New("unsupported or corrupt audio data")

// Supports reports whether the decoder understands the named format.
func Supports(format string) bool {
	switch normalizeFormat(format) {
	case FormatWAV, FormatAIFF, FormatPCM:
		return true
	}
	return false
}

// PreferredFormat returns the first format in priority order that the
// decoder supports, or false if none is usable.
func PreferredFormat(priority []string) (string, bool) {
	for _, f := range priority {
		if Supports(f) {
			return normalizeFormat(f), true
		}
	}
	return "", false
}

// Decode converts encoded bytes into a Clip using the format hint.
// Headerless PCM input is assumed to be at DefaultPCMSampleRate; use
// DecodeRate when the true capture rate is known.
func Decode(data []byte, format string) (*Clip, error) {
	return DecodeRate(data, format, DefaultPCMSampleRate)
}

// DecodeRate converts encoded bytes into a Clip using the format hint.
// Multi-channel input keeps only the first channel. pcmSampleRate
// applies to headerless pcm_s16le input only; container formats carry
// their own rate. Failures wrap ErrDecode with the underlying decoder
// message retained.
func DecodeRate(data []byte, format string, pcmSampleRate int) (*Clip, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	switch normalizeFormat(format) {
	case FormatWAV:
		return decodeWAV(data)
	case FormatAIFF:
		return decodeAIFF(data)
	case FormatPCM:
		return decodePCM(data, pcmSampleRate)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrDecode, format)
	}
}

// DefaultPCMSampleRate is assumed for headerless pcm_s16le input when
// no capture rate is supplied.
const DefaultPCMSampleRate = 44100

func decodeWAV(data []byte) (*Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrDecode)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return clipFromPCMBuffer(buf, int(dec.BitDepth))
}

func decodeAIFF(data []byte) (*Clip, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid AIFF file", ErrDecode)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return clipFromPCMBuffer(buf, int(dec.BitDepth))
}

// decodePCM interprets data as headerless little-endian signed 16-bit
// mono PCM, the raw chunk format emitted by the capture engine.
func decodePCM(data []byte, sampleRate int) (*Clip, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd pcm_s16le byte count %d", ErrDecode, len(data))
	}
	if sampleRate <= 0 {
		sampleRate = DefaultPCMSampleRate
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float64(s) / 32768.0
	}
	return &Clip{SampleRate: sampleRate, Samples: samples}, nil
}

// clipFromPCMBuffer normalizes a go-audio integer buffer into float64
// samples, keeping only the first channel of interleaved data.
func clipFromPCMBuffer(buf *audio.IntBuffer, bitDepth int) (*Clip, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: decoder produced no PCM data", ErrDecode)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrDecode, bitDepth)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	norm := float64(int64(1) << (bitDepth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		samples[i] = float64(buf.Data[i*channels]) / norm
	}

	return &Clip{SampleRate: buf.Format.SampleRate, Samples: samples}, nil
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "wave":
		return FormatWAV
	case "aif", "aifc":
		return FormatAIFF
	case "pcm", "raw":
		return FormatPCM
	}
	return f
}
