// internal/audio/pcm.go
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Format names a raw PCM sample encoding, matching the config file values.
type Format string

const (
	// FormatS16LE is 16-bit signed little-endian PCM
	FormatS16LE Format = "S16_LE"
	// FormatF32LE is 32-bit IEEE float little-endian PCM
	FormatF32LE Format = "F32_LE"
)

// ErrUnsupportedFormat indicates an unknown PCM sample format
var ErrUnsupportedFormat = errors.New("unsupported PCM sample format")

// SampleBytes returns the encoded size of one sample, or an error for
// unknown formats.
func (f Format) SampleBytes() (int, error) {
	switch f {
	case FormatS16LE:
		return 2, nil
	case FormatF32LE:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// DecodeS16LE converts 16-bit signed little-endian PCM bytes to float32
// samples normalized to -1.0..1.0. Trailing partial samples are dropped.
func DecodeS16LE(data []byte, dst []float32) int {
	n := len(data) / 2
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		v := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		dst[i] = float32(v) / 32768.0
	}
	return n
}

// DecodeF32LE converts 32-bit little-endian IEEE float PCM bytes to float32
// samples. Trailing partial samples are dropped.
func DecodeF32LE(data []byte, dst []float32) int {
	n := len(data) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		o := 4 * i
		bits := uint32(data[o]) | uint32(data[o+1])<<8 |
			uint32(data[o+2])<<16 | uint32(data[o+3])<<24
		dst[i] = math.Float32frombits(bits)
	}
	return n
}

// PCMSource reads raw interleaved PCM from an io.Reader and serves it as a
// dsp.SampleSource. It carries the stream geometry (channels, sample rate)
// the reader itself cannot describe.
type PCMSource struct {
	r          io.Reader
	format     Format
	width      int // bytes per sample
	channels   int
	sampleRate int
	raw        []byte
}

// NewPCMSource wraps r. The format, channel count and sample rate describe
// the raw stream; they cannot be derived from headerless PCM.
func NewPCMSource(r io.Reader, format Format, channels, sampleRate int) (*PCMSource, error) {
	width, err := format.SampleBytes()
	if err != nil {
		return nil, err
	}
	return &PCMSource{
		r:          r,
		format:     format,
		width:      width,
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

// Channels returns the number of interleaved channels.
func (s *PCMSource) Channels() int { return s.channels }

// SampleRate returns the sample rate in Hz.
func (s *PCMSource) SampleRate() int { return s.sampleRate }

// ReadBlock decodes up to len(dst) samples from the reader. It returns
// io.EOF once the underlying reader is exhausted; the final read may carry
// both samples and io.EOF.
func (s *PCMSource) ReadBlock(dst []float32) (int, error) {
	want := len(dst) * s.width
	if cap(s.raw) < want {
		s.raw = make([]byte, want)
	}
	raw := s.raw[:want]

	n, err := io.ReadFull(s.r, raw)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if n == 0 {
		return 0, err
	}

	var decoded int
	switch s.format {
	case FormatS16LE:
		decoded = DecodeS16LE(raw[:n], dst)
	case FormatF32LE:
		decoded = DecodeF32LE(raw[:n], dst)
	}
	return decoded, err
}
