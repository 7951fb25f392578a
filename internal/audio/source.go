// internal/audio/source.go
package audio

import "io"

// blockChannel is the piece of Capture a CaptureSource needs; narrowed for
// testing without a real device.
type blockChannel interface {
	Blocks() <-chan []float32
}

// Blocks exposes the capture's sample channel.
func (c *Capture) Blocks() <-chan []float32 { return c.Samples }

// CaptureSource adapts a Capture's push-style block channel to the
// pull-style dsp.SampleSource the Analyzer expects. ReadBlock blocks until
// samples arrive; the source is exhausted once the capture is closed and
// its channel drained.
type CaptureSource struct {
	capture    blockChannel
	channels   int
	sampleRate int
	pending    []float32
}

// NewCaptureSource wraps a capture configured for the given geometry.
func NewCaptureSource(c *Capture) *CaptureSource {
	return &CaptureSource{
		capture:    c,
		channels:   int(c.config.Channels),
		sampleRate: int(c.config.SampleRate),
	}
}

// Channels returns the number of interleaved channels.
func (s *CaptureSource) Channels() int { return s.channels }

// SampleRate returns the sample rate in Hz.
func (s *CaptureSource) SampleRate() int { return s.sampleRate }

// ReadBlock delivers the next captured samples, waiting for the device if
// none are buffered. Returns io.EOF once the capture channel is closed and
// all buffered samples were consumed.
func (s *CaptureSource) ReadBlock(dst []float32) (int, error) {
	if len(s.pending) == 0 {
		block, ok := <-s.capture.Blocks()
		if !ok {
			return 0, io.EOF
		}
		s.pending = block
	}
	n := copy(dst, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}
