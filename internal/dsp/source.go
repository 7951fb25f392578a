// internal/dsp/source.go
package dsp

import "io"

// SampleSource supplies sequential blocks of interleaved multi-channel
// float32 samples (channel-minor layout) to an Analyzer.
//
// ReadBlock fills dst with up to len(dst) samples and returns the number
// written. It returns io.EOF once the source is exhausted; a final short
// read may return both n > 0 and io.EOF.
type SampleSource interface {
	// Channels returns the number of interleaved channels.
	Channels() int
	// SampleRate returns the sample rate in Hz.
	SampleRate() int
	// ReadBlock pulls the next samples into dst.
	ReadBlock(dst []float32) (n int, err error)
}

// BlockSource is a SampleSource over an in-memory slice of interleaved
// samples. It is used for batch analysis and for tests.
type BlockSource struct {
	samples    []float32
	channels   int
	sampleRate int
	pos        int
}

// NewBlockSource wraps the given interleaved samples. The slice is not
// copied; the caller must not modify it while the source is in use.
func NewBlockSource(samples []float32, channels, sampleRate int) *BlockSource {
	return &BlockSource{
		samples:    samples,
		channels:   channels,
		sampleRate: sampleRate,
	}
}

// Channels returns the number of interleaved channels.
func (s *BlockSource) Channels() int { return s.channels }

// SampleRate returns the sample rate in Hz.
func (s *BlockSource) SampleRate() int { return s.sampleRate }

// ReadBlock copies the next samples into dst, returning io.EOF alongside
// the final short read.
func (s *BlockSource) ReadBlock(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(dst, s.samples[s.pos:])
	s.pos += n
	if s.pos >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}
