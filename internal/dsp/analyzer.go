// internal/dsp/analyzer.go
package dsp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNilSource indicates the analyzer requires a sample source
	ErrNilSource = errors.New("sample source is required")
	// ErrNilDetector indicates the analyzer requires a detector
	ErrNilDetector = errors.New("detector is required")
	// ErrSampleRateMismatch indicates source and detector disagree on sample rate
	ErrSampleRateMismatch = errors.New("sample rate of source and detector differ")
	// ErrChannelMismatch indicates source and detector disagree on channel count
	ErrChannelMismatch = errors.New("channel count of source and detector differ")
)

// DtmfChange is a start or stop transition of a DTMF key on one channel.
type DtmfChange struct {
	// Key is the keypad key that started or stopped sounding
	Key PhoneKey
	// Position is the offset from the start of the stream
	Position time.Duration
	// Channel is the zero-based channel index
	Channel int
	// IsStart is true when the key starts, false when it stops
	IsStart bool
}

// String renders the change for log and CLI output.
func (c DtmfChange) String() string {
	state := "stop"
	if c.IsStart {
		state = "start"
	}
	return fmt.Sprintf("%v ch%d %s %s", c.Position, c.Channel, c.Key, state)
}

// Analyzer drives a Detector across the successive blocks of a sample
// source and turns the per-block key decisions into timestamped start/stop
// events per channel.
//
// An Analyzer is a single-threaded streaming state machine: the caller
// pulls progress by invoking AnalyzeNextBlock repeatedly and must not call
// it from multiple goroutines. One Analyzer serves one stream; create a
// new one for the next stream.
type Analyzer struct {
	source   SampleSource
	detector *Detector

	lastKeys        []PhoneKey
	samplesConsumed int64 // per channel
	moreSamples     bool
	buf             []float32
}

// NewAnalyzer creates an Analyzer with a fresh Detector built from cfg for
// the source's channel count. The config's sample rate must match the
// source's.
func NewAnalyzer(source SampleSource, cfg DetectorConfig) (*Analyzer, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	detector, err := NewDetector(source.Channels(), cfg)
	if err != nil {
		return nil, err
	}
	return NewAnalyzerWithDetector(source, detector)
}

// NewAnalyzerWithDetector creates an Analyzer around an existing Detector.
// Sample rate and channel count of source and detector must agree;
// mismatches are rejected here, never deferred into block processing.
func NewAnalyzerWithDetector(source SampleSource, detector *Detector) (*Analyzer, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if detector == nil {
		return nil, ErrNilDetector
	}
	if source.SampleRate() != detector.Config().SampleRate {
		return nil, fmt.Errorf("%w: source %d Hz, detector %d Hz",
			ErrSampleRateMismatch, source.SampleRate(), detector.Config().SampleRate)
	}
	if source.Channels() != detector.Channels() {
		return nil, fmt.Errorf("%w: source %d, detector %d",
			ErrChannelMismatch, source.Channels(), detector.Channels())
	}

	return &Analyzer{
		source:      source,
		detector:    detector,
		lastKeys:    make([]PhoneKey, source.Channels()),
		moreSamples: true,
		buf:         make([]float32, detector.Config().BlockSize*source.Channels()),
	}, nil
}

// MoreSamplesAvailable reports whether the source may still yield samples.
// It transitions from true to false exactly once, when the source signals
// exhaustion, and stays false afterwards.
func (a *Analyzer) MoreSamplesAvailable() bool {
	return a.moreSamples
}

// AnalyzeNextBlock consumes one block from the source and returns the key
// transitions it caused, ordered channel-major with stops before starts.
//
// All events of one call share the block's starting position; a key still
// sounding when the stream ends is forcibly stopped at the end-of-stream
// position. Once the source is exhausted and the final flush has been
// emitted, further calls return nil.
func (a *Analyzer) AnalyzeNextBlock() []DtmfChange {
	if !a.moreSamples {
		return nil
	}

	n := a.fill()
	var changes []DtmfChange

	if n > 0 {
		blockStart := a.position()
		currentKeys := a.detector.Detect(a.buf[:n])
		for ch, current := range currentKeys {
			last := a.lastKeys[ch]
			if current == last {
				continue
			}
			if last != KeyNone {
				changes = append(changes, DtmfChange{Key: last, Position: blockStart, Channel: ch})
			}
			if current != KeyNone {
				changes = append(changes, DtmfChange{Key: current, Position: blockStart, Channel: ch, IsStart: true})
			}
			a.lastKeys[ch] = current
		}
		a.samplesConsumed += int64(n / a.source.Channels())
	}

	if !a.moreSamples {
		// A tone truncated by end-of-stream is reported as stopped at the
		// end of the processed samples rather than left dangling.
		streamEnd := a.position()
		for ch, last := range a.lastKeys {
			if last == KeyNone {
				continue
			}
			changes = append(changes, DtmfChange{Key: last, Position: streamEnd, Channel: ch})
			a.lastKeys[ch] = KeyNone
		}
	}

	return changes
}

// fill pulls samples from the source until the block buffer is full or the
// source is exhausted. Sources may deliver short reads; only io.EOF (or a
// terminal read error) ends the stream.
func (a *Analyzer) fill() int {
	n := 0
	for n < len(a.buf) {
		m, err := a.source.ReadBlock(a.buf[n:])
		n += m
		if err != nil {
			// Read failures are treated like exhaustion so active tones
			// still get their forced stop.
			a.moreSamples = false
			break
		}
		if m == 0 {
			break
		}
	}
	return n
}

// position converts the per-channel consumed-sample count into a stream
// offset.
func (a *Analyzer) position() time.Duration {
	return time.Duration(a.samplesConsumed) * time.Second / time.Duration(a.source.SampleRate())
}
