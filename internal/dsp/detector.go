// internal/dsp/detector.go
package dsp

import (
	"errors"
	"math"
)

var (
	// ErrInvalidThreshold indicates threshold must be positive
	ErrInvalidThreshold = errors.New("threshold must be positive")
	// ErrInvalidChannels indicates channel count must be positive
	ErrInvalidChannels = errors.New("channel count must be positive")
)

// DetectorConfig holds configuration for the DTMF detector.
// All values should come from the application config file.
// DetectorConfig is an immutable value; derive variants with WithSampleRate.
type DetectorConfig struct {
	// SampleRate is the audio sample rate in Hz (from config: sample_rate)
	SampleRate int
	// BlockSize is the number of samples per channel per detection window (from config: block_size)
	BlockSize int
	// Threshold is the minimum response magnitude for a tone to count as
	// present (from config: threshold)
	Threshold float64
	// NormalizeResponse selects block-size-independent responses, making
	// Threshold comparable across block sizes (from config: normalize_response)
	NormalizeResponse bool
}

// DefaultConfig returns the classic DTMF detection window: a 205-sample
// block at 8 kHz places every keypad frequency near an exact bin.
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		SampleRate:        8000,
		BlockSize:         205,
		Threshold:         0.1,
		NormalizeResponse: true,
	}
}

// WithSampleRate returns a copy of the config targeting a different sample
// rate, with the block size rescaled to cover the same window duration.
func (c DetectorConfig) WithSampleRate(rate int) DetectorConfig {
	derived := c
	derived.SampleRate = rate
	derived.BlockSize = c.BlockSize * rate / c.SampleRate
	return derived
}

// Validate checks the configuration values.
func (c DetectorConfig) Validate() error {
	if c.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if c.BlockSize <= 0 {
		return ErrInvalidBlockSize
	}
	if c.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	return nil
}

// Detector resolves which DTMF key, if any, sounds in each channel of a
// sample block. It runs a bank of eight resonators (4 row + 4 column
// frequencies) per channel and applies the keypad decision rule.
//
// A Detector carries no filter state between Detect calls: every call
// seeds fresh per-channel banks from the initial resonators computed at
// construction, so instances are freely reusable across unrelated blocks.
type Detector struct {
	config   DetectorConfig
	channels int
	lowInit  [NumTones]Resonator
	highInit [NumTones]Resonator
}

// NewDetector creates a Detector for the given interleaved channel count.
// Resonator coefficients are computed once here and reused for every block.
func NewDetector(channels int, cfg DetectorConfig) (*Detector, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{config: cfg, channels: channels}
	for i := 0; i < NumTones; i++ {
		var err error
		d.lowInit[i], err = NewResonator(lowTones[i], float64(cfg.SampleRate), cfg.BlockSize)
		if err != nil {
			return nil, err
		}
		d.highInit[i], err = NewResonator(highTones[i], float64(cfg.SampleRate), cfg.BlockSize)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Detect analyzes one block of interleaved samples and returns the key
// decision for each channel, in channel order.
//
// The block is channel-minor: sample i belongs to channel i % channels.
// A full block holds BlockSize*Channels() samples, but the final block of
// a stream may be shorter; missing samples are simply never fed.
func (d *Detector) Detect(block []float32) []PhoneKey {
	low := make([][NumTones]Resonator, d.channels)
	high := make([][NumTones]Resonator, d.channels)
	for ch := 0; ch < d.channels; ch++ {
		low[ch] = d.lowInit
		high[ch] = d.highInit
	}

	for i, s := range block {
		ch := i % d.channels
		x := float64(s)
		for j := 0; j < NumTones; j++ {
			low[ch][j] = low[ch][j].AddSample(x)
			high[ch][j] = high[ch][j].AddSample(x)
		}
	}

	keys := make([]PhoneKey, d.channels)
	for ch := 0; ch < d.channels; ch++ {
		keys[ch] = d.decide(low[ch], high[ch])
	}
	return keys
}

// decide applies the keypad decision rule to one channel's responses.
func (d *Detector) decide(low, high [NumTones]Resonator) PhoneKey {
	fstLo, sndLo, lowIdx := d.topTwo(low)
	fstHi, sndHi, highIdx := d.topTwo(high)

	switch {
	case fstLo < d.config.Threshold:
		// Row tone missing
		return KeyNone
	case fstHi < d.config.Threshold:
		// Column tone missing
		return KeyNone
	case sndLo > d.config.Threshold:
		// Two row tones competing, ambiguous
		return KeyNone
	case sndHi > d.config.Threshold:
		return KeyNone
	case math.IsNaN(fstLo) || math.IsNaN(fstHi):
		// Non-finite input samples, no reliable decision
		return KeyNone
	default:
		return keypad[lowIdx][highIdx]
	}
}

// topTwo returns the largest and second-largest response in the bank plus
// the index of the largest. Tone indices are scanned in order and a later
// index displaces the leader only on a strictly greater response, so the
// lower tone index wins exact ties.
func (d *Detector) topTwo(bank [NumTones]Resonator) (fst, snd float64, idx int) {
	fst, snd = d.response(bank[0]), math.Inf(-1)
	for i := 1; i < NumTones; i++ {
		r := d.response(bank[i])
		if r > fst {
			snd = fst
			fst = r
			idx = i
		} else if r > snd {
			snd = r
		}
	}
	return fst, snd, idx
}

func (d *Detector) response(r Resonator) float64 {
	if d.config.NormalizeResponse {
		return r.NormResponse()
	}
	return r.Response()
}

// Channels returns the channel count the detector was built for.
func (d *Detector) Channels() int {
	return d.channels
}

// Config returns the current configuration
func (d *Detector) Config() DetectorConfig {
	return d.config
}
