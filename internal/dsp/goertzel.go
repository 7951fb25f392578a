// internal/dsp/goertzel.go
package dsp

import (
	"errors"
	"math"
)

var (
	// ErrInvalidBlockSize indicates block size must be positive
	ErrInvalidBlockSize = errors.New("block size must be positive")
	// ErrInvalidSampleRate indicates sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidFrequency indicates frequency must be positive and below Nyquist
	ErrInvalidFrequency = errors.New("target frequency must be positive and less than Nyquist frequency")
)

// Resonator is a single-frequency Goertzel accumulator. It approximates the
// energy of one frequency bin over a block of samples without a full
// transform.
//
// Resonator is a value type: AddSample returns a new Resonator and leaves
// the receiver untouched, so a freshly tuned Resonator can be kept around
// and used to seed a clean accumulation for every block.
type Resonator struct {
	coefficient float64 // Pre-computed: 2 * cos(2π * k / N)
	norm        float64 // Pre-computed: (N/2)² for response scaling
	q1, q2      float64 // Recursive filter registers
}

// NewResonator creates a Resonator tuned to the given frequency, with both
// filter registers zeroed. The bin index k is rounded to the nearest
// integer so the resonator sits on an exact DFT bin of the block.
func NewResonator(frequency, sampleRate float64, blockSize int) (Resonator, error) {
	if blockSize <= 0 {
		return Resonator{}, ErrInvalidBlockSize
	}
	if sampleRate <= 0 {
		return Resonator{}, ErrInvalidSampleRate
	}
	if frequency <= 0 || frequency >= sampleRate/2.0 {
		return Resonator{}, ErrInvalidFrequency
	}

	k := math.Round(float64(blockSize) * frequency / sampleRate)
	omega := (2.0 * math.Pi * k) / float64(blockSize)
	half := float64(blockSize) / 2.0

	return Resonator{
		coefficient: 2.0 * math.Cos(omega),
		norm:        half * half,
	}, nil
}

// AddSample advances the recursion by one sample and returns the new state.
// Samples must be fed in order; skipping or reordering samples changes the
// result. Non-finite input propagates through the registers.
func (r Resonator) AddSample(x float64) Resonator {
	q0 := r.coefficient*r.q1 - r.q2 + x
	r.q2 = r.q1
	r.q1 = q0
	return r
}

// Response returns the raw magnitude-squared of the frequency bin:
// q1² + q2² - coefficient·q1·q2.
func (r Resonator) Response() float64 {
	return r.q1*r.q1 + r.q2*r.q2 - r.coefficient*r.q1*r.q2
}

// NormResponse returns Response scaled by (blockSize/2)², making the value
// comparable across block sizes. A full-scale sine at the bin frequency
// reads approximately 1.0.
func (r Resonator) NormResponse() float64 {
	return r.Response() / r.norm
}

// Coefficient returns the pre-computed Goertzel coefficient (for testing)
func (r Resonator) Coefficient() float64 {
	return r.coefficient
}
