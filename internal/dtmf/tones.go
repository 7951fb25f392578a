// internal/dtmf/tones.go
// Package dtmf aggregates detector transition events into whole tones.
package dtmf

import (
	"fmt"
	"time"

	"github.com/ColonelBlimp/dtmfdecoder/internal/dsp"
)

// Tone is one completed key press: a start event closed by its matching
// stop on the same channel.
type Tone struct {
	// Key is the keypad key that sounded
	Key dsp.PhoneKey
	// Channel is the zero-based channel index
	Channel int
	// Start is the offset of the start event from the beginning of the stream
	Start time.Duration
	// Duration is how long the key sounded
	Duration time.Duration
}

// String renders the tone for log and CLI output.
func (t Tone) String() string {
	return fmt.Sprintf("%v ch%d %s held %v", t.Start, t.Channel, t.Key, t.Duration)
}

// Pairer matches start and stop events per channel. Feed it the changes
// from successive Analyzer calls in order; it emits a Tone whenever a stop
// closes the channel's open start.
//
// No flush operation exists: the Analyzer already force-stops every active
// key at end-of-stream, so a drained stream leaves no open starts behind.
type Pairer struct {
	open map[int]dsp.DtmfChange
}

// NewPairer creates an empty Pairer.
func NewPairer() *Pairer {
	return &Pairer{open: make(map[int]dsp.DtmfChange)}
}

// Feed consumes one batch of changes and returns the tones completed by it,
// in the order their stops arrived.
func (p *Pairer) Feed(changes []dsp.DtmfChange) []Tone {
	var tones []Tone
	for _, c := range changes {
		if c.IsStart {
			p.open[c.Channel] = c
			continue
		}
		start, ok := p.open[c.Channel]
		if !ok || start.Key != c.Key {
			// Stop without a matching start, drop it
			continue
		}
		delete(p.open, c.Channel)
		tones = append(tones, Tone{
			Key:      c.Key,
			Channel:  c.Channel,
			Start:    start.Position,
			Duration: c.Position - start.Position,
		})
	}
	return tones
}

// Open returns the number of channels with a started, not yet stopped key.
func (p *Pairer) Open() int {
	return len(p.open)
}

// Tones runs a whole change sequence through a fresh Pairer. Convenience
// for batch analysis of a fully drained stream.
func Tones(changes []dsp.DtmfChange) []Tone {
	return NewPairer().Feed(changes)
}
