// internal/dsp/keys.go
package dsp

// PhoneKey identifies one of the 16 DTMF keypad keys.
// KeyNone means no key is present.
type PhoneKey int

const (
	KeyNone PhoneKey = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyStar
	KeyHash
	KeyA
	KeyB
	KeyC
	KeyD
)

// NumTones is the number of frequencies per band (4 low rows, 4 high columns).
const NumTones = 4

// lowTones are the DTMF row frequencies in Hz.
var lowTones = [NumTones]float64{697, 770, 852, 941}

// highTones are the DTMF column frequencies in Hz.
var highTones = [NumTones]float64{1209, 1336, 1477, 1633}

// keypad maps [low tone index][high tone index] to the corresponding key,
// following the standard DTMF keypad layout.
var keypad = [NumTones][NumTones]PhoneKey{
	{Key1, Key2, Key3, KeyA},
	{Key4, Key5, Key6, KeyB},
	{Key7, Key8, Key9, KeyC},
	{KeyStar, Key0, KeyHash, KeyD},
}

var keyNames = map[PhoneKey]string{
	KeyNone: "none",
	Key0:    "0",
	Key1:    "1",
	Key2:    "2",
	Key3:    "3",
	Key4:    "4",
	Key5:    "5",
	Key6:    "6",
	Key7:    "7",
	Key8:    "8",
	Key9:    "9",
	KeyStar: "*",
	KeyHash: "#",
	KeyA:    "A",
	KeyB:    "B",
	KeyC:    "C",
	KeyD:    "D",
}

// String returns the keypad symbol for the key ("none" for KeyNone).
func (k PhoneKey) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "invalid"
}

// LowTone returns the row frequency in Hz for the given tone index (0-3).
func LowTone(i int) float64 { return lowTones[i] }

// HighTone returns the column frequency in Hz for the given tone index (0-3).
func HighTone(i int) float64 { return highTones[i] }

// KeyFor returns the key at the intersection of the given row and column
// tone indices.
func KeyFor(low, high int) PhoneKey { return keypad[low][high] }
