package chip8

import "time"

// PatternLength is the size of the audio pattern buffer in bytes. The buffer
// holds one waveform cycle of 128 1-bit samples.
const PatternLength = 16

// defaultPattern is the initial audio pattern, an alternating bit square wave.
const defaultPattern = 0xAA

// PatternPlayer turns the 1-bit audio pattern into sound. The CPU hands it
// the pattern buffer and a playback duration whenever the sound timer is
// armed. Expanding the bits into an audible waveform and driving the audio
// device is entirely the player's concern.
type PatternPlayer interface {
	PlayPattern(pattern [PatternLength]byte, duration time.Duration)
}
