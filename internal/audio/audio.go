// Package audio plays the 1-bit CHIP-8 sound patterns through the system
// audio device.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/retroenv/retrochip8/internal/chip8"
)

const (
	// sampleRate is the output sample rate of the audio device.
	sampleRate = 48000

	// patternRate is the playback rate of the pattern bits. A 128 bit
	// pattern at 4000 bits per second yields tones in the audible range.
	patternRate = 4000

	// volume of the generated square wave, kept well below clipping.
	volume = 0.25
)

// Synth expands 1-bit audio patterns into a square wave. It implements the
// pattern player interface of the CPU on one side and io.Reader for the
// audio device pull model on the other.
type Synth struct {
	ctx    *oto.Context
	player *oto.Player

	mu        sync.Mutex
	bits      [chip8.PatternLength * 8]float32
	remaining int64 // output samples left to play
	phase     int64 // position in output samples, drives the bit index
}

// compile time interface check
var _ chip8.PatternPlayer = &Synth{}

// NewSynth opens the default audio device and starts the playback stream.
// The stream runs continuously and outputs silence while no tone is active.
func NewSynth() (*Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	s := &Synth{
		ctx: ctx,
	}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Close stops the playback stream.
func (s *Synth) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}

// PlayPattern plays the pattern bits as a square wave for the given duration.
// A new pattern replaces the current one immediately.
func (s *Synth) PlayPattern(pattern [chip8.PatternLength]byte, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range pattern {
		for bit := range 8 {
			value := float32(-volume)
			if b>>(7-bit)&0x1 == 1 {
				value = volume
			}
			s.bits[i*8+bit] = value
		}
	}
	s.remaining = int64(duration.Seconds() * sampleRate)
	s.phase = 0
}

// Read fills the device buffer with float32 little endian samples. It is
// called by the audio device from its own goroutine.
func (s *Synth) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := len(p) / 4
	for i := range samples {
		var value float32
		if s.remaining > 0 {
			bit := s.phase * patternRate / sampleRate % int64(len(s.bits))
			value = s.bits[bit]
			s.phase++
			s.remaining--
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(value))
	}
	return samples * 4, nil
}

// Nop is a pattern player that discards all playback requests. It is used
// when audio output is muted.
type Nop struct{}

var _ chip8.PatternPlayer = Nop{}

// PlayPattern discards the pattern.
func (Nop) PlayPattern(_ [chip8.PatternLength]byte, _ time.Duration) {}
