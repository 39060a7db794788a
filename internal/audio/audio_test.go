package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func readSample(t *testing.T, buf []byte, i int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
}

func TestSynthSilenceWithoutTone(t *testing.T) {
	s := &Synth{}

	buf := make([]byte, 64)
	n, err := s.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 64, n)

	for i := range 16 {
		assert.Equal(t, float32(0), readSample(t, buf, i))
	}
}

func TestSynthSquareWave(t *testing.T) {
	s := &Synth{}

	var pattern [chip8.PatternLength]byte
	for i := range pattern {
		pattern[i] = 0xF0 // 4 bits high, 4 bits low
	}
	s.PlayPattern(pattern, time.Second)

	// at 48000 Hz output and 4000 bits per second each pattern bit spans
	// 12 samples, so the first 48 samples are high and the next 48 low
	buf := make([]byte, 96*4)
	n, err := s.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)

	assert.Equal(t, float32(volume), readSample(t, buf, 0))
	assert.Equal(t, float32(volume), readSample(t, buf, 47))
	assert.Equal(t, float32(-volume), readSample(t, buf, 48))
	assert.Equal(t, float32(-volume), readSample(t, buf, 95))
}

func TestSynthToneEnds(t *testing.T) {
	s := &Synth{}

	var pattern [chip8.PatternLength]byte
	for i := range pattern {
		pattern[i] = 0xFF
	}
	duration := 10 * time.Millisecond // 480 output samples
	s.PlayPattern(pattern, duration)

	buf := make([]byte, 500*4)
	_, err := s.Read(buf)
	assert.NoError(t, err)

	assert.Equal(t, float32(volume), readSample(t, buf, 479))
	assert.Equal(t, float32(0), readSample(t, buf, 480))
}

func TestSynthNewPatternReplacesTone(t *testing.T) {
	s := &Synth{}

	var high [chip8.PatternLength]byte
	for i := range high {
		high[i] = 0xFF
	}
	s.PlayPattern(high, time.Second)
	s.PlayPattern([chip8.PatternLength]byte{}, time.Second)

	buf := make([]byte, 16*4)
	_, err := s.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, float32(-volume), readSample(t, buf, 0))
}
