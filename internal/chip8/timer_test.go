package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestTimerDecay(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 60.0, 1.0)

	assert.Equal(t, uint8(0), timer.Get())

	timer.Set(60)
	assert.Equal(t, uint8(60), timer.Get())

	clock.advance(500 * time.Millisecond)
	assert.Equal(t, uint8(30), timer.Get())

	clock.advance(500 * time.Millisecond)
	assert.Equal(t, uint8(0), timer.Get())

	// value stays clamped at zero long after expiry
	clock.advance(time.Hour)
	assert.Equal(t, uint8(0), timer.Get())
}

func TestTimerRepeatedReads(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 60.0, 1.0)
	timer.Set(60)

	// reads 10ms apart never differ by more than one tick
	last := timer.Get()
	for range 100 {
		clock.advance(10 * time.Millisecond)
		value := timer.Get()
		diff := int(last) - int(value)
		assert.True(t, diff >= 0 && diff <= 1, "timer decayed by %d ticks in 10ms", diff)
		last = value
	}
	assert.Equal(t, uint8(0), timer.Get())
}

func TestTimerRearm(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 60.0, 1.0)

	timer.Set(10)
	clock.advance(100 * time.Millisecond)
	timer.Set(60)
	assert.Equal(t, uint8(60), timer.Get())
}

func TestTimerMultiplier(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 60.0, 2.0)

	timer.Set(60)
	clock.advance(500 * time.Millisecond)
	assert.Equal(t, uint8(0), timer.Get())
}

func TestTimerTimeRemaining(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock, 60.0, 1.0)

	_, armed := timer.TimeRemaining()
	assert.False(t, armed)

	timer.Set(60)
	remaining, armed := timer.TimeRemaining()
	assert.True(t, armed)
	assert.Equal(t, time.Second, remaining)
}
