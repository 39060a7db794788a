package chip8

import "time"

// Clock provides the current time. The indirection allows tests to drive
// timers with a fake clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Timer is a wall clock decaying 8 bit countdown register. The current value
// is never stored, it is derived on read from the elapsed time since the last
// set. This keeps the timer correct regardless of how often it is polled.
type Timer struct {
	clock      Clock
	start      time.Time
	lastSet    time.Time
	value      uint8
	freqHz     float64
	multiplier float64
}

// NewTimer returns a timer ticking at the given frequency, sped up or slowed
// down by the multiplier.
func NewTimer(clock Clock, freqHz, multiplier float64) *Timer {
	now := clock.Now()
	return &Timer{
		clock:      clock,
		start:      now,
		lastSet:    now,
		freqHz:     freqHz,
		multiplier: multiplier,
	}
}

// Set loads the register and records the set time.
func (t *Timer) Set(value uint8) {
	t.lastSet = t.clock.Now()
	t.value = value
}

// Get returns the current register value, clamped to zero. Both the current
// and the set instant are converted to whole tick counts from the same start
// instant before subtracting, so repeated reads never double count a tick.
func (t *Timer) Get() uint8 {
	if t.value == 0 {
		return 0
	}
	stepsNow := t.steps(t.clock.Now())
	stepsSet := t.steps(t.lastSet)
	diff := stepsNow - stepsSet
	if uint64(t.value) < diff {
		return 0
	}
	return t.value - uint8(diff)
}

// TimeRemaining returns the remaining countdown duration, or false when the
// register is at rest.
func (t *Timer) TimeRemaining() (time.Duration, bool) {
	value := t.Get()
	if value == 0 {
		return 0, false
	}
	return time.Duration(float64(value) / t.freqHz * float64(time.Second)), true
}

func (t *Timer) steps(instant time.Time) uint64 {
	return uint64(instant.Sub(t.start).Seconds() * t.freqHz * t.multiplier)
}
