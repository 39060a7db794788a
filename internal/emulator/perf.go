package emulator

import (
	"time"
)

// Limiter paces a loop to a target rate of iterations per second. High rates
// are amortized by sleeping only every Nth call with an N times longer
// deadline, keeping the sleep granularity coarse enough for the OS scheduler.
// A zero limit disables pacing.
type Limiter struct {
	lastCheck     time.Time
	lastRateCheck time.Time
	limit         float64
	counter       uint64
	lastCounter   uint64

	everyNth   uint64
	nthCounter uint64
}

// NewLimiter returns a limiter for the given rate. A limit of 0 makes Wait
// return immediately.
func NewLimiter(limit float64) *Limiter {
	everyNth := uint64(1)
	if limit >= 100 {
		everyNth = uint64(limit) / 100
	}
	now := time.Now()
	return &Limiter{
		lastCheck:     now,
		lastRateCheck: now,
		limit:         limit,
		everyNth:      everyNth,
	}
}

// Wait counts one iteration and sleeps as long as needed to keep the loop at
// the target rate.
func (l *Limiter) Wait() {
	l.counter++

	if l.everyNth > 1 {
		if l.nthCounter < l.everyNth-1 {
			l.nthCounter++
			return
		}
		l.nthCounter = 0
	}

	now := time.Now()
	elapsed := now.Sub(l.lastCheck).Seconds()
	wait := float64(l.everyNth)/l.limit - elapsed
	if l.limit == 0 || wait <= 0 {
		l.lastCheck = now
		return
	}

	time.Sleep(time.Duration(wait * float64(time.Second)))
	l.lastCheck = time.Now()
}

// TryTick reports whether the rate interval has passed without blocking.
// It is used for periodic work like once a second diagnostics.
func (l *Limiter) TryTick() bool {
	now := time.Now()
	elapsed := now.Sub(l.lastCheck).Seconds()
	if l.limit != 0 && 1.0/l.limit-elapsed > 0 {
		return false
	}
	l.lastCheck = now
	l.counter++
	return true
}

// Rate returns the measured iterations per second since the last Rate call.
func (l *Limiter) Rate() float64 {
	now := time.Now()
	rate := float64(l.counter-l.lastCounter) / now.Sub(l.lastRateCheck).Seconds()
	l.lastRateCheck = now
	l.lastCounter = l.counter
	return rate
}
