// Package clock abstracts the wall clock so time-window logic can be driven
// deterministically in tests instead of waiting on real time.
package clock

import "time"

// Clock is the time source used by everything that compares against "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the real wall clock.
func System() Clock { return systemClock{} }

// Fixed is a clock pinned to one instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }

// At returns a clock pinned to t.
func At(t time.Time) Fixed { return Fixed{Instant: t} }
