// Package clock provides an injectable time source so forecasting,
// scheduling and anomaly detection are testable against a fixed "now".
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Real returns a wall-clock backed Clock.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
