// Package clock abstracts the parts of the time package the service schedules
// with, so tests can drive tickers by hand instead of waiting in real time.
package clock

import "time"

// Interface is the clock used by scheduling code.
type Interface interface {
	Now() time.Time
	NewTicker(time.Duration) Ticker
}

// Ticker is the analog of time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	*time.Ticker
}

func (st systemTicker) C() <-chan time.Time {
	return st.Ticker.C
}

// System returns a clock backed by the time package.
func System() Interface {
	return systemClock{}
}
