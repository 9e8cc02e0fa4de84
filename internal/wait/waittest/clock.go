// Package waittest provides a deterministic clock for wait.Engine.
package waittest

import "time"

// Clock advances only when slept on and records every sleep.
type Clock struct {
	T      time.Time
	Sleeps []time.Duration
}

// NewClock returns a clock starting at a fixed instant
func NewClock() *Clock {
	return &Clock{T: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	return c.T
}

// Sleep advances the fake time by d
func (c *Clock) Sleep(d time.Duration) {
	c.Sleeps = append(c.Sleeps, d)
	c.T = c.T.Add(d)
}

// Slept returns the total time slept
func (c *Clock) Slept() time.Duration {
	var total time.Duration
	for _, d := range c.Sleeps {
		total += d
	}
	return total
}
