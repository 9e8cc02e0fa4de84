// Package wait polls a surface until a condition holds.
//
// Every synchronization with the page goes through Await. Settle is the only
// unconditional delay and is meant to follow a satisfied condition, absorbing
// trailing render work the page does not signal.
package wait

import (
	"errors"
	"time"

	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/surface"
)

// Clock is the time source of an Engine
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Engine evaluates conditions against one surface
type Engine struct {
	surface  surface.Surface
	interval time.Duration
	settle   time.Duration
	clock    Clock
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an engine polling s every interval and settling for settle.
func New(s surface.Surface, interval, settle time.Duration, opts ...Option) *Engine {
	e := &Engine{
		surface:  s,
		interval: interval,
		settle:   settle,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Surface returns the surface the engine polls
func (e *Engine) Surface() surface.Surface {
	return e.surface
}

// Await polls cond until it holds or timeout elapses. The condition is always
// evaluated at least once. Errors from the surface during polling count as
// "not yet" and the last one is attached to the TimeoutError.
func (e *Engine) Await(cond Condition, timeout time.Duration) error {
	deadline := e.clock.Now().Add(timeout)
	var last error
	for {
		ok, err := cond.Check(e.surface)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			last = err
		}

		remaining := deadline.Sub(e.clock.Now())
		if remaining <= 0 {
			return &failure.TimeoutError{Condition: cond.Description, Timeout: timeout, Last: last}
		}
		e.clock.Sleep(min(e.interval, remaining))
	}
}

// AwaitSettled awaits cond and then sleeps for the settle buffer.
func (e *Engine) AwaitSettled(cond Condition, timeout time.Duration) error {
	if err := e.Await(cond, timeout); err != nil {
		return err
	}
	e.Settle()
	return nil
}

// Lookup awaits cond for an optional feature. A timeout is reported as
// found=false instead of an error; any other error is returned.
func (e *Engine) Lookup(cond Condition, timeout time.Duration) (bool, error) {
	err := e.Await(cond, timeout)
	if errors.Is(err, failure.ErrTimeout) {
		return false, nil
	}
	return err == nil, err
}

// Settle sleeps for the settle buffer
func (e *Engine) Settle() {
	e.SettleFor(e.settle)
}

// SettleFor sleeps for d
func (e *Engine) SettleFor(d time.Duration) {
	if d > 0 {
		e.clock.Sleep(d)
	}
}
