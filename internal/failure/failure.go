// Package failure defines the error taxonomy shared by the harness layers.
//
// Every abort of a scenario is reported through exactly one of these kinds:
// a condition that never became true (Timeout), a stable interface whose
// content broke the expected contract (Assertion), or a lookup that found
// nothing (ElementNotFound). StepError attributes any of them to the workflow
// step that produced it.
package failure

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds
var (
	ErrTimeout         = errors.New("timeout")
	ErrAssertion       = errors.New("assertion failed")
	ErrElementNotFound = errors.New("element not found")
)

// TimeoutError reports a condition that did not hold before its deadline.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	// Last is the most recent error returned while evaluating the condition, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap returns the last evaluation error.
func (e *TimeoutError) Unwrap() error {
	return e.Last
}

// AssertionError reports interface content that violates the expected contract.
type AssertionError struct {
	Expectation string
	Actual      string
}

func (e *AssertionError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("expected %s", e.Expectation)
	}
	return fmt.Sprintf("expected %s, got %s", e.Expectation, e.Actual)
}

// Is reports whether target is ErrAssertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// NotFoundError reports an element or option that does not exist.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrElementNotFound, e.What)
}

// Is reports whether target is ErrElementNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// StepError attributes an error to a named workflow step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Assertf builds an AssertionError.
func Assertf(actual string, format string, args ...any) error {
	return &AssertionError{Expectation: fmt.Sprintf(format, args...), Actual: actual}
}

// NotFound builds a NotFoundError.
func NotFound(format string, args ...any) error {
	return &NotFoundError{What: fmt.Sprintf(format, args...)}
}

// InStep wraps err with the step name. A nil err stays nil and an error that
// already carries a step keeps its innermost attribution.
func InStep(step string, err error) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		return err
	}
	return &StepError{Step: step, Err: err}
}

// Kind returns a short label for the error's category.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrAssertion):
		return "assertion"
	case errors.Is(err, ErrElementNotFound):
		return "not-found"
	default:
		return "error"
	}
}
