// Package scenario runs ordered, assertable end-to-end scenarios.
//
// A scenario is a list of named steps. The first failing step aborts the
// scenario and becomes its single failure reason; the next scenario starts
// from a freshly opened page. Scenarios never share data except through the
// page itself, and they avoid each other's leftovers by embedding a
// uniqueness token derived from the wall clock in everything they create.
package scenario

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/models"
)

// Step is one workflow invocation or assertion
type Step struct {
	Name string
	Run  func() error
}

// Scenario is one end-to-end test case
type Scenario struct {
	Name        string
	Description string
	// Steps builds the steps for one execution. token is unique within the run.
	Steps func(h *Harness, token string) []Step
}

// Runner executes scenarios sequentially against one harness
type Runner struct {
	harness   *Harness
	runID     string
	now       func() time.Time
	lastToken int64
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithNow replaces the wall clock used for tokens and timestamps
func WithNow(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithRunID sets the run identifier stamped on results
func WithRunID(runID string) RunnerOption {
	return func(r *Runner) {
		r.runID = runID
	}
}

// NewRunner creates a Runner
func NewRunner(h *Harness, opts ...RunnerOption) *Runner {
	r := &Runner{
		harness: h,
		runID:   models.NewRunID(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID returns the identifier of this run
func (r *Runner) RunID() string {
	return r.runID
}

// Token returns a uniqueness token for t: its unix milliseconds, bumped past
// the previous token so two scenarios in one run never share one.
func (r *Runner) Token(t time.Time) string {
	ms := t.UnixMilli()
	if ms <= r.lastToken {
		ms = r.lastToken + 1
	}
	r.lastToken = ms
	return strconv.FormatInt(ms, 10)
}

// RunAll runs every scenario in order. A failed scenario does not stop the rest.
func (r *Runner) RunAll(scenarios []Scenario) []*models.ScenarioResult {
	results := make([]*models.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, r.Run(sc))
	}
	return results
}

// Run executes one scenario and returns its result
func (r *Runner) Run(sc Scenario) *models.ScenarioResult {
	started := r.now()
	result := models.NewScenarioResult(r.runID, sc.Name, started)
	token := r.Token(started)
	log.Printf("Scenario %s: starting (token %s)", sc.Name, token)

	steps := []Step{{Name: "open page", Run: r.harness.OpenPage}}
	steps = append(steps, sc.Steps(r.harness, token)...)

	for _, step := range steps {
		if err := runStep(step); err != nil {
			stepName, reason := step.Name, err.Error()
			var se *failure.StepError
			if errors.As(err, &se) {
				stepName, reason = se.Step, se.Err.Error()
			}
			result.Fail(r.now(), stepName, failure.Kind(err), reason)
			log.Printf("Scenario %s: FAILED at %q: %s", sc.Name, stepName, reason)
			return result
		}
	}

	result.Pass(r.now())
	log.Printf("Scenario %s: passed in %s", sc.Name, result.Duration())
	return result
}

// runStep runs step, turning a panic into an error so later scenarios still run
func runStep(step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = failure.InStep(step.Name, fmt.Errorf("panic: %v", p))
		}
	}()
	return failure.InStep(step.Name, step.Run())
}
