package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the outcome of a scenario
type ResultStatus string

// Result statuses
const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusPassed  ResultStatus = "passed"
	ResultStatusFailed  ResultStatus = "failed"
)

// ErrInvalidStatusTransition is returned when a finished result is finished again
var ErrInvalidStatusTransition = errors.New("invalid result status transition")

// ScenarioResult records one execution of one scenario
type ScenarioResult struct {
	ID         string
	RunID      string
	Scenario   string
	Status     ResultStatus
	Step       string
	Kind       string
	Reason     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunID returns an identifier shared by all results of one run
func NewRunID() string {
	return uuid.New().String()
}

// NewScenarioResult starts a pending result
func NewScenarioResult(runID, scenario string, startedAt time.Time) *ScenarioResult {
	return &ScenarioResult{
		ID:        uuid.New().String(),
		RunID:     runID,
		Scenario:  scenario,
		Status:    ResultStatusPending,
		StartedAt: startedAt,
	}
}

// Pass marks the result as passed
func (r *ScenarioResult) Pass(at time.Time) error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot pass a %s result", ErrInvalidStatusTransition, r.Status)
	}
	r.Status = ResultStatusPassed
	r.FinishedAt = at
	return nil
}

// Fail marks the result as failed in step for reason
func (r *ScenarioResult) Fail(at time.Time, step, kind, reason string) error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot fail a %s result", ErrInvalidStatusTransition, r.Status)
	}
	r.Status = ResultStatusFailed
	r.Step = step
	r.Kind = kind
	r.Reason = reason
	r.FinishedAt = at
	return nil
}

// IsPassed returns true if the scenario passed
func (r *ScenarioResult) IsPassed() bool {
	return r.Status == ResultStatusPassed
}

// IsFailed returns true if the scenario failed
func (r *ScenarioResult) IsFailed() bool {
	return r.Status == ResultStatusFailed
}

// Duration returns how long the scenario ran, or zero while pending
func (r *ScenarioResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
