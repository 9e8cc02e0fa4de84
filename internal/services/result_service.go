package services

import (
	"errors"
	"fmt"

	"github.com/themizzi/libcheck/internal/models"
)

// ErrUnfinishedResult is returned when a pending result is recorded
var ErrUnfinishedResult = errors.New("result is not finished")

// ErrInvalidLimit is returned for a non-positive history limit
var ErrInvalidLimit = errors.New("history limit must be positive")

// ResultRepository defines the interface for result persistence
type ResultRepository interface {
	SaveResult(result *models.ScenarioResult) error
	ListRecent(limit int) ([]*models.ScenarioResult, error)
	ListRun(runID string) ([]*models.ScenarioResult, error)
}

// ResultService records and retrieves scenario results
type ResultService interface {
	Record(results []*models.ScenarioResult) error
	History(limit int) ([]*models.ScenarioResult, error)
	Run(runID string) ([]*models.ScenarioResult, error)
}

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	resultRepo ResultRepository
}

// NewResultService creates a new result service
func NewResultService(resultRepo ResultRepository) ResultService {
	return &ResultServiceImpl{
		resultRepo: resultRepo,
	}
}

// Record stores finished results in order. It stops at the first pending
// result or repository error; results before it stay stored.
func (s *ResultServiceImpl) Record(results []*models.ScenarioResult) error {
	for _, result := range results {
		if !result.IsPassed() && !result.IsFailed() {
			return fmt.Errorf("%w: %s", ErrUnfinishedResult, result.Scenario)
		}
		if err := s.resultRepo.SaveResult(result); err != nil {
			return fmt.Errorf("failed to record %s: %w", result.Scenario, err)
		}
	}
	return nil
}

// History returns up to limit results, newest first
func (s *ResultServiceImpl) History(limit int) ([]*models.ScenarioResult, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	results, err := s.resultRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return results, nil
}

// Run returns the results of one run
func (s *ResultServiceImpl) Run(runID string) ([]*models.ScenarioResult, error) {
	results, err := s.resultRepo.ListRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return results, nil
}
