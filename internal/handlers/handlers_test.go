package handlers

import (
	"time"

	"github.com/themizzi/libcheck/internal/models"
)

// MockResultService is a mock implementation of ResultService for testing
type MockResultService struct {
	HistoryFunc func(int) ([]*models.ScenarioResult, error)
	RunFunc     func(string) ([]*models.ScenarioResult, error)
}

func (m *MockResultService) Record([]*models.ScenarioResult) error {
	return nil
}

func (m *MockResultService) History(limit int) ([]*models.ScenarioResult, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(limit)
	}
	return nil, nil
}

func (m *MockResultService) Run(runID string) ([]*models.ScenarioResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(runID)
	}
	return nil, nil
}

var testStart = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// sampleRun returns one passed and one failed result of runID
func sampleRun(runID string) []*models.ScenarioResult {
	passed := models.NewScenarioResult(runID, "add-book", testStart)
	passed.Pass(testStart.Add(1200 * time.Millisecond))

	failed := models.NewScenarioResult(runID, "rename-author-propagates", testStart.Add(2*time.Second))
	failed.Fail(testStart.Add(5*time.Second), "check author column", "assertion", "expected author cell showing \"After_1\"")

	return []*models.ScenarioResult{passed, failed}
}
