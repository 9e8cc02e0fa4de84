package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/services"
)

// RunAPIHandler serves the results of one run as JSON
type RunAPIHandler struct {
	results services.ResultService
}

// NewRunAPIHandler creates a new run API handler
func NewRunAPIHandler(results services.ResultService) *RunAPIHandler {
	return &RunAPIHandler{
		results: results,
	}
}

// ResultResponse represents one scenario result sent to the client
type ResultResponse struct {
	Scenario   string    `json:"scenario"`
	Status     string    `json:"status"`
	Step       string    `json:"step,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

// RunResponse represents a run sent to the client
type RunResponse struct {
	RunID   string           `json:"runId"`
	Passed  bool             `json:"passed"`
	Results []ResultResponse `json:"results"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newRunResponse(runID string, results []*models.ScenarioResult) RunResponse {
	resp := RunResponse{RunID: runID, Passed: true, Results: make([]ResultResponse, 0, len(results))}
	for _, r := range results {
		if !r.IsPassed() {
			resp.Passed = false
		}
		resp.Results = append(resp.Results, ResultResponse{
			Scenario:   r.Scenario,
			Status:     string(r.Status),
			Step:       r.Step,
			Kind:       r.Kind,
			Reason:     r.Reason,
			StartedAt:  r.StartedAt,
			DurationMs: r.Duration().Milliseconds(),
		})
	}
	return resp
}

// ServeHTTP handles the GET /api/runs?id= request
func (h *RunAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("id")
	if runID == "" {
		sendErrorResponse(w, "Missing run ID", http.StatusBadRequest)
		return
	}

	results, err := h.results.Run(runID)
	if err != nil {
		log.Printf("Error loading run %s: %v", runID, err)
		sendErrorResponse(w, "Failed to load run", http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		sendErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newRunResponse(runID, results)); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
