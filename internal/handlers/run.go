package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/report"
	"github.com/themizzi/libcheck/internal/services"
)

// RunHandler renders every result of one run
type RunHandler struct {
	template *template.Template
	results  services.ResultService
}

// NewRunHandler creates a new run handler
func NewRunHandler(templatePath string, results services.ResultService) (*RunHandler, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	return &RunHandler{
		template: tmpl,
		results:  results,
	}, nil
}

// RunData represents the data for the run template
type RunData struct {
	RunID   string
	Results []*models.ScenarioResult
	Summary report.Summary
}

// ServeHTTP handles the GET /runs?id= request
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("id")
	if runID == "" {
		http.Error(w, "Missing run ID", http.StatusBadRequest)
		return
	}

	results, err := h.results.Run(runID)
	if err != nil {
		log.Printf("Error loading run %s: %v", runID, err)
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		http.NotFound(w, r)
		return
	}

	data := RunData{
		RunID:   runID,
		Results: results,
		Summary: report.Summarize(results),
	}

	if err := h.template.Execute(w, data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
