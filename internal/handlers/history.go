package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/report"
	"github.com/themizzi/libcheck/internal/services"
)

// maxHistoryLimit caps the limit query parameter
const maxHistoryLimit = 500

// templateFuncs are shared by the result pages
var templateFuncs = template.FuncMap{
	"duration": func(r *models.ScenarioResult) string {
		return r.Duration().Round(time.Millisecond).String()
	},
	"datetime": func(t time.Time) string {
		return t.Format(time.DateTime)
	},
}

func parseTemplate(templatePath string) (*template.Template, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(templateFuncs).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// HistoryHandler renders the most recent scenario results
type HistoryHandler struct {
	template     *template.Template
	results      services.ResultService
	defaultLimit int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(templatePath string, results services.ResultService, defaultLimit int) (*HistoryHandler, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	return &HistoryHandler{
		template:     tmpl,
		results:      results,
		defaultLimit: defaultLimit,
	}, nil
}

// HistoryData represents the data for the history template
type HistoryData struct {
	Results []*models.ScenarioResult
	Summary report.Summary
	Limit   int
}

// ServeHTTP handles the GET / request
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := h.results.History(limit)
	if err != nil {
		log.Printf("Error loading history: %v", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	data := HistoryData{
		Results: results,
		Summary: report.Summarize(results),
		Limit:   limit,
	}

	if err := h.template.Execute(w, data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
