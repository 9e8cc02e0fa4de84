// Package report renders scenario results as terminal tables.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/scenario"
)

// Summary counts results by outcome
type Summary struct {
	Passed int
	Failed int
}

// OK reports whether nothing failed
func (s Summary) OK() bool {
	return s.Failed == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}

// Summarize counts results
func Summarize(results []*models.ScenarioResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.IsPassed():
			s.Passed++
		case r.IsFailed():
			s.Failed++
		}
	}
	return s
}

func reason(r *models.ScenarioResult) string {
	if !r.IsFailed() {
		return ""
	}
	return fmt.Sprintf("[%s] %s", r.Kind, r.Reason)
}

func duration(r *models.ScenarioResult) string {
	return r.Duration().Round(time.Millisecond).String()
}

// Results writes one row per result followed by a summary and returns the summary
func Results(w io.Writer, results []*models.ScenarioResult) Summary {
	summary := Summarize(results)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Scenario", "Status", "Duration", "Step", "Reason"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Scenario, r.Status, duration(r), r.Step, reason(r)})
	}
	tw.AppendFooter(table.Row{"", summary.String()})
	tw.Render()
	return summary
}

// History writes stored results, most recent first as given
func History(w io.Writer, results []*models.ScenarioResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Run", "Scenario", "Status", "Started", "Duration", "Reason"})
	for _, r := range results {
		tw.AppendRow(table.Row{shortID(r.RunID), r.Scenario, r.Status, r.StartedAt.Format(time.DateTime), duration(r), reason(r)})
	}
	tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Scenarios writes the name and description of each scenario
func Scenarios(w io.Writer, scenarios []scenario.Scenario) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Scenario", "Checks"})
	for i, sc := range scenarios {
		tw.AppendRow(table.Row{i + 1, sc.Name, sc.Description})
	}
	tw.Render()
}
