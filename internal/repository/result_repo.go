package repository

import (
	"database/sql"
	"fmt"

	"github.com/themizzi/libcheck/internal/database"
	"github.com/themizzi/libcheck/internal/models"
)

// ResultRepository handles database operations for scenario results
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{
		db: database.DB,
	}
}

// NewResultRepositoryWithDB creates a new result repository with a specific database connection
func NewResultRepositoryWithDB(db *sql.DB) *ResultRepository {
	return &ResultRepository{
		db: db,
	}
}

const selectResults = `
		SELECT id, run_id, scenario, status, step, kind, reason, started_at, finished_at
		FROM scenario_results
	`

// SaveResult stores a finished result
func (r *ResultRepository) SaveResult(result *models.ScenarioResult) error {
	query := `
		INSERT INTO scenario_results (id, run_id, scenario, status, step, kind, reason, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		result.ID,
		result.RunID,
		result.Scenario,
		result.Status,
		result.Step,
		result.Kind,
		result.Reason,
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// ListRecent returns up to limit results, newest first
func (r *ResultRepository) ListRecent(limit int) ([]*models.ScenarioResult, error) {
	rows, err := r.db.Query(selectResults+`ORDER BY started_at DESC, scenario LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return scanResults(rows)
}

// ListRun returns the results of one run in execution order
func (r *ResultRepository) ListRun(runID string) ([]*models.ScenarioResult, error) {
	rows, err := r.db.Query(selectResults+`WHERE run_id = $1 ORDER BY started_at, scenario`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run %s: %w", runID, err)
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]*models.ScenarioResult, error) {
	defer rows.Close()

	var results []*models.ScenarioResult
	for rows.Next() {
		result := &models.ScenarioResult{}
		err := rows.Scan(
			&result.ID,
			&result.RunID,
			&result.Scenario,
			&result.Status,
			&result.Step,
			&result.Kind,
			&result.Reason,
			&result.StartedAt,
			&result.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	return results, nil
}
