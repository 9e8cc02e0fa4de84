package database

import (
	"database/sql"
	"fmt"
	"log"
)

const createResultsTable = `
	CREATE TABLE IF NOT EXISTS scenario_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		step VARCHAR(255) NOT NULL DEFAULT '',
		kind VARCHAR(50) NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_results_run_id ON scenario_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_results_started_at ON scenario_results(started_at);
	`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Migrate creates the results table in db's current schema
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(createResultsTable); err != nil {
		return fmt.Errorf("failed to create scenario_results table: %w", err)
	}
	return nil
}
