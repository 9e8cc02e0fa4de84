package config

import (
	"fmt"
)

// ReportDBConfig holds configuration for the PostgreSQL database that stores scenario results
type ReportDBConfig struct {
	User     string
	Password string
	Database string
	Host     string
}

// LoadReportDBConfig loads report database configuration from environment variables.
// It returns nil without error when LIBCHECK_DB_HOST is unset, meaning results are not recorded.
func LoadReportDBConfig(getenv func(string) string) (*ReportDBConfig, error) {
	config := &ReportDBConfig{
		User:     getenv("LIBCHECK_DB_USER"),
		Password: getenv("LIBCHECK_DB_PASSWORD"),
		Database: getenv("LIBCHECK_DB_NAME"),
		Host:     getenv("LIBCHECK_DB_HOST"),
	}

	if config.Host == "" {
		return nil, nil
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("LIBCHECK_DB_USER is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("LIBCHECK_DB_NAME is required")
	}

	return config, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *ReportDBConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database)
}
