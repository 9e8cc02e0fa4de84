package config

import (
	"fmt"
	"strconv"
	"time"
)

// HarnessConfig holds configuration for a harness run
type HarnessConfig struct {
	BaseURL        string
	Headless       bool
	SlowMo         time.Duration
	PollInterval   time.Duration
	Settle         time.Duration
	OpenSettle     time.Duration
	DefaultTimeout time.Duration
	MenuTimeout    time.Duration
	ViewTimeout    time.Duration
	ContractPath   string
}

// DefaultHarnessConfig returns the configuration used when no environment is set
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		BaseURL:        "http://localhost:8001/index.html",
		Headless:       true,
		PollInterval:   100 * time.Millisecond,
		Settle:         500 * time.Millisecond,
		OpenSettle:     300 * time.Millisecond,
		DefaultTimeout: 3 * time.Second,
		MenuTimeout:    2 * time.Second,
		ViewTimeout:    5 * time.Second,
	}
}

// LoadHarnessConfig loads harness configuration from environment variables
func LoadHarnessConfig(getenv func(string) string) (HarnessConfig, error) {
	config := DefaultHarnessConfig()

	if url := getenv("LIBCHECK_URL"); url != "" {
		config.BaseURL = url
	}
	config.ContractPath = getenv("LIBCHECK_CONTRACT")

	if v := getenv("LIBCHECK_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return config, fmt.Errorf("LIBCHECK_HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{"LIBCHECK_SLOWMO_MS", &config.SlowMo},
		{"LIBCHECK_POLL_MS", &config.PollInterval},
		{"LIBCHECK_SETTLE_MS", &config.Settle},
		{"LIBCHECK_OPEN_SETTLE_MS", &config.OpenSettle},
		{"LIBCHECK_TIMEOUT_MS", &config.DefaultTimeout},
		{"LIBCHECK_MENU_TIMEOUT_MS", &config.MenuTimeout},
		{"LIBCHECK_VIEW_TIMEOUT_MS", &config.ViewTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return config, fmt.Errorf("%s must be a non-negative number of milliseconds, got %q", d.key, v)
		}
		*d.dest = time.Duration(ms) * time.Millisecond
	}

	if config.PollInterval == 0 {
		return config, fmt.Errorf("LIBCHECK_POLL_MS must be greater than zero")
	}

	return config, nil
}
