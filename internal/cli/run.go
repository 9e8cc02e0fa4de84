package cli

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/report"
	"github.com/themizzi/libcheck/internal/scenario"
	"github.com/themizzi/libcheck/internal/services"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/wait"
)

// ErrScenariosFailed is returned when at least one scenario of a run failed
var ErrScenariosFailed = errors.New("scenarios failed")

// Launcher starts the surface a run drives and returns what releases it
type Launcher func() (surface.Surface, io.Closer, error)

// RunDependencies holds all dependencies needed for a run
type RunDependencies struct {
	HarnessConfig config.HarnessConfig
	Contract      config.Contract
	Scenarios     []scenario.Scenario
	Launch        Launcher
	// Results records the run when set
	Results services.ResultService
	Output  io.Writer

	WaitOptions   []wait.Option
	RunnerOptions []scenario.RunnerOption
}

// PlaywrightLauncher launches a Chromium session configured by cfg
func PlaywrightLauncher(cfg config.HarnessConfig) Launcher {
	return func() (surface.Surface, io.Closer, error) {
		session, err := surface.Launch(surface.LaunchOptions{
			Headless:      cfg.Headless,
			SlowMo:        cfg.SlowMo,
			ActionTimeout: cfg.DefaultTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.Page, session, nil
	}
}

// RunSuite launches the surface, runs the scenarios, prints the results and
// records them. The surface is released whatever the outcome.
func RunSuite(deps RunDependencies) (report.Summary, error) {
	s, closer, err := deps.Launch()
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Printf("Failed to release browser: %v", err)
		}
	}()

	h := scenario.NewHarness(s, deps.HarnessConfig, deps.Contract, deps.WaitOptions...)
	runner := scenario.NewRunner(h, deps.RunnerOptions...)
	log.Printf("Running %d scenarios against %s (run %s)", len(deps.Scenarios), deps.HarnessConfig.BaseURL, runner.RunID())

	results := runner.RunAll(deps.Scenarios)
	summary := report.Results(deps.Output, results)

	if deps.Results != nil {
		if err := deps.Results.Record(results); err != nil {
			return summary, fmt.Errorf("failed to record results: %w", err)
		}
		log.Printf("Recorded %d results", len(results))
	}

	if !summary.OK() {
		return summary, fmt.Errorf("%w: %s", ErrScenariosFailed, summary)
	}
	return summary, nil
}

// ListScenarios prints the scenarios that can be selected
func ListScenarios(w io.Writer, scenarios []scenario.Scenario) {
	report.Scenarios(w, scenarios)
}

// ShowHistory prints up to limit recorded results
func ShowHistory(w io.Writer, results services.ResultService, limit int) error {
	history, err := results.History(limit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(w, "No results recorded yet")
		return nil
	}
	report.History(w, history)
	return nil
}
