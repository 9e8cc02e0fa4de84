package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	internalcli "github.com/themizzi/libcheck/internal/cli"
	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/database"
	"github.com/themizzi/libcheck/internal/handlers"
	"github.com/themizzi/libcheck/internal/repository"
	"github.com/themizzi/libcheck/internal/scenario"
	"github.com/themizzi/libcheck/internal/services"
)

var version = "0.1.0"

// connectResults connects to the report database and returns the result service
func connectResults() (services.ResultService, error) {
	dbConfig, err := config.LoadReportDBConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid report database configuration: %w", err)
	}
	if dbConfig == nil {
		return nil, fmt.Errorf("LIBCHECK_DB_HOST is required to record or read results")
	}

	if err := database.Connect(dbConfig); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Connected to database successfully")

	if err := database.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return services.NewResultService(repository.NewResultRepository()), nil
}

// buildRunDependencies creates all dependencies needed for a run
func buildRunDependencies(c *cli.Context) (internalcli.RunDependencies, error) {
	var deps internalcli.RunDependencies

	harnessConfig, err := config.LoadHarnessConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid harness configuration: %w", err)
	}
	if url := c.String("url"); url != "" {
		harnessConfig.BaseURL = url
	}
	if c.Bool("headed") {
		harnessConfig.Headless = false
	}
	deps.HarnessConfig = harnessConfig

	contract, err := config.LoadContract(harnessConfig.ContractPath)
	if err != nil {
		return deps, err
	}
	deps.Contract = contract

	deps.Scenarios, err = scenario.Select(scenario.Catalogue(), c.StringSlice("scenario"))
	if err != nil {
		return deps, err
	}

	deps.Launch = internalcli.PlaywrightLauncher(harnessConfig)
	deps.Output = c.App.Writer
	return deps, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios against the library page",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "scenario",
				Aliases: []string{"s"},
				Usage:   "run only the named scenario (repeatable)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "page under test, overrides LIBCHECK_URL",
			},
			&cli.BoolFlag{
				Name:  "headed",
				Usage: "show the browser window",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "store results in the report database",
			},
		},
		Action: func(c *cli.Context) error {
			deps, err := buildRunDependencies(c)
			if err != nil {
				return err
			}

			if c.Bool("record") {
				results, err := connectResults()
				defer database.Close()
				if err != nil {
					return err
				}
				deps.Results = results
			}

			_, err = internalcli.RunSuite(deps)
			return err
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the available scenarios",
		Action: func(c *cli.Context) error {
			internalcli.ListScenarios(c.App.Writer, scenario.Catalogue())
			return nil
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded scenario results",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "number of results to show",
			},
		},
		Action: func(c *cli.Context) error {
			results, err := connectResults()
			defer database.Close()
			if err != nil {
				return err
			}
			return internalcli.ShowHistory(c.App.Writer, results, c.Int("limit"))
		},
	}
}

// buildServerDependencies creates all dependencies needed for the results viewer
func buildServerDependencies(results services.ResultService) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	deps.ServerConfig = config.LoadServerConfig(os.Getenv)

	historyHandler, err := handlers.NewHistoryHandler("templates/history.html", results, 50)
	if err != nil {
		return deps, fmt.Errorf("failed to create history handler: %w", err)
	}
	deps.HistoryHandler = historyHandler

	runHandler, err := handlers.NewRunHandler("templates/run.html", results)
	if err != nil {
		return deps, fmt.Errorf("failed to create run handler: %w", err)
	}
	deps.RunHandler = runHandler

	deps.RunAPIHandler = handlers.NewRunAPIHandler(results)

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve recorded results over HTTP",
		Action: func(c *cli.Context) error {
			results, err := connectResults()
			defer database.Close()
			if err != nil {
				return err
			}

			deps, err := buildServerDependencies(results)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "libcheck",
		Usage:   "Acceptance checks for the library management page",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			HistoryCommand(),
			ServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}
