package scenario

import (
	"fmt"
	"time"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/form"
	"github.com/themizzi/libcheck/internal/nav"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/table"
	"github.com/themizzi/libcheck/internal/wait"
)

// Harness bundles the workflow components scenarios are written against.
// All of them share one wait engine over one surface.
type Harness struct {
	URL      string
	Contract config.Contract
	Surface  surface.Surface
	Wait     *wait.Engine
	Nav      *nav.Controller
	Table    *table.Inspector
	Library  *form.Library

	Timeout     time.Duration
	ViewTimeout time.Duration
}

// NewHarness wires the components for s
func NewHarness(s surface.Surface, cfg config.HarnessConfig, contract config.Contract, opts ...wait.Option) *Harness {
	engine := wait.New(s, cfg.PollInterval, cfg.Settle, opts...)
	navigator := nav.New(engine, contract, cfg.MenuTimeout, cfg.ViewTimeout)
	workflow := form.NewWorkflow(engine, cfg.DefaultTimeout, cfg.OpenSettle)

	return &Harness{
		URL:         cfg.BaseURL,
		Contract:    contract,
		Surface:     s,
		Wait:        engine,
		Nav:         navigator,
		Table:       table.New(engine, contract, cfg.DefaultTimeout),
		Library:     form.NewLibrary(workflow, navigator, contract),
		Timeout:     cfg.DefaultTimeout,
		ViewTimeout: cfg.ViewTimeout,
	}
}

// OpenPage loads the page and waits for the search input
func (h *Harness) OpenPage() error {
	if err := h.Surface.Open(h.URL); err != nil {
		return err
	}
	if err := h.Wait.Await(wait.Visible(h.Contract.Page.SearchInput), h.Timeout); err != nil {
		return fmt.Errorf("page did not load: %w", err)
	}
	return nil
}
