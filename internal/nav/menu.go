// Package nav drives the page's two-level menu.
package nav

import (
	"fmt"
	"time"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/table"
	"github.com/themizzi/libcheck/internal/textmatch"
	"github.com/themizzi/libcheck/internal/wait"
)

// Controller opens the menu and activates its entries
type Controller struct {
	waiter      *wait.Engine
	menu        config.MenuContract
	table       config.TableContract
	timeout     time.Duration
	viewTimeout time.Duration
}

// New creates a Controller for the contract's menu
func New(waiter *wait.Engine, contract config.Contract, timeout, viewTimeout time.Duration) *Controller {
	return &Controller{
		waiter:      waiter,
		menu:        contract.Menu,
		table:       contract.Table,
		timeout:     timeout,
		viewTimeout: viewTimeout,
	}
}

// Open makes sure the dropdown is open. An already open dropdown is left as is,
// since clicking the button again would close it.
func (c *Controller) Open() error {
	s := c.waiter.Surface()
	active := wait.HasClass(c.menu.Dropdown, c.menu.ActiveClass)

	open, err := active.Check(s)
	if err != nil {
		return fmt.Errorf("failed to read menu state: %w", err)
	}
	if !open {
		if err := c.waiter.Await(wait.Clickable(c.menu.Button), c.timeout); err != nil {
			return err
		}
		if err := s.Click(c.menu.Button); err != nil {
			return fmt.Errorf("failed to click menu button: %w", err)
		}
	}
	return c.waiter.Await(active, c.timeout)
}

// itemClickable holds when an entry containing label is clickable and records its index
func (c *Controller) itemClickable(label string, index *int) wait.Condition {
	return wait.Predicate(fmt.Sprintf("menu item containing %q to be clickable", label), func(s surface.Surface) (bool, error) {
		items, err := s.Texts(c.menu.Item)
		if err != nil {
			return false, err
		}
		i := textmatch.FirstContaining(items, label)
		if i < 0 {
			return false, nil
		}
		*index = i
		return wait.Clickable(surface.Nth(c.menu.Item, i)).Check(s)
	})
}

// SelectMenuItem opens the menu and activates the first entry whose text contains label
func (c *Controller) SelectMenuItem(label string) error {
	if err := c.Open(); err != nil {
		return fmt.Errorf("open menu for %q: %w", label, err)
	}

	index := -1
	if err := c.waiter.Await(c.itemClickable(label, &index), c.timeout); err != nil {
		return err
	}
	if err := c.waiter.Surface().Click(surface.Nth(c.menu.Item, index)); err != nil {
		return fmt.Errorf("failed to click menu item %q: %w", label, err)
	}
	return nil
}

// ShowAuthors switches the table to the authors view
func (c *Controller) ShowAuthors() error {
	return c.show(c.menu.Authors, table.ViewAuthors)
}

// ShowBooks switches the table to the books view
func (c *Controller) ShowBooks() error {
	return c.show(c.menu.Books, table.ViewBooks)
}

func (c *Controller) show(label string, view table.View) error {
	if err := c.SelectMenuItem(label); err != nil {
		return err
	}
	return c.waiter.Await(table.ViewIs(c.table, view), c.viewTimeout)
}

// viewShown holds when the header shows either view and records which one
func (c *Controller) viewShown(shown *table.View) wait.Condition {
	return wait.Predicate("table to show a view", func(s surface.Surface) (bool, error) {
		for _, view := range []table.View{table.ViewAuthors, table.ViewBooks} {
			ok, err := table.ViewIs(c.table, view).Check(s)
			if err != nil {
				return false, err
			}
			if ok {
				*shown = view
				return true, nil
			}
		}
		return false, nil
	})
}

// EnsureView switches to view unless the header already shows it
func (c *Controller) EnsureView(view table.View) error {
	var shown table.View
	if err := c.waiter.Await(c.viewShown(&shown), c.viewTimeout); err != nil {
		return fmt.Errorf("read table header: %w", err)
	}
	if shown == view {
		return nil
	}
	switch view {
	case table.ViewAuthors:
		return c.ShowAuthors()
	case table.ViewBooks:
		return c.ShowBooks()
	default:
		return failure.NotFound("view %q", view)
	}
}
