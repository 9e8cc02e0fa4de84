// Package form fills and submits the page's modal dialogs.
package form

import (
	"fmt"
	"time"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/textmatch"
	"github.com/themizzi/libcheck/internal/wait"
)

// Dialog identifies a modal and its save action
type Dialog struct {
	Name      string
	Container string
	Save      string
}

// SaveSelector returns the save action scoped to the dialog
func (d Dialog) SaveSelector() string {
	return surface.Within(d.Container, d.Save)
}

// Field is one input and the text to enter into it
type Field struct {
	Selector string
	Value    string
}

// Selection asks for an option of a select control inside the dialog.
//
// With an empty Match the first option is chosen. Otherwise the first option
// whose text contains Match is chosen; when none does, a Required selection
// fails with ElementNotFound and an optional one falls back to the first
// option. A control without options is skipped unless Required.
type Selection struct {
	Control  string
	Match    string
	Required bool
}

// Workflow submits dialogs
type Workflow struct {
	waiter     *wait.Engine
	timeout    time.Duration
	openSettle time.Duration
}

// NewWorkflow creates a Workflow. timeout bounds each dialog transition and
// openSettle is waited after a dialog becomes visible.
func NewWorkflow(waiter *wait.Engine, timeout, openSettle time.Duration) *Workflow {
	return &Workflow{
		waiter:     waiter,
		timeout:    timeout,
		openSettle: openSettle,
	}
}

// AuthorDialog returns the author modal of contract
func AuthorDialog(contract config.Contract) Dialog {
	return Dialog{Name: "author", Container: contract.Author.Container, Save: contract.Author.Save}
}

// BookDialog returns the book modal of contract
func BookDialog(contract config.Contract) Dialog {
	return Dialog{Name: "book", Container: contract.Book.Container, Save: contract.Book.Save}
}

// Fill waits for the dialog, enters fields in order and applies the selection
func (w *Workflow) Fill(d Dialog, fields []Field, sel *Selection) error {
	if err := w.waiter.Await(wait.Visible(d.Container), w.timeout); err != nil {
		return fmt.Errorf("%s dialog did not open: %w", d.Name, err)
	}
	w.waiter.SettleFor(w.openSettle)

	s := w.waiter.Surface()
	for _, f := range fields {
		if err := w.waiter.Await(wait.Visible(f.Selector), w.timeout); err != nil {
			return err
		}
		if err := s.Fill(f.Selector, f.Value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", f.Selector, err)
		}
	}

	if sel != nil {
		if err := w.choose(*sel); err != nil {
			return err
		}
	}
	return nil
}

// optionPresent holds when an option of options contains match, or when any
// option exists for an empty match, and records the option's index
func optionPresent(control, match string, index *int) wait.Condition {
	options := surface.Within(control, "option")
	description := options + " to be present"
	if match != "" {
		description = fmt.Sprintf("option containing %q in %s to be present", match, control)
	}
	return wait.Predicate(description, func(s surface.Surface) (bool, error) {
		texts, err := s.Texts(options)
		if err != nil || len(texts) == 0 {
			return false, err
		}
		i := 0
		if match != "" {
			i = textmatch.FirstContaining(texts, match)
		}
		if i < 0 {
			return false, nil
		}
		*index = i
		return true, nil
	})
}

func (w *Workflow) choose(sel Selection) error {
	// Options render with the dialog, so an optional lookup checks once.
	lookup := time.Duration(0)
	if sel.Required {
		lookup = w.timeout
	}

	index := -1
	found, err := w.waiter.Lookup(optionPresent(sel.Control, sel.Match, &index), lookup)
	if err != nil {
		return err
	}
	if !found && sel.Match != "" && !sel.Required {
		found, err = w.waiter.Lookup(optionPresent(sel.Control, "", &index), 0)
		if err != nil {
			return err
		}
	}
	if !found {
		switch {
		case !sel.Required:
			return nil
		case sel.Match != "":
			return failure.NotFound("option containing %q in %s", sel.Match, sel.Control)
		default:
			return failure.NotFound("options in %s", sel.Control)
		}
	}

	if err := w.waiter.Surface().SelectOption(sel.Control, index); err != nil {
		return fmt.Errorf("failed to select option %d of %s: %w", index, sel.Control, err)
	}
	return nil
}

func (w *Workflow) save(d Dialog) error {
	save := d.SaveSelector()
	if err := w.waiter.Await(wait.Clickable(save), w.timeout); err != nil {
		return err
	}
	if err := w.waiter.Surface().Click(save); err != nil {
		return fmt.Errorf("failed to click save in %s dialog: %w", d.Name, err)
	}
	return nil
}

// Submit fills the dialog, saves it and waits for it to close and settle
func (w *Workflow) Submit(d Dialog, fields []Field, sel *Selection) error {
	if err := w.Fill(d, fields, sel); err != nil {
		return err
	}
	if err := w.save(d); err != nil {
		return err
	}
	if err := w.waiter.AwaitSettled(wait.Invisible(d.Container), w.timeout); err != nil {
		return fmt.Errorf("%s dialog did not close: %w", d.Name, err)
	}
	return nil
}

// TrySubmit is Submit for input the application may reject. Whether the
// dialog closes is reported instead of failing; every other error is returned.
func (w *Workflow) TrySubmit(d Dialog, fields []Field, sel *Selection) (closed bool, err error) {
	if err := w.Fill(d, fields, sel); err != nil {
		return false, err
	}
	if err := w.save(d); err != nil {
		return false, err
	}
	closed, err = w.waiter.Lookup(wait.Invisible(d.Container), w.timeout)
	if err != nil {
		return false, err
	}
	if closed {
		w.waiter.Settle()
	}
	return closed, nil
}
