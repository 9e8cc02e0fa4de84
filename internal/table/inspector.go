// Package table reads and drives the shared results table.
//
// The authors and books views render into the same table; which one is
// active is decided purely from the header text. Rows are re-read on every
// call and never cached across a mutation.
package table

import (
	"fmt"
	"slices"
	"time"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/textmatch"
	"github.com/themizzi/libcheck/internal/wait"
)

// View identifies which entity table is displayed
type View string

// Views
const (
	ViewBooks   View = "books"
	ViewAuthors View = "authors"
)

// Inspector reads the results table and drives search and sort
type Inspector struct {
	waiter  *wait.Engine
	table   config.TableContract
	search  string
	timeout time.Duration
}

// New creates an Inspector for the contract's table
func New(waiter *wait.Engine, contract config.Contract, timeout time.Duration) *Inspector {
	return &Inspector{
		waiter:  waiter,
		table:   contract.Table,
		search:  contract.Page.SearchInput,
		timeout: timeout,
	}
}

func (in *Inspector) surface() surface.Surface {
	return in.waiter.Surface()
}

// HeaderText returns the text of the header region
func (in *Inspector) HeaderText() (string, error) {
	if err := in.waiter.Await(wait.Present(in.table.Header), in.timeout); err != nil {
		return "", err
	}
	return in.surface().Text(in.table.Header)
}

// ViewOf classifies header text
func ViewOf(t config.TableContract, header string) View {
	if textmatch.Contains(header, t.EmailColumn) {
		return ViewAuthors
	}
	return ViewBooks
}

// ActiveView returns the view the header currently shows
func (in *Inspector) ActiveView() (View, error) {
	header, err := in.HeaderText()
	if err != nil {
		return "", err
	}
	return ViewOf(in.table, header), nil
}

// ViewIs holds when the header shows view. The books view is recognised by
// its year column so that an empty or still-rendering header does not match.
func ViewIs(t config.TableContract, view View) wait.Condition {
	return wait.Predicate(fmt.Sprintf("table to show the %s view", view), func(s surface.Surface) (bool, error) {
		header, err := s.Text(t.Header)
		if err != nil {
			return false, err
		}
		if view == ViewAuthors {
			return textmatch.Contains(header, t.EmailColumn), nil
		}
		return textmatch.Contains(header, t.YearColumn) && !textmatch.Contains(header, t.EmailColumn), nil
	})
}

// HeaderCellPresent holds when a header cell contains label
func HeaderCellPresent(t config.TableContract, label string) wait.Condition {
	return wait.Predicate(fmt.Sprintf("header cell containing %q to be present", label), func(s surface.Surface) (bool, error) {
		cells, err := s.Texts(t.HeaderCell)
		return textmatch.FirstContaining(cells, label) >= 0, err
	})
}

// ColumnIndex waits for a header cell containing label and returns its position
func (in *Inspector) ColumnIndex(label string) (int, error) {
	if err := in.waiter.Await(HeaderCellPresent(in.table, label), in.timeout); err != nil {
		return -1, err
	}
	cells, err := in.surface().Texts(in.table.HeaderCell)
	if err != nil {
		return -1, err
	}
	i := textmatch.FirstContaining(cells, label)
	if i < 0 {
		return -1, failure.NotFound("header cell containing %q", label)
	}
	return i, nil
}

// rowsRead holds when the row texts are the same before and after reading the
// cells of every row, and stores the rows read in dst
func (in *Inspector) rowsRead(dst *[]models.TableRow) wait.Condition {
	return wait.Predicate("table rows to hold still while read", func(s surface.Surface) (bool, error) {
		texts, err := s.Texts(in.table.Row)
		if err != nil {
			return false, fmt.Errorf("failed to read rows: %w", err)
		}

		rows := make([]models.TableRow, 0, len(texts))
		for i, text := range texts {
			cells, err := s.Texts(surface.Within(surface.Nth(in.table.Row, i), in.table.Cell))
			if err != nil {
				return false, fmt.Errorf("failed to read cells of row %d: %w", i, err)
			}
			if len(cells) == 0 {
				return false, nil
			}
			rows = append(rows, models.TableRow{Index: i, Text: text, Cells: cells})
		}

		after, err := s.Texts(in.table.Row)
		if err != nil {
			return false, fmt.Errorf("failed to read rows: %w", err)
		}
		if !slices.Equal(texts, after) {
			return false, nil
		}
		*dst = rows
		return true, nil
	})
}

// CurrentRows returns the rows as currently rendered
func (in *Inspector) CurrentRows() ([]models.TableRow, error) {
	if err := in.waiter.Await(wait.Present(in.table.Body), in.timeout); err != nil {
		return nil, err
	}
	var rows []models.TableRow
	if err := in.waiter.Await(in.rowsRead(&rows), in.timeout); err != nil {
		return nil, err
	}
	return rows, nil
}

// RowsContaining returns the current rows whose text contains text
func (in *Inspector) RowsContaining(text string) ([]models.TableRow, error) {
	rows, err := in.CurrentRows()
	if err != nil {
		return nil, err
	}
	var matched []models.TableRow
	for _, row := range rows {
		if row.Contains(text) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// FirstRow returns the first current row
func (in *Inspector) FirstRow() (models.TableRow, error) {
	rows, err := in.CurrentRows()
	if err != nil {
		return models.TableRow{}, err
	}
	if len(rows) == 0 {
		return models.TableRow{}, failure.Assertf("0 rows", "at least one row")
	}
	return rows[0], nil
}

// Search replaces the global filter text and waits for the table to settle
func (in *Inspector) Search(text string) error {
	if err := in.waiter.Await(wait.Visible(in.search), in.timeout); err != nil {
		return err
	}
	if err := in.surface().Fill(in.search, text); err != nil {
		return fmt.Errorf("failed to fill search: %w", err)
	}
	in.waiter.Settle()
	return nil
}

// ToggleSort activates the header cell containing label and waits for the table to settle
func (in *Inspector) ToggleSort(label string) error {
	i, err := in.ColumnIndex(label)
	if err != nil {
		return err
	}
	cell := surface.Nth(in.table.HeaderCell, i)
	if err := in.waiter.Await(wait.Clickable(cell), in.timeout); err != nil {
		return err
	}
	if err := in.surface().Click(cell); err != nil {
		return fmt.Errorf("failed to click header %q: %w", label, err)
	}
	in.waiter.Settle()
	return nil
}

// rowAction clicks action inside row after checking the row still shows the same text
func (in *Inspector) rowAction(row models.TableRow, action string) error {
	rowSel := surface.Nth(in.table.Row, row.Index)
	unchanged := wait.Predicate(fmt.Sprintf("row %d to still show %q", row.Index, row.Text), func(s surface.Surface) (bool, error) {
		text, err := s.Text(rowSel)
		return text == row.Text, err
	})
	if err := in.waiter.Await(unchanged, in.timeout); err != nil {
		return err
	}

	target := surface.Within(rowSel, action)
	if err := in.waiter.Await(wait.Clickable(target), in.timeout); err != nil {
		return err
	}
	return in.surface().Click(target)
}

// Edit activates the row's edit action. The caller waits for the dialog.
func (in *Inspector) Edit(row models.TableRow) error {
	if err := in.rowAction(row, in.table.EditAction); err != nil {
		return fmt.Errorf("edit row %d: %w", row.Index, err)
	}
	return nil
}

// Delete activates the row's delete action and accepts the confirmation prompt
func (in *Inspector) Delete(row models.TableRow) error {
	if err := in.rowAction(row, in.table.DeleteAction); err != nil {
		return fmt.Errorf("delete row %d: %w", row.Index, err)
	}
	return in.ConfirmPrompt()
}

// ConfirmPrompt waits for a native confirmation prompt, accepts it and settles
func (in *Inspector) ConfirmPrompt() error {
	if err := in.waiter.Await(wait.PromptPresent(), in.timeout); err != nil {
		return err
	}
	if err := in.surface().AcceptPrompt(); err != nil {
		return err
	}
	in.waiter.Settle()
	return nil
}

// DismissPrompt waits for a native confirmation prompt and dismisses it
func (in *Inspector) DismissPrompt() error {
	if err := in.waiter.Await(wait.PromptPresent(), in.timeout); err != nil {
		return err
	}
	return in.surface().DismissPrompt()
}
