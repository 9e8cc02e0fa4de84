//go:build e2e

package e2e

import (
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/scenario"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/table"
)

// newHarness opens a fresh page and wraps it for the scenario runner
func newHarness(t *testing.T) *scenario.Harness {
	t.Helper()
	page, err := browser.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { page.Close() })
	return scenario.NewHarness(surface.NewPage(page, harnessed.DefaultTimeout), harnessed, contract)
}

// TestPageShowsLibraryControls checks the page directly, without the harness
// Feature: Library page
//
//	Scenario: Open the library page
//	  Given the library page is served
//	  When I open it
//	  Then the title should mention the library
//	  And I should see the search input and the menu button
func TestPageShowsLibraryControls(t *testing.T) {
	page, err := browser.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	defer page.Close()

	// When I open it
	if _, err = page.Goto(harnessed.BaseURL); err != nil {
		t.Fatalf("Failed to navigate to library page: %v", err)
	}

	// Then the title should mention the library
	title, err := page.Title()
	if err != nil {
		t.Fatalf("Failed to read title: %v", err)
	}
	if !strings.Contains(title, contract.PageTitle) {
		t.Errorf("Expected title containing '%s', got '%s'", contract.PageTitle, title)
	}

	// And I should see the search input and the menu button
	for _, selector := range []string{contract.Page.SearchInput, contract.Menu.Button} {
		if err = page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(harnessed.DefaultTimeout.Milliseconds())),
		}); err != nil {
			t.Errorf("Expected %s to be visible: %v", selector, err)
		}
	}
}

// TestLibraryScenarios runs every catalogued scenario against the live page.
// Each scenario gets its own page so a failure cannot leak into the next one.
func TestLibraryScenarios(t *testing.T) {
	for _, sc := range scenario.Catalogue() {
		t.Run(sc.Name, func(t *testing.T) {
			runner := scenario.NewRunner(newHarness(t))
			result := runner.Run(sc)
			if !result.IsPassed() {
				t.Errorf("%s failed at %q [%s]: %s", sc.Name, result.Step, result.Kind, result.Reason)
			}
		})
	}
}

// TestDeleteCanBeDismissed checks that dismissing the confirmation keeps the row
// Feature: Delete confirmation
//
//	Scenario: Dismiss a delete
//	  Given a book exists
//	  When I click its delete action and dismiss the confirmation
//	  Then the book should still be listed
func TestDeleteCanBeDismissed(t *testing.T) {
	h := newHarness(t)
	if err := h.OpenPage(); err != nil {
		t.Fatal(err)
	}

	title := "KeepMe_" + scenario.NewRunner(h).Token(time.Now())
	if err := h.Library.AddBook(models.Book{Title: title, Year: 2001}); err != nil {
		t.Fatalf("Failed to add book: %v", err)
	}
	if err := h.Nav.EnsureView(table.ViewBooks); err != nil {
		t.Fatal(err)
	}
	if err := h.Table.Search(title); err != nil {
		t.Fatal(err)
	}
	rows, err := h.Table.RowsContaining(title)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Expected one row for %s, got %d (%v)", title, len(rows), err)
	}

	// When I click its delete action and dismiss the confirmation
	if err := h.Surface.Click(surface.Within(surface.Nth(contract.Table.Row, rows[0].Index), contract.Table.DeleteAction)); err != nil {
		t.Fatalf("Failed to click delete: %v", err)
	}
	if err := h.Table.DismissPrompt(); err != nil {
		t.Fatalf("Failed to dismiss confirmation: %v", err)
	}
	h.Wait.Settle()

	// Then the book should still be listed
	rows, err = h.Table.RowsContaining(title)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected the book to survive a dismissed delete, got %d rows", len(rows))
	}

	// clean up
	if err := h.Table.Delete(rows[0]); err != nil {
		t.Logf("Warning: could not remove %s: %v", title, err)
	}
}
