package scenario

import (
	"fmt"
	"strings"

	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/form"
	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/table"
	"github.com/themizzi/libcheck/internal/textmatch"
	"github.com/themizzi/libcheck/internal/wait"
)

// missingNeedle is a search text no scenario ever stores
const missingNeedle = "АбраКадабра12345"

// Catalogue returns the library scenarios in execution order
func Catalogue() []Scenario {
	return []Scenario{
		{Name: "page-loads", Description: "title and main controls are present", Steps: pageLoads},
		{Name: "switch-to-authors", Description: "the authors view shows an email column", Steps: switchToAuthors},
		{Name: "add-author", Description: "a saved author appears exactly once", Steps: addAuthor},
		{Name: "add-book", Description: "a saved book appears exactly once", Steps: addBook},
		{Name: "search-book", Description: "search narrows the table to the book", Steps: searchBook},
		{Name: "sort-books", Description: "toggling the year column reverses the first row", Steps: sortBooks},
		{Name: "delete-book", Description: "a confirmed delete removes the book", Steps: deleteBook},
		{Name: "edit-book", Description: "an edited title replaces the old one", Steps: editBook},
		{Name: "search-missing", Description: "an unknown search text yields no rows", Steps: searchMissing},
		{Name: "rename-author-propagates", Description: "a renamed author shows up on their books", Steps: renameAuthorPropagates},
		{Name: "reject-author-without-name", Description: "an author without a first name is not stored", Steps: rejectAuthorWithoutName},
		{Name: "reject-negative-year", Description: "a book with a negative year is not stored", Steps: rejectNegativeYear},
	}
}

// Select returns the scenarios of catalogue named in names, in catalogue
// order. An empty names selects everything.
func Select(catalogue []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return catalogue, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []Scenario
	for _, sc := range catalogue {
		if wanted[sc.Name] {
			selected = append(selected, sc)
			delete(wanted, sc.Name)
		}
	}
	for _, name := range names {
		if wanted[name] {
			return nil, failure.NotFound("scenario %q", name)
		}
	}
	return selected, nil
}

func expectRows(h *Harness, text string, want int) error {
	rows, err := h.Table.RowsContaining(text)
	if err != nil {
		return err
	}
	if len(rows) != want {
		return failure.Assertf(fmt.Sprintf("%d rows", len(rows)), "exactly %d row(s) containing %q", want, text)
	}
	return nil
}

// findRow searches for text and stores the first matching row in dst
func findRow(h *Harness, text string, dst *models.TableRow) error {
	if err := h.Table.Search(text); err != nil {
		return err
	}
	rows, err := h.Table.RowsContaining(text)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return failure.Assertf("0 rows", "a row containing %q", text)
	}
	*dst = rows[0]
	return nil
}

func showView(h *Harness, view table.View) Step {
	return Step{Name: "show " + string(view), Run: func() error { return h.Nav.EnsureView(view) }}
}

func pageLoads(h *Harness, _ string) []Step {
	c := h.Contract
	visible := func(name, selector string) Step {
		return Step{Name: "check " + name, Run: func() error {
			return h.Wait.Await(wait.Visible(selector), h.Timeout)
		}}
	}
	return []Step{
		{Name: "check title", Run: func() error {
			title, err := h.Surface.Title()
			if err != nil {
				return err
			}
			if !textmatch.Contains(title, c.PageTitle) {
				return failure.Assertf(title, "title containing %q", c.PageTitle)
			}
			return nil
		}},
		visible("heading", c.Page.Heading),
		visible("search input", c.Page.SearchInput),
		visible("menu button", c.Menu.Button),
	}
}

func switchToAuthors(h *Harness, _ string) []Step {
	email := h.Contract.Table.EmailColumn
	return []Step{
		{Name: "select authors", Run: func() error { return h.Nav.SelectMenuItem(h.Contract.Menu.Authors) }},
		{Name: "wait for email column", Run: func() error {
			return h.Wait.Await(table.HeaderCellPresent(h.Contract.Table, email), h.ViewTimeout)
		}},
		{Name: "check header", Run: func() error {
			header, err := h.Table.HeaderText()
			if err != nil {
				return err
			}
			if !textmatch.Contains(header, email) {
				return failure.Assertf(header, "header containing %q", email)
			}
			return nil
		}},
	}
}

func testAuthor(first, last string) models.Author {
	return models.Author{FirstName: first, LastName: last, Age: 30, Email: strings.ToLower(first) + "@test.com"}
}

func addAuthor(h *Harness, token string) []Step {
	author := testAuthor("TestAuth_"+token, "User")
	return []Step{
		showView(h, table.ViewAuthors),
		{Name: "add author", Run: func() error { return h.Library.AddAuthor(author) }},
		showView(h, table.ViewAuthors),
		{Name: "check author row", Run: func() error { return expectRows(h, author.FullName(), 1) }},
	}
}

func addBook(h *Harness, token string) []Step {
	book := models.Book{Title: "TestBook_" + token, Year: 2024}
	return []Step{
		{Name: "add book", Run: func() error { return h.Library.AddBook(book) }},
		showView(h, table.ViewBooks),
		{Name: "check book row", Run: func() error { return expectRows(h, book.Title, 1) }},
	}
}

func searchBook(h *Harness, token string) []Step {
	book := models.Book{Title: "FindMe_" + token, Year: 2025}
	return []Step{
		{Name: "add book", Run: func() error { return h.Library.AddBook(book) }},
		showView(h, table.ViewBooks),
		{Name: "search", Run: func() error { return h.Table.Search(book.Title) }},
		{Name: "check first row", Run: func() error {
			row, err := h.Table.FirstRow()
			if err != nil {
				return err
			}
			if !row.Contains(book.Title) {
				return failure.Assertf(row.Text, "first row containing %q", book.Title)
			}
			return nil
		}},
	}
}

func sortBooks(h *Harness, token string) []Step {
	marker := "_SortBook_" + token
	year := h.Contract.Table.YearColumn
	var first, second models.TableRow

	toggle := func(dst *models.TableRow) func() error {
		return func() error {
			if err := h.Table.ToggleSort(year); err != nil {
				return err
			}
			row, err := h.Table.FirstRow()
			*dst = row
			return err
		}
	}
	return []Step{
		{Name: "add early book", Run: func() error { return h.Library.AddBook(models.Book{Title: "AAA" + marker, Year: 1000}) }},
		{Name: "add late book", Run: func() error { return h.Library.AddBook(models.Book{Title: "ZZZ" + marker, Year: 3000}) }},
		showView(h, table.ViewBooks),
		{Name: "filter sort books", Run: func() error { return h.Table.Search(marker) }},
		{Name: "sort by year", Run: toggle(&first)},
		{Name: "sort by year again", Run: toggle(&second)},
		{Name: "check order changed", Run: func() error {
			if textmatch.Normalize(first.Text) == textmatch.Normalize(second.Text) {
				return failure.Assertf(second.Text, "first row to change after re-sorting, was %q", first.Text)
			}
			return nil
		}},
	}
}

func deleteBook(h *Harness, token string) []Step {
	book := models.Book{Title: "DeleteMe_" + token, Year: 2020}
	var row models.TableRow
	return []Step{
		{Name: "add book", Run: func() error { return h.Library.AddBook(book) }},
		showView(h, table.ViewBooks),
		{Name: "find book", Run: func() error { return findRow(h, book.Title, &row) }},
		{Name: "delete book", Run: func() error { return h.Table.Delete(row) }},
		{Name: "search again", Run: func() error { return h.Table.Search(book.Title) }},
		{Name: "check book gone", Run: func() error { return expectRows(h, book.Title, 0) }},
	}
}

func editBook(h *Harness, token string) []Step {
	book := models.Book{Title: "EditMe_" + token, Year: 2021}
	renamed := "Edited_" + token
	var row models.TableRow
	return []Step{
		{Name: "add book", Run: func() error { return h.Library.AddBook(book) }},
		showView(h, table.ViewBooks),
		{Name: "find book", Run: func() error { return findRow(h, book.Title, &row) }},
		{Name: "open edit", Run: func() error { return h.Table.Edit(row) }},
		{Name: "save title", Run: func() error {
			return h.Library.SaveBookEdit(form.Field{Selector: h.Contract.Book.Title, Value: renamed})
		}},
		showView(h, table.ViewBooks),
		{Name: "find edited book", Run: func() error { return findRow(h, renamed, &row) }},
		{Name: "check old title gone", Run: func() error {
			if err := h.Table.Search(book.Title); err != nil {
				return err
			}
			return expectRows(h, book.Title, 0)
		}},
		{Name: "clean up", Run: func() error {
			if err := findRow(h, renamed, &row); err != nil {
				return err
			}
			return h.Table.Delete(row)
		}},
	}
}

func searchMissing(h *Harness, token string) []Step {
	needle := missingNeedle + "_" + token
	return []Step{
		showView(h, table.ViewBooks),
		{Name: "search", Run: func() error { return h.Table.Search(needle) }},
		{Name: "check no rows", Run: func() error {
			rows, err := h.Table.CurrentRows()
			if err != nil {
				return err
			}
			if len(rows) != 0 {
				return failure.Assertf(fmt.Sprintf("%d rows", len(rows)), "no rows for %q", needle)
			}
			return nil
		}},
	}
}

func renameAuthorPropagates(h *Harness, token string) []Step {
	author := testAuthor("Rename_"+token, "Before_"+token)
	book := models.Book{Title: "Propagation_" + token, Year: 1999, AuthorName: author.FullName()}
	renamed := "After_" + token
	var row models.TableRow

	return []Step{
		{Name: "add author", Run: func() error { return h.Library.AddAuthor(author) }},
		{Name: "add book", Run: func() error { return h.Library.AddBook(book) }},
		showView(h, table.ViewAuthors),
		{Name: "find author", Run: func() error { return findRow(h, author.FirstName, &row) }},
		{Name: "open edit", Run: func() error { return h.Table.Edit(row) }},
		{Name: "save last name", Run: func() error {
			return h.Library.SaveAuthorEdit(form.Field{Selector: h.Contract.Author.LastName, Value: renamed})
		}},
		showView(h, table.ViewBooks),
		{Name: "find book", Run: func() error { return findRow(h, book.Title, &row) }},
		{Name: "check author column", Run: func() error {
			col, err := h.Table.ColumnIndex(h.Contract.Table.AuthorColumn)
			if err != nil {
				return err
			}
			cell, ok := row.Cell(col)
			if !ok {
				return failure.NotFound("author cell %d in row %q", col, row.Text)
			}
			if !textmatch.Contains(cell, renamed) || textmatch.Contains(cell, author.LastName) {
				return failure.Assertf(cell, "author cell showing %q instead of %q", renamed, author.LastName)
			}
			return nil
		}},
	}
}

// reloadIfOpen reopens the page when a rejected dialog stayed open
func reloadIfOpen(h *Harness, closed *bool) Step {
	return Step{Name: "close rejected dialog", Run: func() error {
		if *closed {
			return nil
		}
		return h.OpenPage()
	}}
}

func rejectAuthorWithoutName(h *Harness, token string) []Step {
	author := models.Author{LastName: "NoName", Age: 30, Email: "noname_" + token + "@test.com"}
	var closed bool
	return []Step{
		{Name: "submit author", Run: func() (err error) {
			closed, err = h.Library.TryAddAuthor(author)
			return err
		}},
		reloadIfOpen(h, &closed),
		showView(h, table.ViewAuthors),
		{Name: "search", Run: func() error { return h.Table.Search(author.Email) }},
		{Name: "check author absent", Run: func() error { return expectRows(h, author.Email, 0) }},
	}
}

func rejectNegativeYear(h *Harness, token string) []Step {
	book := models.Book{Title: "NegYear_" + token, Year: -5}
	var closed bool
	return []Step{
		{Name: "submit book", Run: func() (err error) {
			closed, err = h.Library.TryAddBook(book)
			return err
		}},
		reloadIfOpen(h, &closed),
		showView(h, table.ViewBooks),
		{Name: "search", Run: func() error { return h.Table.Search(book.Title) }},
		{Name: "check book absent", Run: func() error { return expectRows(h, book.Title, 0) }},
	}
}
