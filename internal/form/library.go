package form

import (
	"fmt"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/nav"
)

// Library creates and edits authors and books through their dialogs
type Library struct {
	workflow *Workflow
	nav      *nav.Controller
	contract config.Contract
}

// NewLibrary creates a Library
func NewLibrary(workflow *Workflow, navigator *nav.Controller, contract config.Contract) *Library {
	return &Library{
		workflow: workflow,
		nav:      navigator,
		contract: contract,
	}
}

// AuthorFields returns the author dialog inputs for a, in form order
func (l *Library) AuthorFields(a models.Author) []Field {
	c := l.contract.Author
	return []Field{
		{Selector: c.FirstName, Value: a.FirstName},
		{Selector: c.LastName, Value: a.LastName},
		{Selector: c.Age, Value: a.AgeText()},
		{Selector: c.Email, Value: a.Email},
	}
}

// BookFields returns the book dialog inputs for b, in form order
func (l *Library) BookFields(b models.Book) []Field {
	c := l.contract.Book
	return []Field{
		{Selector: c.Title, Value: b.Title},
		{Selector: c.Year, Value: b.YearText()},
	}
}

// AuthorSelection returns the selection for b's author. A named author must
// exist among the options; otherwise any first option is taken when present.
func (l *Library) AuthorSelection(b models.Book) *Selection {
	return &Selection{
		Control:  l.contract.Book.AuthorSelect,
		Match:    b.AuthorName,
		Required: b.AuthorName != "",
	}
}

// AddAuthor opens a new author dialog and submits a
func (l *Library) AddAuthor(a models.Author) error {
	if err := l.nav.SelectMenuItem(l.contract.Menu.AddAuthor); err != nil {
		return err
	}
	return l.workflow.Submit(AuthorDialog(l.contract), l.AuthorFields(a), nil)
}

// TryAddAuthor submits a author the application may reject and reports whether the dialog closed
func (l *Library) TryAddAuthor(a models.Author) (bool, error) {
	if err := l.nav.SelectMenuItem(l.contract.Menu.AddAuthor); err != nil {
		return false, err
	}
	return l.workflow.TrySubmit(AuthorDialog(l.contract), l.AuthorFields(a), nil)
}

// AddBook opens a new book dialog and submits b
func (l *Library) AddBook(b models.Book) error {
	if err := l.nav.SelectMenuItem(l.contract.Menu.AddBook); err != nil {
		return err
	}
	return l.workflow.Submit(BookDialog(l.contract), l.BookFields(b), l.AuthorSelection(b))
}

// TryAddBook submits a book the application may reject and reports whether the dialog closed
func (l *Library) TryAddBook(b models.Book) (bool, error) {
	if err := l.nav.SelectMenuItem(l.contract.Menu.AddBook); err != nil {
		return false, err
	}
	return l.workflow.TrySubmit(BookDialog(l.contract), l.BookFields(b), l.AuthorSelection(b))
}

// SaveAuthorEdit replaces fields in an author dialog opened by a row's edit action
func (l *Library) SaveAuthorEdit(fields ...Field) error {
	if err := l.workflow.Submit(AuthorDialog(l.contract), fields, nil); err != nil {
		return fmt.Errorf("edit author: %w", err)
	}
	return nil
}

// SaveBookEdit replaces fields in a book dialog opened by a row's edit action
func (l *Library) SaveBookEdit(fields ...Field) error {
	if err := l.workflow.Submit(BookDialog(l.contract), fields, nil); err != nil {
		return fmt.Errorf("edit book: %w", err)
	}
	return nil
}

// Contract returns the contract the library fills forms for
func (l *Library) Contract() config.Contract {
	return l.contract
}
