// Package fakeapp simulates the library page in memory and implements
// surface.Surface against the default contract.
//
// Data survives Open the way the real backend does, while the page state
// (view, filter, sort, menu, dialogs) resets. Dialog and prompt transitions can
// be delayed by a number of surface calls to exercise polling, and several
// faults can be switched on to exercise failure paths.
package fakeapp

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/surface"
)

const (
	viewBooks   = "books"
	viewAuthors = "authors"

	dialogAuthor = "author"
	dialogBook   = "book"
)

// Author is a stored author
type Author struct {
	ID        int
	FirstName string
	LastName  string
	Age       int
	Email     string
}

// FullName is the author's display name
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Book is a stored book
type Book struct {
	ID       int
	Title    string
	Year     int
	AuthorID int

	authorName string
}

type prompt struct {
	message string
	at      int
	accept  func()
}

// App is an in-memory library page
type App struct {
	// Latency delays dialog visibility changes and prompts by this many surface calls.
	Latency int
	// StaleAuthorNames renders the author name captured when a book was saved.
	StaleAuthorNames bool
	// FrozenSort ignores header clicks.
	FrozenSort bool
	// StuckDialogs keeps dialogs open after save.
	StuckDialogs bool
	// AcceptInvalid stores entities that fail validation.
	AcceptInvalid bool
	// DeadMenu never opens the dropdown.
	DeadMenu bool
	// IgnoreDelete leaves the record in place after a confirmed delete.
	IgnoreDelete bool
	// DuplicateAuthors stores every new author twice.
	DuplicateAuthors bool
	// Dialogs counts dialogs opened since the app was created.
	Dialogs int

	contract config.Contract
	opened   bool
	tick     int

	authors []Author
	books   []Book
	nextID  int

	view     string
	filter   string
	sortCol  int
	sortDesc bool
	menuOpen bool

	dialog     string
	prevDialog string
	dialogAt   int
	editing    int
	fields     map[string]string
	selected   int

	prompt *prompt
}

var _ surface.Surface = (*App)(nil)

// New returns an empty app that has not been opened yet
func New() *App {
	return &App{
		contract: config.DefaultContract(),
		nextID:   1,
		sortCol:  -1,
		view:     viewBooks,
		fields:   map[string]string{},
	}
}

// SeedAuthor stores an author directly and returns its id
func (a *App) SeedAuthor(first, last string, age int, email string) int {
	id := a.nextID
	a.nextID++
	a.authors = append(a.authors, Author{ID: id, FirstName: first, LastName: last, Age: age, Email: email})
	return id
}

// SeedBook stores a book directly and returns its id
func (a *App) SeedBook(title string, year, authorID int) int {
	id := a.nextID
	a.nextID++
	a.books = append(a.books, Book{ID: id, Title: title, Year: year, AuthorID: authorID, authorName: a.authorName(authorID)})
	return id
}

// Authors returns the stored authors
func (a *App) Authors() []Author {
	return append([]Author(nil), a.authors...)
}

// Books returns the stored books
func (a *App) Books() []Book {
	return append([]Book(nil), a.books...)
}

// DialogOpen returns the dialog currently shown, if any
func (a *App) DialogOpen() string {
	return a.visibleDialog()
}

func (a *App) authorName(id int) string {
	for _, author := range a.authors {
		if author.ID == id {
			return author.FullName()
		}
	}
	return "—"
}

func (a *App) visibleDialog() string {
	if a.tick >= a.dialogAt {
		return a.dialog
	}
	return a.prevDialog
}

func (a *App) setDialog(name string) {
	a.prevDialog = a.visibleDialog()
	a.dialog = name
	a.dialogAt = a.tick + a.Latency
	if name != "" {
		a.Dialogs++
	}
}

// step advances the clock that delayed transitions are measured against
func (a *App) step() {
	a.tick++
}

// Open resets the page state and keeps the stored data
func (a *App) Open(url string) error {
	a.step()
	if url == "" {
		return errors.New("empty url")
	}
	a.opened = true
	a.view = viewBooks
	a.filter = ""
	a.sortCol = -1
	a.sortDesc = false
	a.menuOpen = false
	a.dialog, a.prevDialog = "", ""
	a.prompt = nil
	return nil
}

// Title returns the document title
func (a *App) Title() (string, error) {
	a.step()
	if !a.opened {
		return "", nil
	}
	return a.contract.PageTitle, nil
}

func (a *App) query(selector string) ([]*node, error) {
	a.step()
	return query(a.render(), selector)
}

// Count returns the number of matches
func (a *App) Count(selector string) (int, error) {
	nodes, err := a.query(selector)
	return len(nodes), err
}

func (a *App) first(selector string) (*node, error) {
	nodes, err := a.query(selector)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Visible reports whether the first match is visible
func (a *App) Visible(selector string) (bool, error) {
	n, err := a.first(selector)
	return n != nil && n.visible, err
}

// Enabled reports whether the first match exists and is enabled
func (a *App) Enabled(selector string) (bool, error) {
	n, err := a.first(selector)
	return n != nil && !n.disabled, err
}

// Attribute returns an attribute of the first match
func (a *App) Attribute(selector, name string) (string, error) {
	n, err := a.first(selector)
	if n == nil {
		return "", err
	}
	return n.attrs[name], err
}

// Text returns the text of the first match
func (a *App) Text(selector string) (string, error) {
	n, err := a.first(selector)
	if n == nil {
		return "", err
	}
	return n.text, err
}

// Texts returns the text of every match
func (a *App) Texts(selector string) ([]string, error) {
	nodes, err := a.query(selector)
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, n.text)
	}
	return texts, err
}

func (a *App) actionable(selector string) (*node, error) {
	n, err := a.first(selector)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	if !n.visible {
		return nil, fmt.Errorf("element %q is not visible", selector)
	}
	return n, nil
}

// Click clicks the first match
func (a *App) Click(selector string) error {
	n, err := a.actionable(selector)
	if err != nil {
		return err
	}
	if n.click != nil {
		n.click()
	}
	return nil
}

// Fill sets the value of the first matching input
func (a *App) Fill(selector, value string) error {
	n, err := a.actionable(selector)
	if err != nil {
		return err
	}
	if n.fill == nil {
		return fmt.Errorf("element %q is not an input", selector)
	}
	n.fill(value)
	return nil
}

// SelectOption chooses an option of the first matching select
func (a *App) SelectOption(selector string, index int) error {
	n, err := a.actionable(selector)
	if err != nil {
		return err
	}
	if n.choose == nil {
		return fmt.Errorf("element %q is not a select", selector)
	}
	return n.choose(index)
}

// PromptPresent reports whether a confirmation prompt is showing
func (a *App) PromptPresent() (bool, error) {
	a.step()
	return a.prompt != nil && a.tick >= a.prompt.at, nil
}

// PromptMessage returns the message of the showing prompt
func (a *App) PromptMessage() (string, error) {
	if ok, _ := a.PromptPresent(); !ok {
		return "", surface.ErrNoPrompt
	}
	return a.prompt.message, nil
}

// AcceptPrompt accepts the showing prompt
func (a *App) AcceptPrompt() error {
	if ok, _ := a.PromptPresent(); !ok {
		return surface.ErrNoPrompt
	}
	p := a.prompt
	a.prompt = nil
	p.accept()
	return nil
}

// DismissPrompt dismisses the showing prompt
func (a *App) DismissPrompt() error {
	if ok, _ := a.PromptPresent(); !ok {
		return surface.ErrNoPrompt
	}
	a.prompt = nil
	return nil
}

func (a *App) columns() []string {
	if a.view == viewAuthors {
		return []string{"Ім'я", "Прізвище", "Вік", a.contract.Table.EmailColumn, "Дії"}
	}
	return []string{"Назва", a.contract.Table.YearColumn, a.contract.Table.AuthorColumn, "Дії"}
}

type row struct {
	id    int
	cells []string
}

// rows returns the rows of the active view after filtering and sorting
func (a *App) rows() []row {
	var rows []row
	if a.view == viewAuthors {
		for _, au := range a.authors {
			rows = append(rows, row{id: au.ID, cells: []string{au.FirstName, au.LastName, strconv.Itoa(au.Age), au.Email}})
		}
	} else {
		for _, b := range a.books {
			name := a.authorName(b.AuthorID)
			if a.StaleAuthorNames {
				name = b.authorName
			}
			rows = append(rows, row{id: b.ID, cells: []string{b.Title, strconv.Itoa(b.Year), name}})
		}
	}

	if a.filter != "" {
		needle := strings.ToLower(a.filter)
		filtered := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(strings.Join(r.cells, " ")), needle) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if a.sortCol >= 0 && a.sortCol < len(a.columns())-1 {
		col := a.sortCol
		sort.SliceStable(rows, func(i, j int) bool {
			if a.sortDesc {
				return lessCell(rows[j].cells[col], rows[i].cells[col])
			}
			return lessCell(rows[i].cells[col], rows[j].cells[col])
		})
	}
	return rows
}

func lessCell(x, y string) bool {
	xi, xerr := strconv.Atoi(x)
	yi, yerr := strconv.Atoi(y)
	if xerr == nil && yerr == nil {
		return xi < yi
	}
	return x < y
}

func (a *App) toggleSort(col int) {
	if a.FrozenSort {
		return
	}
	if a.sortCol == col {
		a.sortDesc = !a.sortDesc
		return
	}
	a.sortCol = col
	a.sortDesc = false
}

func (a *App) switchView(view string) {
	a.view = view
	a.sortCol = -1
	a.sortDesc = false
}

func (a *App) openAuthorDialog(id int) {
	a.editing = id
	a.fields = map[string]string{}
	for _, au := range a.authors {
		if au.ID == id {
			a.fields[a.contract.Author.FirstName] = au.FirstName
			a.fields[a.contract.Author.LastName] = au.LastName
			a.fields[a.contract.Author.Age] = strconv.Itoa(au.Age)
			a.fields[a.contract.Author.Email] = au.Email
		}
	}
	a.setDialog(dialogAuthor)
}

func (a *App) openBookDialog(id int) {
	a.editing = id
	a.fields = map[string]string{}
	a.selected = -1
	if len(a.authors) > 0 {
		a.selected = 0
	}
	for _, b := range a.books {
		if b.ID != id {
			continue
		}
		a.fields[a.contract.Book.Title] = b.Title
		a.fields[a.contract.Book.Year] = strconv.Itoa(b.Year)
		for i, au := range a.authors {
			if au.ID == b.AuthorID {
				a.selected = i
			}
		}
	}
	a.setDialog(dialogBook)
}

func (a *App) saveAuthor() {
	c := a.contract.Author
	first := strings.TrimSpace(a.fields[c.FirstName])
	last := strings.TrimSpace(a.fields[c.LastName])
	age, _ := strconv.Atoi(a.fields[c.Age])
	if (first == "" || last == "") && !a.AcceptInvalid {
		return
	}

	author := Author{FirstName: first, LastName: last, Age: age, Email: a.fields[c.Email]}
	if a.editing != 0 {
		for i := range a.authors {
			if a.authors[i].ID == a.editing {
				author.ID = a.editing
				a.authors[i] = author
			}
		}
	} else {
		a.SeedAuthor(author.FirstName, author.LastName, author.Age, author.Email)
		if a.DuplicateAuthors {
			a.SeedAuthor(author.FirstName, author.LastName, author.Age, author.Email)
		}
	}

	if !a.StuckDialogs {
		a.setDialog("")
	}
	a.switchView(viewAuthors)
}

func (a *App) saveBook() {
	c := a.contract.Book
	title := strings.TrimSpace(a.fields[c.Title])
	year, err := strconv.Atoi(strings.TrimSpace(a.fields[c.Year]))
	if (title == "" || err != nil || year <= 0) && !a.AcceptInvalid {
		return
	}

	authorID := 0
	if a.selected >= 0 && a.selected < len(a.authors) {
		authorID = a.authors[a.selected].ID
	}
	if a.editing != 0 {
		for i := range a.books {
			if a.books[i].ID == a.editing {
				a.books[i] = Book{ID: a.editing, Title: title, Year: year, AuthorID: authorID, authorName: a.authorName(authorID)}
			}
		}
	} else {
		a.SeedBook(title, year, authorID)
	}

	if !a.StuckDialogs {
		a.setDialog("")
	}
	a.switchView(viewBooks)
}

func (a *App) remove(id int) {
	if a.IgnoreDelete {
		return
	}
	for i, b := range a.books {
		if b.ID == id {
			a.books = append(a.books[:i], a.books[i+1:]...)
			return
		}
	}
	for i, au := range a.authors {
		if au.ID == id {
			a.authors = append(a.authors[:i], a.authors[i+1:]...)
			return
		}
	}
}

func (a *App) input(visible bool, selector string) *node {
	n := el(a.fields[selector], visible, selector)
	n.fill = func(v string) { a.fields[selector] = v }
	return n
}

func (a *App) render() *node {
	root := el("", true)
	if !a.opened {
		return root
	}
	c := a.contract

	// page controls
	search := el(a.filter, true, c.Page.SearchInput)
	search.fill = func(v string) { a.filter = v }
	menu := el("☰", true, c.Menu.Button)
	menu.click = func() {
		if !a.DeadMenu {
			a.menuOpen = !a.menuOpen
		}
	}
	root.add(el("📚 "+c.PageTitle, true, c.Page.Heading), search, menu)

	// dropdown
	class := "dropdown"
	if a.menuOpen {
		class += " " + c.Menu.ActiveClass
	}
	dropdown := el("", a.menuOpen, c.Menu.Dropdown)
	dropdown.attrs = map[string]string{"class": class}
	items := []struct {
		label  string
		action func()
	}{
		{"➕ " + c.Menu.AddAuthor, func() { a.openAuthorDialog(0) }},
		{"➕ " + c.Menu.AddBook, func() { a.openBookDialog(0) }},
		{"👤 " + c.Menu.Authors, func() { a.switchView(viewAuthors) }},
		{"📚 " + c.Menu.Books, func() { a.switchView(viewBooks) }},
	}
	for _, item := range items {
		action := item.action
		n := el(item.label, a.menuOpen, c.Menu.Item)
		n.click = func() {
			a.menuOpen = false
			action()
		}
		dropdown.add(n)
	}
	root.add(dropdown)

	// table
	columns := a.columns()
	header := el(strings.Join(columns, "\t"), true, c.Table.Header)
	for i, label := range columns {
		col := i
		th := el(label, true, c.Table.HeaderCell)
		th.click = func() { a.toggleSort(col) }
		header.add(th)
	}
	rows := a.rows()
	var bodyText []string
	body := el("", true, c.Table.Body)
	for _, r := range rows {
		id := r.id
		texts := append(append([]string(nil), r.cells...), "✏️ 🗑️")
		bodyText = append(bodyText, strings.Join(texts, "\t"))
		tr := el(strings.Join(texts, "\t"), true, c.Table.Row)
		for _, cell := range r.cells {
			tr.add(el(cell, true, c.Table.Cell))
		}
		edit := el("✏️", true, c.Table.EditAction)
		del := el("🗑️", true, c.Table.DeleteAction)
		if a.view == viewAuthors {
			edit.click = func() { a.openAuthorDialog(id) }
		} else {
			edit.click = func() { a.openBookDialog(id) }
		}
		del.click = func() {
			a.prompt = &prompt{message: "Видалити запис?", at: a.tick + a.Latency, accept: func() { a.remove(id) }}
		}
		tr.add(el("✏️ 🗑️", true, c.Table.Cell).add(edit, del))
		body.add(tr)
	}
	body.text = strings.Join(bodyText, "\n")
	root.add(header, body)

	// dialogs
	shown := a.visibleDialog()
	authorOpen := shown == dialogAuthor
	authorSave := el("Зберегти", authorOpen, c.Author.Save)
	authorSave.click = a.saveAuthor
	root.add(el("", authorOpen, c.Author.Container).add(
		a.input(authorOpen, c.Author.FirstName),
		a.input(authorOpen, c.Author.LastName),
		a.input(authorOpen, c.Author.Age),
		a.input(authorOpen, c.Author.Email),
		authorSave,
	))

	bookOpen := shown == dialogBook
	bookSave := el("Зберегти", bookOpen, c.Book.Save)
	bookSave.click = a.saveBook
	selectAuthor := el("", bookOpen, c.Book.AuthorSelect)
	selectAuthor.choose = func(i int) error {
		if i < 0 || i >= len(a.authors) {
			return fmt.Errorf("option %d out of range", i)
		}
		a.selected = i
		return nil
	}
	for _, au := range a.authors {
		selectAuthor.add(el(au.FullName(), bookOpen, "option"))
	}
	root.add(el("", bookOpen, c.Book.Container).add(
		a.input(bookOpen, c.Book.Title),
		a.input(bookOpen, c.Book.Year),
		selectAuthor,
		bookSave,
	))

	return root
}
