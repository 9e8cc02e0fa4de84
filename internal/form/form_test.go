package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/models"
	"github.com/themizzi/libcheck/internal/nav"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/surface/fakeapp"
	"github.com/themizzi/libcheck/internal/wait"
	"github.com/themizzi/libcheck/internal/wait/waittest"
)

func setup(t *testing.T) (*Library, *fakeapp.App, *waittest.Clock) {
	t.Helper()
	return setupPage(t, func(app *fakeapp.App) surface.Surface { return app })
}

// setupPage builds a Library over the surface page returns for a fresh app
func setupPage(t *testing.T, page func(*fakeapp.App) surface.Surface) (*Library, *fakeapp.App, *waittest.Clock) {
	t.Helper()
	app := fakeapp.New()
	require.NoError(t, app.Open("http://fake/index.html"))
	clock := waittest.NewClock()
	engine := wait.New(page(app), 100*time.Millisecond, 500*time.Millisecond, wait.WithClock(clock))
	contract := config.DefaultContract()
	navigator := nav.New(engine, contract, 2*time.Second, 5*time.Second)
	return NewLibrary(NewWorkflow(engine, 3*time.Second, 300*time.Millisecond), navigator, contract), app, clock
}

func TestAddAuthor(t *testing.T) {
	lib, app, clock := setup(t)
	app.Latency = 3

	author := models.Author{FirstName: "TestAuth_1", LastName: "User", Age: 30, Email: "TestAuth_1@test.com"}
	require.NoError(t, lib.AddAuthor(author))

	require.Len(t, app.Authors(), 1)
	stored := app.Authors()[0]
	assert.Equal(t, "TestAuth_1", stored.FirstName)
	assert.Equal(t, "User", stored.LastName)
	assert.Equal(t, 30, stored.Age)
	assert.Equal(t, "TestAuth_1@test.com", stored.Email)
	assert.Empty(t, app.DialogOpen())

	// open settle, then the closing settle after the dialog is gone
	assert.Contains(t, clock.Sleeps, 300*time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, clock.Sleeps[len(clock.Sleeps)-1])
}

func TestAddBookWithoutAuthorsIsTolerated(t *testing.T) {
	lib, app, _ := setup(t)

	require.NoError(t, lib.AddBook(models.Book{Title: "TestBook_1", Year: 2024}))
	require.Len(t, app.Books(), 1)
	assert.Equal(t, 0, app.Books()[0].AuthorID)
}

func TestAddBookTakesFirstAuthor(t *testing.T) {
	lib, app, _ := setup(t)
	first := app.SeedAuthor("Ivan", "Franko", 40, "ivan@test.com")
	app.SeedAuthor("Lesya", "Ukrainka", 42, "lesya@test.com")

	require.NoError(t, lib.AddBook(models.Book{Title: "Any", Year: 2024}))
	assert.Equal(t, first, app.Books()[0].AuthorID)
}

func TestAddBookSelectsNamedAuthor(t *testing.T) {
	lib, app, _ := setup(t)
	app.SeedAuthor("Ivan", "Franko", 40, "ivan@test.com")
	second := app.SeedAuthor("Lesya", "Ukrainka", 42, "lesya@test.com")

	require.NoError(t, lib.AddBook(models.Book{Title: "Forest Song", Year: 1911, AuthorName: "Lesya Ukrainka"}))
	assert.Equal(t, second, app.Books()[0].AuthorID)
}

func TestAddBookMissingNamedAuthor(t *testing.T) {
	lib, app, _ := setup(t)
	app.SeedAuthor("Ivan", "Franko", 40, "ivan@test.com")

	err := lib.AddBook(models.Book{Title: "Orphan", Year: 2000, AuthorName: "Nobody Known"})
	assert.ErrorIs(t, err, failure.ErrElementNotFound)
	assert.Empty(t, app.Books())
}

// lateOption leaves the last author option out of its first hidden reads
type lateOption struct {
	*fakeapp.App
	hidden int
}

func (l *lateOption) Texts(selector string) ([]string, error) {
	texts, err := l.App.Texts(selector)
	if selector == "#bookAuthorSelect >> option" && l.hidden > 0 && len(texts) > 0 {
		l.hidden--
		texts = texts[:len(texts)-1]
	}
	return texts, err
}

func TestAddBookWaitsForNamedAuthorOption(t *testing.T) {
	page := &lateOption{hidden: 2}
	lib, app, _ := setupPage(t, func(app *fakeapp.App) surface.Surface {
		page.App = app
		return page
	})
	app.SeedAuthor("Old", "Author", 50, "old@test.com")
	newer := app.SeedAuthor("New", "Author", 30, "new@test.com")

	require.NoError(t, lib.AddBook(models.Book{Title: "Fresh", Year: 2024, AuthorName: "New Author"}))
	assert.Zero(t, page.hidden)
	require.Len(t, app.Books(), 1)
	assert.Equal(t, newer, app.Books()[0].AuthorID)
}

func TestOptionalSelectionFallsBackToFirstOption(t *testing.T) {
	lib, app, _ := setup(t)
	first := app.SeedAuthor("Ivan", "Franko", 40, "ivan@test.com")
	app.SeedAuthor("Lesya", "Ukrainka", 42, "lesya@test.com")

	workflow := lib.workflow
	require.NoError(t, lib.nav.SelectMenuItem("Додати книгу"))
	require.NoError(t, workflow.Submit(BookDialog(lib.Contract()), lib.BookFields(models.Book{Title: "Any", Year: 2001}),
		&Selection{Control: "#bookAuthorSelect", Match: "Nobody"}))
	require.Len(t, app.Books(), 1)
	assert.Equal(t, first, app.Books()[0].AuthorID)
}

func TestSubmitStuckDialogTimesOut(t *testing.T) {
	lib, app, _ := setup(t)
	app.StuckDialogs = true

	err := lib.AddAuthor(models.Author{FirstName: "A", LastName: "B", Age: 1, Email: "a@b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrTimeout)
	assert.ErrorContains(t, err, "author dialog did not close")
}

func TestTryAddAuthorRejected(t *testing.T) {
	lib, app, _ := setup(t)

	closed, err := lib.TryAddAuthor(models.Author{LastName: "NoName", Age: 30, Email: "invalid_1@test.com"})
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Empty(t, app.Authors())
	assert.Equal(t, "author", app.DialogOpen())
}

func TestTryAddBookAccepted(t *testing.T) {
	lib, app, _ := setup(t)
	app.AcceptInvalid = true

	closed, err := lib.TryAddBook(models.Book{Title: "Negative", Year: -5})
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Len(t, app.Books(), 1)
}

func TestDialogNeverOpens(t *testing.T) {
	lib, app, _ := setup(t)
	app.DeadMenu = true

	err := lib.AddBook(models.Book{Title: "Unreachable", Year: 2000})
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestFillOrderAndEdit(t *testing.T) {
	lib, app, _ := setup(t)
	app.SeedBook("EditMe_1", 2021, 0)

	require.NoError(t, app.Click(surface.Within(surface.Nth("#tableBody tr", 0), ".edit-btn")))
	require.NoError(t, lib.SaveBookEdit(Field{Selector: "#bookTitle", Value: "Edited_1"}))

	require.Len(t, app.Books(), 1)
	assert.Equal(t, "Edited_1", app.Books()[0].Title)
	assert.Equal(t, 2021, app.Books()[0].Year, "untouched fields keep their value")
}

func TestFieldsFollowFormOrder(t *testing.T) {
	lib, _, _ := setup(t)

	fields := lib.AuthorFields(models.Author{FirstName: "F", LastName: "L", Age: 9, Email: "e"})
	var selectors []string
	for _, f := range fields {
		selectors = append(selectors, f.Selector)
	}
	assert.Equal(t, []string{"#authFirstName", "#authLastName", "#authAge", "#authEmail"}, selectors)

	book := lib.BookFields(models.Book{Title: "T", Year: 7})
	assert.Equal(t, []Field{{"#bookTitle", "T"}, {"#bookYear", "7"}}, book)

	assert.False(t, lib.AuthorSelection(models.Book{}).Required)
	assert.True(t, lib.AuthorSelection(models.Book{AuthorName: "X Y"}).Required)
	assert.Equal(t, "#authorModal >> .save-btn", AuthorDialog(lib.Contract()).SaveSelector())
}
