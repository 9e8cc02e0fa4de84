package table

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/libcheck/internal/config"
	"github.com/themizzi/libcheck/internal/failure"
	"github.com/themizzi/libcheck/internal/surface"
	"github.com/themizzi/libcheck/internal/surface/fakeapp"
	"github.com/themizzi/libcheck/internal/wait"
	"github.com/themizzi/libcheck/internal/wait/waittest"
)

func setup(t *testing.T) (*Inspector, *fakeapp.App, *waittest.Clock) {
	t.Helper()
	app := fakeapp.New()
	require.NoError(t, app.Open("http://fake/index.html"))
	clock := waittest.NewClock()
	engine := wait.New(app, 100*time.Millisecond, 500*time.Millisecond, wait.WithClock(clock))
	return New(engine, config.DefaultContract(), time.Second), app, clock
}

func TestHeaderAndView(t *testing.T) {
	in, app, _ := setup(t)

	header, err := in.HeaderText()
	require.NoError(t, err)
	assert.Contains(t, header, "Рік")

	view, err := in.ActiveView()
	require.NoError(t, err)
	assert.Equal(t, ViewBooks, view)

	require.NoError(t, app.Click(".menu-btn"))
	require.NoError(t, app.Click(surface.Nth("#dropdown .dropdown-item", 2)))

	view, err = in.ActiveView()
	require.NoError(t, err)
	assert.Equal(t, ViewAuthors, view)

	ok, err := ViewIs(config.DefaultContract().Table, ViewAuthors).Check(app)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ViewIs(config.DefaultContract().Table, ViewBooks).Check(app)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestViewOf(t *testing.T) {
	tc := config.DefaultContract().Table
	assert.Equal(t, ViewAuthors, ViewOf(tc, "Ім'я\tПрізвище\tВік\tEmail\tДії"))
	assert.Equal(t, ViewBooks, ViewOf(tc, "Назва\tРік\tАвтор\tДії"))
}

func TestColumnIndex(t *testing.T) {
	in, _, _ := setup(t)

	i, err := in.ColumnIndex("Автор")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = in.ColumnIndex("Email")
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestCurrentRowsAreReReadEachCall(t *testing.T) {
	in, app, _ := setup(t)
	author := app.SeedAuthor("Ivan", "Franko", 40, "ivan@test.com")
	app.SeedBook("Zakhar Berkut", 1883, author)

	rows, err := in.CurrentRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Index)
	assert.True(t, rows[0].Contains("Zakhar Berkut"))
	cell, ok := rows[0].Cell(2)
	require.True(t, ok)
	assert.Equal(t, "Ivan Franko", cell)

	app.SeedBook("Moses", 1905, author)
	rows, err = in.CurrentRows()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// rerendering adds a book while the cells of the first row are read, renders times over
type rerendering struct {
	*fakeapp.App
	renders int
}

func (r *rerendering) Texts(selector string) ([]string, error) {
	if strings.Contains(selector, "nth=0 ") && r.renders > 0 {
		r.renders--
		r.SeedBook(fmt.Sprintf("Rendered_%d", r.renders), 1900, 0)
	}
	return r.App.Texts(selector)
}

func setupRerendering(t *testing.T, renders int) (*Inspector, *rerendering) {
	t.Helper()
	app := fakeapp.New()
	require.NoError(t, app.Open("http://fake/index.html"))
	page := &rerendering{App: app, renders: renders}
	engine := wait.New(page, 100*time.Millisecond, 500*time.Millisecond, wait.WithClock(waittest.NewClock()))
	return New(engine, config.DefaultContract(), time.Second), page
}

func TestCurrentRowsRereadAfterRerender(t *testing.T) {
	in, page := setupRerendering(t, 1)
	page.SeedBook("Zakhar Berkut", 1883, 0)

	rows, err := in.CurrentRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		title, ok := row.Cell(0)
		require.True(t, ok)
		assert.True(t, row.Contains(title), "cells of row %d belong to %q", i, row.Text)
	}
	assert.Equal(t, "Rendered_0", rows[1].Cells[0])
}

func TestCurrentRowsNeverStillTimesOut(t *testing.T) {
	in, page := setupRerendering(t, 1000)
	page.SeedBook("Zakhar Berkut", 1883, 0)

	_, err := in.CurrentRows()
	assert.ErrorIs(t, err, failure.ErrTimeout)
	assert.ErrorContains(t, err, "hold still")
}

func TestSearch(t *testing.T) {
	in, app, clock := setup(t)
	app.SeedBook("FindMe_1", 2025, 0)
	app.SeedBook("Other", 2020, 0)

	require.NoError(t, in.Search("FindMe_1"))
	assert.Equal(t, 500*time.Millisecond, clock.Slept(), "search waits one settle buffer")

	rows, err := in.CurrentRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Contains("FindMe_1"))

	matched, err := in.RowsContaining("Other")
	require.NoError(t, err)
	assert.Empty(t, matched)

	require.NoError(t, in.Search("АбраКадабра12345"))
	rows, err = in.CurrentRows()
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = in.FirstRow()
	assert.ErrorIs(t, err, failure.ErrAssertion)
}

func TestToggleSortAlternates(t *testing.T) {
	in, app, _ := setup(t)
	app.SeedBook("AAA_SortBook", 1000, 0)
	app.SeedBook("ZZZ_SortBook", 3000, 0)

	require.NoError(t, in.ToggleSort("Рік"))
	first, err := in.FirstRow()
	require.NoError(t, err)

	require.NoError(t, in.ToggleSort("Рік"))
	second, err := in.FirstRow()
	require.NoError(t, err)

	assert.NotEqual(t, first.Text, second.Text)
}

func TestDeleteConfirmsPrompt(t *testing.T) {
	in, app, _ := setup(t)
	app.Latency = 2
	app.SeedBook("DeleteMe_1", 2020, 0)
	app.SeedBook("Keep", 2020, 0)

	require.NoError(t, in.Search("DeleteMe_1"))
	row, err := in.FirstRow()
	require.NoError(t, err)

	require.NoError(t, in.Delete(row))
	require.Len(t, app.Books(), 1)
	assert.Equal(t, "Keep", app.Books()[0].Title)

	rows, err := in.CurrentRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteStaleRowFails(t *testing.T) {
	in, app, _ := setup(t)
	app.SeedBook("First", 2020, 0)

	row, err := in.FirstRow()
	require.NoError(t, err)

	app.SeedBook("Another", 2021, 0)
	require.NoError(t, in.ToggleSort("Рік"))
	require.NoError(t, in.ToggleSort("Рік"))

	err = in.Delete(row)
	assert.ErrorIs(t, err, failure.ErrTimeout)
	assert.Len(t, app.Books(), 2, "a row that moved is never deleted")
}

func TestDismissPrompt(t *testing.T) {
	in, app, _ := setup(t)
	app.SeedBook("Survivor", 2020, 0)

	require.NoError(t, app.Click(surface.Within(surface.Nth("#tableBody tr", 0), ".del-btn")))
	require.NoError(t, in.DismissPrompt())
	assert.Len(t, app.Books(), 1)

	assert.ErrorIs(t, in.ConfirmPrompt(), failure.ErrTimeout)
}

func TestEditOpensDialog(t *testing.T) {
	in, app, _ := setup(t)
	app.SeedBook("EditMe", 2021, 0)

	row, err := in.FirstRow()
	require.NoError(t, err)
	require.NoError(t, in.Edit(row))
	assert.Equal(t, "book", app.DialogOpen())
}
