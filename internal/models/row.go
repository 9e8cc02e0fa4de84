package models

import "github.com/themizzi/libcheck/internal/textmatch"

// TableRow is the rendered text of one table row at the time it was read.
// It is never reused after the page changes.
type TableRow struct {
	// Index is the zero-based position of the row in the table body.
	Index int
	Text  string
	Cells []string
}

// Contains reports whether the row text contains s
func (r TableRow) Contains(s string) bool {
	return textmatch.Contains(r.Text, s)
}

// Cell returns the text of the cell at column i
func (r TableRow) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r.Cells) {
		return "", false
	}
	return r.Cells[i], true
}
