package models

import (
	"errors"
	"strconv"
)

// Domain errors
var (
	ErrEmptyFirstName = errors.New("author first name cannot be empty")
	ErrEmptyLastName  = errors.New("author last name cannot be empty")
	ErrInvalidAge     = errors.New("author age cannot be negative")
	ErrEmptyTitle     = errors.New("book title cannot be empty")
	ErrInvalidYear    = errors.New("book year must be positive")
)

// Author is an author as entered through the author dialog.
// The application assigns its identity; the harness knows it only by name.
type Author struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
}

// FullName returns the name the application displays for the author
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Validate reports the first rule the author breaks, if any
func (a Author) Validate() error {
	if a.FirstName == "" {
		return ErrEmptyFirstName
	}
	if a.LastName == "" {
		return ErrEmptyLastName
	}
	if a.Age < 0 {
		return ErrInvalidAge
	}
	return nil
}

// AgeText returns the age as typed into the form
func (a Author) AgeText() string {
	return strconv.Itoa(a.Age)
}

// Book is a book as entered through the book dialog.
// AuthorName is the display name of the associated author, the only join
// key visible in the interface. Empty means no preference.
type Book struct {
	Title      string
	Year       int
	AuthorName string
}

// Validate reports the first rule the book breaks, if any
func (b Book) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if b.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

// YearText returns the year as typed into the form
func (b Book) YearText() string {
	return strconv.Itoa(b.Year)
}
