// Package surface abstracts the rendered page the harness drives.
//
// A Surface answers point-in-time questions about the page and performs
// single user actions. It never waits: synchronization is the job of the
// wait package, which polls a Surface until a condition holds.
//
// Selectors use playwright syntax. Single-element methods act on the first
// match in document order.
package surface

import (
	"fmt"
	"strings"
)

// Surface is the rendering surface of the application under test
type Surface interface {
	// Open navigates to url and returns once the document has loaded.
	Open(url string) error
	Title() (string, error)

	Count(selector string) (int, error)
	Visible(selector string) (bool, error)
	Enabled(selector string) (bool, error)
	// Attribute returns "" when the element or the attribute is missing.
	Attribute(selector, name string) (string, error)
	// Text returns the rendered text of the first match.
	Text(selector string) (string, error)
	// Texts returns the rendered text of every match.
	Texts(selector string) ([]string, error)

	Click(selector string) error
	// Fill clears the input and sets its value.
	Fill(selector, value string) error
	// SelectOption chooses the option at index of a select element.
	SelectOption(selector string, index int) error

	// PromptPresent reports whether a native confirmation prompt is open.
	PromptPresent() (bool, error)
	PromptMessage() (string, error)
	AcceptPrompt() error
	DismissPrompt() error
}

// chain separates scoped selector parts, as in playwright's selector chaining
const chain = " >> "

// Within scopes child to matches of parent.
func Within(parent, child string) string {
	return parent + chain + child
}

// Nth selects the zero-based i-th match of selector.
func Nth(selector string, i int) string {
	return fmt.Sprintf("%s%snth=%d", selector, chain, i)
}

// Split breaks a chained selector into its parts.
func Split(selector string) []string {
	return strings.Split(selector, chain)
}
