package wait

import (
	"fmt"
	"strings"

	"github.com/themizzi/libcheck/internal/surface"
)

// Condition is a named predicate over the current state of a surface.
// It holds no state and may be evaluated any number of times.
type Condition struct {
	Description string
	Check       func(s surface.Surface) (bool, error)
}

// Present holds when at least one element matches selector.
func Present(selector string) Condition {
	return Condition{
		Description: selector + " to be present",
		Check: func(s surface.Surface) (bool, error) {
			n, err := s.Count(selector)
			return n > 0, err
		},
	}
}

// Visible holds when the first match of selector is visible.
func Visible(selector string) Condition {
	return Condition{
		Description: selector + " to be visible",
		Check: func(s surface.Surface) (bool, error) {
			return s.Visible(selector)
		},
	}
}

// Invisible holds when no match of selector is visible, including when there is no match.
func Invisible(selector string) Condition {
	return Condition{
		Description: selector + " to be invisible",
		Check: func(s surface.Surface) (bool, error) {
			n, err := s.Count(selector)
			if err != nil {
				return false, err
			}
			for i := 0; i < n; i++ {
				visible, err := s.Visible(surface.Nth(selector, i))
				if err != nil || visible {
					return false, err
				}
			}
			return true, nil
		},
	}
}

// Clickable holds when the first match of selector is visible and enabled.
func Clickable(selector string) Condition {
	return Condition{
		Description: selector + " to be clickable",
		Check: func(s surface.Surface) (bool, error) {
			visible, err := s.Visible(selector)
			if err != nil || !visible {
				return false, err
			}
			return s.Enabled(selector)
		},
	}
}

// HasClass holds when the class attribute of the first match of selector contains class.
func HasClass(selector, class string) Condition {
	return Condition{
		Description: fmt.Sprintf("%s to carry class %q", selector, class),
		Check: func(s surface.Surface) (bool, error) {
			attr, err := s.Attribute(selector, "class")
			if err != nil {
				return false, err
			}
			for _, c := range strings.Fields(attr) {
				if c == class {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// TextContains holds when the text of the first match of selector contains text.
func TextContains(selector, text string) Condition {
	return Condition{
		Description: fmt.Sprintf("%s to contain %q", selector, text),
		Check: func(s surface.Surface) (bool, error) {
			got, err := s.Text(selector)
			return strings.Contains(got, text), err
		},
	}
}

// PromptPresent holds while a native confirmation prompt is open.
func PromptPresent() Condition {
	return Condition{
		Description: "confirmation prompt to be present",
		Check: func(s surface.Surface) (bool, error) {
			return s.PromptPresent()
		},
	}
}

// Predicate builds a custom condition.
func Predicate(description string, check func(s surface.Surface) (bool, error)) Condition {
	return Condition{Description: description, Check: check}
}
