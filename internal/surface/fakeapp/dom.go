package fakeapp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/themizzi/libcheck/internal/surface"
)

// node is one element of the rendered page. The tree is rebuilt from state on
// every query, so it always reflects the latest mutation.
type node struct {
	names    []string
	text     string
	visible  bool
	disabled bool
	attrs    map[string]string
	children []*node

	click  func()
	fill   func(string)
	choose func(int) error
}

func el(text string, visible bool, names ...string) *node {
	return &node{names: names, text: text, visible: visible}
}

func (n *node) add(children ...*node) *node {
	n.children = append(n.children, children...)
	return n
}

func (n *node) matches(part string) bool {
	for _, name := range n.names {
		if name == part {
			return true
		}
	}
	return false
}

// find returns the descendants of n matching part, in document order
func (n *node) find(part string) []*node {
	var out []*node
	for _, child := range n.children {
		if child.matches(part) {
			out = append(out, child)
		}
		out = append(out, child.find(part)...)
	}
	return out
}

// query resolves a chained selector against root
func query(root *node, selector string) ([]*node, error) {
	current := []*node{root}
	for _, part := range surface.Split(selector) {
		if strings.HasPrefix(part, "nth=") {
			i, err := strconv.Atoi(strings.TrimPrefix(part, "nth="))
			if err != nil {
				return nil, fmt.Errorf("bad selector %q: %w", selector, err)
			}
			if i < 0 || i >= len(current) {
				current = nil
				continue
			}
			current = current[i : i+1]
			continue
		}

		var next []*node
		for _, n := range current {
			next = append(next, n.find(part)...)
		}
		current = next
	}
	return current, nil
}
