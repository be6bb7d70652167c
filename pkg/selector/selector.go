// Package selector implements the small CSS-style selector subset used for
// event delegation: tag names, #id, .class, compounds of those, descendant
// combinators (whitespace) and comma-separated groups.
package selector

import (
	"fmt"
	"strings"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
)

// Selector is a parsed selector. A selector matches a node when any of its
// comma-separated groups matches.
type Selector struct {
	source string
	groups []compound
}

// compound is a descendant chain: the last simple selector must match the
// node itself and each earlier one must match some strictly higher
// ancestor, in order.
type compound struct {
	parts []simple
}

// simple matches a single node: an optional tag, optional id and any
// number of required classes.
type simple struct {
	tag     string
	id      string
	classes []string
}

// Parse compiles a selector string. The empty string is rejected; the
// delegate package treats it as "the element itself" before parsing.
func Parse(source string) (*Selector, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, fmt.Errorf("selector: empty selector")
	}
	sel := &Selector{source: source}
	for _, groupSrc := range strings.Split(trimmed, ",") {
		groupSrc = strings.TrimSpace(groupSrc)
		if groupSrc == "" {
			return nil, fmt.Errorf("selector: empty group in %q", source)
		}
		var comp compound
		for _, partSrc := range strings.Fields(groupSrc) {
			part, err := parseSimple(partSrc)
			if err != nil {
				return nil, err
			}
			comp.parts = append(comp.parts, part)
		}
		sel.groups = append(sel.groups, comp)
	}
	return sel, nil
}

func parseSimple(source string) (simple, error) {
	var s simple
	rest := source
	for rest != "" {
		kind := rest[0]
		var token string
		switch kind {
		case '.', '#':
			rest = rest[1:]
			token, rest = readName(rest)
			if token == "" {
				return s, fmt.Errorf("selector: expected name after %q in %q", string(kind), source)
			}
			if kind == '.' {
				s.classes = append(s.classes, token)
			} else {
				if s.id != "" {
					return s, fmt.Errorf("selector: multiple ids in %q", source)
				}
				s.id = token
			}
		default:
			token, rest = readName(rest)
			if token == "" {
				return s, fmt.Errorf("selector: unexpected character %q in %q", string(kind), source)
			}
			if s.tag != "" || s.id != "" || len(s.classes) > 0 {
				return s, fmt.Errorf("selector: tag must come first in %q", source)
			}
			s.tag = token
		}
	}
	return s, nil
}

// readName consumes a leading identifier (letters, digits, '-', '_').
// Anything else, including combinators and attribute or pseudo syntax,
// stays in rest and is rejected by the parse loop.
func readName(source string) (name, rest string) {
	end := 0
	for end < len(source) && isNameByte(source[end]) {
		end++
	}
	return source[:end], source[end:]
}

func isNameByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z':
		return true
	case '0' <= b && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

// String returns the original selector source.
func (s *Selector) String() string {
	return s.source
}

// Matches reports whether the node satisfies the selector.
func (s *Selector) Matches(n *dom.Node) bool {
	if n == nil {
		return false
	}
	for _, group := range s.groups {
		if group.matches(n) {
			return true
		}
	}
	return false
}

// Closest returns the nearest self-or-ancestor of n matching the selector,
// or nil when none matches.
func (s *Selector) Closest(n *dom.Node) *dom.Node {
	for current := n; current != nil; current = current.Parent() {
		if s.Matches(current) {
			return current
		}
	}
	return nil
}

func (c compound) matches(n *dom.Node) bool {
	last := len(c.parts) - 1
	if last < 0 || !c.parts[last].matches(n) {
		return false
	}
	// Remaining parts must match ancestors, nearest part last.
	ancestor := n.Parent()
	for i := last - 1; i >= 0; i-- {
		for {
			if ancestor == nil {
				return false
			}
			if c.parts[i].matches(ancestor) {
				ancestor = ancestor.Parent()
				break
			}
			ancestor = ancestor.Parent()
		}
	}
	return true
}

func (s simple) matches(n *dom.Node) bool {
	if s.tag != "" && !strings.EqualFold(s.tag, n.Tag) {
		return false
	}
	if s.id != "" && s.id != n.ID {
		return false
	}
	for _, class := range s.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	return true
}
