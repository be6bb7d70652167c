package dom

import (
	"slices"
	"sync"
)

// Node is a single element in the retained tree.
type Node struct {
	// Tag is the element's tag name (e.g., "div").
	Tag string
	// ID is the element's identifier. It is informational; the tree does
	// not enforce uniqueness.
	ID string

	parent   *Node
	children []*Node
	doc      *Document

	classes []string
	styles  map[string]string
	props   map[string]any
	text    string

	lmu            sync.Mutex
	listeners      map[string][]*listenerEntry
	nextListenerID int
}

// NewNode creates a detached node with the given tag.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Root walks up the parent chain and returns the topmost node.
func (n *Node) Root() *Node {
	current := n
	for current.parent != nil {
		current = current.parent
	}
	return current
}

// Ancestors returns the node's ancestors ordered nearest-first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// isAncestorOf reports whether n is d or an ancestor of d.
func (n *Node) isAncestorOf(d *Node) bool {
	for current := d; current != nil; current = current.parent {
		if current == n {
			return true
		}
	}
	return false
}

// AppendChild adds a child as the last child of n, detaching it from any
// previous parent first. Appending a node to one of its own descendants is
// a no-op.
func (n *Node) AppendChild(c *Node) *Node {
	return n.insertChild(c, -1)
}

// InsertChild adds a child at the given index. Indexes outside the child
// list are clamped.
func (n *Node) InsertChild(c *Node, index int) *Node {
	return n.insertChild(c, index)
}

func (n *Node) insertChild(c *Node, index int) *Node {
	if c == nil || c == n || c.isAncestorOf(n) {
		return n
	}
	c.Remove()

	d := n.doc
	if d != nil {
		d.mu.Lock()
	}
	c.parent = n
	if index < 0 || index >= len(n.children) {
		n.children = append(n.children, c)
	} else {
		n.children = slices.Insert(n.children, index, c)
	}
	setDocument(c, d)
	if d != nil {
		d.mu.Unlock()
		d.notify()
	}
	return n
}

// ReplaceChild swaps an existing child for another node. If old is not a
// child of n, nothing happens.
func (n *Node) ReplaceChild(old, c *Node) *Node {
	if old == nil || old.parent != n {
		return n
	}
	index := slices.Index(n.children, old)
	if index < 0 {
		return n
	}
	old.Remove()
	return n.insertChild(c, index)
}

// Remove detaches the node from its parent. Detaching the document root is
// a no-op (the root has no parent).
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	d := n.doc
	if d != nil {
		d.mu.Lock()
	}
	if index := slices.Index(p.children, n); index >= 0 {
		p.children = slices.Delete(p.children, index, index+1)
	}
	n.parent = nil
	setDocument(n, nil)
	if d != nil {
		d.mu.Unlock()
		d.notify()
	}
}

// setDocument updates the document pointer for a whole subtree.
func setDocument(n *Node, d *Document) {
	n.doc = d
	for _, c := range n.children {
		setDocument(c, d)
	}
}

// SetText replaces the node's text content.
func (n *Node) SetText(text string) *Node {
	n.text = text
	return n
}

// Text returns the node's text content.
func (n *Node) Text() string {
	return n.text
}

// Put stores a value in the node's property bag.
func (n *Node) Put(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = value
}

// Get retrieves a value from the node's property bag.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// AddClass appends a class name if not already present.
func (n *Node) AddClass(name string) *Node {
	if name == "" || slices.Contains(n.classes, name) {
		return n
	}
	n.classes = append(n.classes, name)
	return n
}

// RemoveClass removes a class name if present.
func (n *Node) RemoveClass(name string) *Node {
	if index := slices.Index(n.classes, name); index >= 0 {
		n.classes = slices.Delete(n.classes, index, index+1)
	}
	return n
}

// HasClass reports whether the node carries the class name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

// Classes returns a copy of the node's class list.
func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

// SetStyle sets an inline style property.
func (n *Node) SetStyle(name, value string) *Node {
	if n.styles == nil {
		n.styles = make(map[string]string)
	}
	n.styles[name] = value
	return n
}

// Style returns an inline style property value.
func (n *Node) Style(name string) string {
	return n.styles[name]
}
