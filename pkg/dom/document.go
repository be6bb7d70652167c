package dom

import "sync"

// Document owns a root node and reports structural mutations anywhere in
// the rooted tree to a single observer hook.
type Document struct {
	mu   sync.Mutex
	root *Node

	hookMu     sync.Mutex
	onMutation func()
}

// NewDocument creates a document with an empty root node.
func NewDocument() *Document {
	d := &Document{root: NewNode("#document")}
	d.root.doc = d
	return d
}

// Root returns the document's root node.
func (d *Document) Root() *Node {
	return d.root
}

// Contains reports whether the node is currently rooted in this document.
// The check walks the full parent chain, so a node moved to a different
// part of the tree is still contained as long as it reaches the root.
func (d *Document) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for current := n; current != nil; current = current.parent {
		if current == d.root {
			return true
		}
	}
	return false
}

// SetMutationObserver installs the hook invoked after each structural
// change under the root. Only one observer is supported; installing a new
// hook replaces the previous one.
func (d *Document) SetMutationObserver(fn func()) {
	d.hookMu.Lock()
	d.onMutation = fn
	d.hookMu.Unlock()
}

// ClearMutationObserver removes the mutation hook.
func (d *Document) ClearMutationObserver() {
	d.SetMutationObserver(nil)
}

// notify invokes the mutation hook. Called after the structure lock has
// been released so the hook may inspect the tree.
func (d *Document) notify() {
	d.hookMu.Lock()
	fn := d.onMutation
	d.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}
