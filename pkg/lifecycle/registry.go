package lifecycle

import (
	"sync"
	"weak"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
)

// entry pairs a weak reference to a managed node with its show and hide
// triggers. The triggers take the node as a parameter so the entry holds
// no strong reference that would keep the node alive.
type entry struct {
	ref  weak.Pointer[dom.Node]
	show Callback
	hide Callback
}

// LiveEntry is a registry entry whose node was still reachable at purge
// time.
type LiveEntry struct {
	Node *dom.Node
	Show Callback
	Hide Callback
}

// Registry tracks every managed element. There is no explicit
// deregistration: entries disappear when the referenced node becomes
// unreachable and the next purge drops them.
type Registry struct {
	mu      sync.Mutex
	entries []*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an entry for the node. The registry must never be the
// only referrer keeping the node alive, so only a weak reference is kept.
func (r *Registry) Register(n *dom.Node, show, hide Callback) {
	if n == nil {
		return
	}
	r.mu.Lock()
	r.entries = append(r.entries, &entry{ref: weak.Make(n), show: show, hide: hide})
	r.mu.Unlock()
}

// PurgeAndList drops entries whose node has been collected and returns the
// survivors with strong node pointers valid for the current batch.
func (r *Registry) PurgeAndList() []LiveEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]LiveEntry, 0, len(r.entries))
	kept := r.entries[:0]
	for _, e := range r.entries {
		n := e.ref.Value()
		if n == nil {
			continue
		}
		kept = append(kept, e)
		live = append(live, LiveEntry{Node: n, Show: e.show, Hide: e.hide})
	}
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = nil
	}
	r.entries = kept
	return live
}

// Len returns the number of entries, including ones whose node may already
// be unreachable but has not been purged yet.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
