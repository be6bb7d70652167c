package lifecycle

import "github.com/go-stagecraft/stagecraft/pkg/dom"

// stateKey is the property bag slot holding an element's lifecycle record.
const stateKey = "stagecraft.lifecycle"

// Callback is a user lifecycle callback. Callbacks run sequentially on the
// scheduler loop; a non-nil error aborts the transition and propagates to
// the caller.
type Callback func(*dom.Node) error

// state is the per-element lifecycle record. It lives in the node's
// property bag so its lifetime is tied to the node, not to the registry.
type state struct {
	shown       bool
	showPending bool
	hidePending bool
	loaded      bool
	loading     bool

	load   Callback
	show   Callback
	hide   Callback
	unload Callback

	showOnResume bool
	removeResume func()
}

// stateOf returns the element's lifecycle record, or nil when the element
// is not managed.
func stateOf(n *dom.Node) *state {
	v, ok := n.Get(stateKey)
	if !ok {
		return nil
	}
	st, _ := v.(*state)
	return st
}

// ensureState returns the element's lifecycle record, creating it when
// absent.
func ensureState(n *dom.Node) *state {
	if st := stateOf(n); st != nil {
		return st
	}
	st := &state{}
	n.Put(stateKey, st)
	return st
}

// Shown reports whether the element's tracked state is shown.
func Shown(n *dom.Node) bool {
	st := stateOf(n)
	return st != nil && st.shown
}

// Loaded reports whether the element's load stage has completed.
func Loaded(n *dom.Node) bool {
	st := stateOf(n)
	return st != nil && st.loaded
}
