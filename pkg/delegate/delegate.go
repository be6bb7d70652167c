// Package delegate routes a single native event listener per
// (element, event name) pair to multiple selector-scoped handlers.
//
// Selectors are matched per dispatch against the event target's ancestry,
// so handlers fire for descendants that did not exist at registration
// time. Handlers run innermost-first relative to the original target, with
// the empty selector (the element itself) last.
package delegate

import (
	"slices"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/selector"
)

// bindingKey is the property bag slot holding an element's delegation map.
const bindingKey = "stagecraft.delegate"

// Handler handles a delegated event. The event's DelegatorTarget is set to
// the ancestor that matched the handler's selector. A non-nil error aborts
// the dispatch and propagates to the native dispatch caller; handlers not
// yet reached do not run.
type Handler func(el *dom.Node, evt *dom.Event) error

// group is the set of handlers for one event name on one element.
type group struct {
	order    []string
	handlers map[string]Handler
	compiled map[string]*selector.Selector
	self     Handler
	remove   func()
}

// binding is the per-element delegation table, keyed by event name.
type binding struct {
	groups map[string]*group
}

func bindingOf(el *dom.Node, create bool) *binding {
	if v, ok := el.Get(bindingKey); ok {
		if b, ok := v.(*binding); ok {
			return b
		}
	}
	if !create {
		return nil
	}
	b := &binding{groups: make(map[string]*group)}
	el.Put(bindingKey, b)
	return b
}

// Bind registers a handler for the event name under the given selector.
// The empty selector means the element itself; its handler always runs
// last. The first Bind for an event name installs the single native
// listener. Binding a selector twice replaces the previous handler but
// keeps its position in the dispatch order.
func Bind(el *dom.Node, event, sel string, handler Handler) error {
	if el == nil || event == "" || handler == nil {
		return nil
	}
	b := bindingOf(el, true)
	g := b.groups[event]
	if g == nil {
		g = &group{
			handlers: make(map[string]Handler),
			compiled: make(map[string]*selector.Selector),
		}
		g.remove = el.AddEventListener(event, func(evt *dom.Event) error {
			return dispatch(el, g, evt)
		})
		b.groups[event] = g
	}

	if sel == "" {
		g.self = handler
		return nil
	}
	compiled, err := selector.Parse(sel)
	if err != nil {
		return err
	}
	if _, exists := g.handlers[sel]; !exists {
		g.order = append(g.order, sel)
	}
	g.handlers[sel] = handler
	g.compiled[sel] = compiled
	return nil
}

// Unbind removes all delegated handlers for the event name and detaches
// the native listener.
func Unbind(el *dom.Node, event string) {
	b := bindingOf(el, false)
	if b == nil {
		return
	}
	g := b.groups[event]
	if g == nil {
		return
	}
	if g.remove != nil {
		g.remove()
	}
	delete(b.groups, event)
}

// match is one selector that found an ancestor for the current dispatch.
type match struct {
	target  *dom.Node
	depth   int
	handler Handler
}

// dispatch fans the native event out to the matching handlers. Handlers
// run sequentially; each may halt further iteration by stopping the
// event's propagation, which also takes its normal effect on the native
// bubble path.
func dispatch(el *dom.Node, g *group, evt *dom.Event) error {
	matches := make([]match, 0, len(g.order)+1)
	for _, sel := range g.order {
		target := g.compiled[sel].Closest(evt.Target)
		if target == nil {
			continue
		}
		matches = append(matches, match{
			target:  target,
			depth:   distance(evt.Target, target),
			handler: g.handlers[sel],
		})
	}
	// Innermost first; ties keep registration order.
	slices.SortStableFunc(matches, func(a, b match) int {
		return a.depth - b.depth
	})
	if g.self != nil {
		matches = append(matches, match{target: el, handler: g.self})
	}

	// The annotation is only meaningful inside this batch; listeners
	// further up the bubble path must not see a stale value.
	defer func() { evt.DelegatorTarget = nil }()

	for _, m := range matches {
		evt.DelegatorTarget = m.target
		if err := m.handler(el, evt); err != nil {
			return err
		}
		if evt.PropagationStopped() {
			return nil
		}
	}
	return nil
}

// distance counts parent steps from a node up to one of its ancestors.
func distance(from, to *dom.Node) int {
	steps := 0
	for current := from; current != nil; current = current.Parent() {
		if current == to {
			return steps
		}
		steps++
	}
	return steps
}
