package dom

import "slices"

// Event is a native event dispatched on a node. Dispatch runs the target's
// listeners first, then bubbles through the ancestor chain when Bubbles is
// set.
type Event struct {
	// Type is the event name (e.g., "click").
	Type string
	// Target is the node the event was dispatched on.
	Target *Node
	// CurrentTarget is the node whose listeners are currently running.
	CurrentTarget *Node
	// DelegatorTarget is set by the delegate package to the ancestor that
	// matched the handler's selector for the current invocation.
	DelegatorTarget *Node
	// Bubbles controls whether dispatch continues through ancestors.
	Bubbles bool
	// Err carries the error for lifecycle *Error notifications.
	Err error
	// Data carries arbitrary event payload.
	Data any

	stopped    bool
	stoppedNow bool
}

// StopPropagation prevents the event from reaching listeners on ancestor
// nodes. Remaining listeners on the current node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation prevents any further listener from running,
// including those on the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// ImmediatePropagationStopped reports whether StopImmediatePropagation was
// called.
func (e *Event) ImmediatePropagationStopped() bool {
	return e.stoppedNow
}

// Listener handles a dispatched event. A non-nil error aborts the dispatch
// and propagates to the DispatchEvent caller.
type Listener func(*Event) error

type listenerEntry struct {
	id int
	fn Listener
}

// AddEventListener subscribes a listener for the named event.
// It returns a function that removes the listener.
func (n *Node) AddEventListener(event string, fn Listener) func() {
	if event == "" || fn == nil {
		return func() {}
	}
	n.lmu.Lock()
	if n.listeners == nil {
		n.listeners = make(map[string][]*listenerEntry)
	}
	n.nextListenerID++
	entry := &listenerEntry{id: n.nextListenerID, fn: fn}
	n.listeners[event] = append(n.listeners[event], entry)
	n.lmu.Unlock()

	return func() {
		n.lmu.Lock()
		defer n.lmu.Unlock()
		list := n.listeners[event]
		for i, e := range list {
			if e == entry {
				n.listeners[event] = slices.Delete(list, i, i+1)
				return
			}
		}
	}
}

// DispatchEvent runs the event against the node's listeners and then
// bubbles it through the ancestor chain. The first listener error aborts
// dispatch and is returned to the caller; listeners that were not yet
// reached do not run.
func (n *Node) DispatchEvent(evt *Event) error {
	if evt == nil || evt.Type == "" {
		return nil
	}
	evt.Target = n

	if err := n.invokeListeners(evt); err != nil {
		return err
	}
	if !evt.Bubbles || evt.stopped {
		return nil
	}
	for p := n.parent; p != nil; p = p.parent {
		if err := p.invokeListeners(evt); err != nil {
			return err
		}
		if evt.stopped {
			return nil
		}
	}
	return nil
}

// invokeListeners runs the node's listeners for the event type in
// registration order. The listener list is snapshotted so handlers may
// add or remove listeners during dispatch.
func (n *Node) invokeListeners(evt *Event) error {
	n.lmu.Lock()
	list := slices.Clone(n.listeners[evt.Type])
	n.lmu.Unlock()

	evt.CurrentTarget = n
	for _, entry := range list {
		if err := entry.fn(evt); err != nil {
			return err
		}
		if evt.stoppedNow {
			return nil
		}
	}
	return nil
}
