// Package platform carries the app-level lifecycle signal that stagecraft
// subscribes to for show-on-resume behavior. The embedding application (or
// its native bridge) drives the state; the library only listens.
package platform

import "sync"

// State represents the current app lifecycle state.
type State string

const (
	// StateResumed indicates the app is visible and responding to input.
	StateResumed State = "resumed"

	// StateInactive indicates the app is transitioning (e.g., the system
	// app switcher or a system dialog is shown).
	StateInactive State = "inactive"

	// StatePaused indicates the app is not visible but still running.
	StatePaused State = "paused"
)

// Handler is called when the lifecycle state changes.
type Handler func(state State)

type handlerEntry struct {
	id int
	fn Handler
}

// AppLifecycle manages app lifecycle state and change notifications.
// Each stagecraft App owns one instance; there is no package-level
// singleton.
type AppLifecycle struct {
	mu       sync.RWMutex
	state    State
	handlers []handlerEntry
	nextID   int
}

// NewAppLifecycle creates a lifecycle service in the resumed state.
func NewAppLifecycle() *AppLifecycle {
	return &AppLifecycle{state: StateResumed}
}

// State returns the current lifecycle state.
func (l *AppLifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsResumed returns true if the app is in the resumed state.
func (l *AppLifecycle) IsResumed() bool {
	return l.State() == StateResumed
}

// AddHandler registers a handler called on every state change.
// Returns a function that removes the handler.
func (l *AppLifecycle) AddHandler(handler Handler) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, handlerEntry{id: id, fn: handler})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, entry := range l.handlers {
			if entry.id == id {
				l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
				return
			}
		}
	}
}

// AddResumeHandler registers a handler called only on transitions into the
// resumed state. Returns a function that removes the handler.
func (l *AppLifecycle) AddResumeHandler(fn func()) func() {
	return l.AddHandler(func(state State) {
		if state == StateResumed {
			fn()
		}
	})
}

// SetState updates the lifecycle state and notifies handlers on change.
func (l *AppLifecycle) SetState(newState State) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := make([]handlerEntry, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()

	for _, entry := range handlers {
		entry.fn(newState)
	}
}
