package lifecycle

import (
	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/errors"
	"github.com/go-stagecraft/stagecraft/pkg/platform"
	"github.com/go-stagecraft/stagecraft/pkg/scheduler"
)

// Options configure a load or show transition.
type Options struct {
	// Reload forces the load callback to run again even when the element
	// has already loaded.
	Reload bool
}

// Bindings are the user callbacks attached to a managed element.
type Bindings struct {
	Load   Callback
	Show   Callback
	Hide   Callback
	Unload Callback

	// ShowOnResume re-triggers show whenever the app lifecycle signal
	// transitions to resumed. The subscription is removed when hide runs.
	ShowOnResume bool
}

// Controller drives the per-element load/show/hide state machine.
// Load, Show and Hide must be called on the scheduler loop; TriggerLoad
// and TriggerShow are the deferred entry points safe to call anywhere.
type Controller struct {
	loop *scheduler.Loop
	life *platform.AppLifecycle
}

// NewController creates a controller bound to a loop and a lifecycle
// signal source.
func NewController(loop *scheduler.Loop, life *platform.AppLifecycle) *Controller {
	return &Controller{loop: loop, life: life}
}

// Bind attaches callbacks to the element, creating its lifecycle record.
// Binding again replaces the callbacks and replaces any resume
// subscription, so repeated setup never accumulates listeners.
func (c *Controller) Bind(n *dom.Node, b Bindings) {
	st := ensureState(n)
	st.load = b.Load
	st.show = b.Show
	st.hide = b.Hide
	st.unload = b.Unload
	st.showOnResume = b.ShowOnResume

	if st.removeResume != nil {
		st.removeResume()
		st.removeResume = nil
	}
	if b.ShowOnResume && c.life != nil {
		st.removeResume = c.life.AddResumeHandler(func() {
			c.TriggerShow(n, Options{})
		})
	}
}

// Load runs the element's load stage. It is a no-op while a load is in
// flight, and skips the callback when the element has already loaded and
// no reload was requested. The loading flag is cleared on every path
// before returning.
func (c *Controller) Load(n *dom.Node, opts Options) error {
	st := ensureState(n)
	if st.loading {
		return nil
	}
	if st.loaded && !opts.Reload {
		return nil
	}

	st.loading = true
	c.notify(n, EventLoading, nil)

	var err error
	if st.load != nil {
		err = st.load(n)
	}
	st.loading = false

	if err != nil {
		c.notify(n, EventLoadError, err)
		return &errors.LoadError{Element: n.ID, Err: err}
	}
	st.loaded = true
	c.notify(n, EventLoaded, nil)
	return nil
}

// Show runs load (unless already loaded) followed by the user show
// callback. It is a no-op while a show is pending. On failure the pending
// flag is reset so show can be retried; the shown flag is left untouched.
func (c *Controller) Show(n *dom.Node, opts Options) error {
	st := ensureState(n)
	if st.showPending {
		return nil
	}

	st.showPending = true
	c.notify(n, EventShowing, nil)

	if err := c.Load(n, opts); err != nil {
		st.showPending = false
		c.notify(n, EventShowError, err)
		return &errors.ShowError{Element: n.ID, Err: err}
	}
	if st.show != nil {
		if err := st.show(n); err != nil {
			st.showPending = false
			c.notify(n, EventShowError, err)
			return &errors.ShowError{Element: n.ID, Err: err}
		}
	}

	st.shown = true
	st.showPending = false
	c.notify(n, EventShown, nil)
	return nil
}

// Hide runs the unload and hide callbacks. It is a no-op when the element
// is not shown or a hide is already pending. The resume subscription is
// always removed, even when a callback fails. The shown and hidePending
// flags are cleared before the "hidden" notification is dispatched, so a
// show scheduled from a "hidden" listener observes a fully hidden element.
func (c *Controller) Hide(n *dom.Node) error {
	st := stateOf(n)
	if st == nil || !st.shown || st.hidePending {
		return nil
	}

	st.hidePending = true
	if st.removeResume != nil {
		st.removeResume()
		st.removeResume = nil
	}

	var err error
	if st.unload != nil {
		err = st.unload(n)
	}
	if err == nil && st.hide != nil {
		err = st.hide(n)
	}
	if err != nil {
		st.hidePending = false
		c.notify(n, EventHideError, err)
		return &errors.HideError{Element: n.ID, Err: err}
	}

	st.shown = false
	st.hidePending = false
	c.notify(n, EventHidden, nil)
	return nil
}

// TriggerLoad schedules a load for a later turn and returns its outcome.
// The load never runs synchronously in the caller's stack.
func (c *Controller) TriggerLoad(n *dom.Node, opts Options) *scheduler.Completion {
	return c.loop.Submit(func() error {
		return c.Load(n, opts)
	})
}

// TriggerShow schedules a show for a later turn and returns its outcome.
// The show never runs synchronously in the caller's stack, so it is safe
// to call from a delegated event handler mutating the same subtree.
func (c *Controller) TriggerShow(n *dom.Node, opts Options) *scheduler.Completion {
	return c.loop.Submit(func() error {
		return c.Show(n, opts)
	})
}

// notify dispatches a lifecycle notification on the element. Listener
// failures are reported but never affect the transition in progress.
func (c *Controller) notify(n *dom.Node, event string, cause error) {
	evt := &dom.Event{Type: event, Err: cause}
	if err := n.DispatchEvent(evt); err != nil {
		errors.Report(&errors.LifecycleError{
			Op:      "lifecycle.notify",
			Kind:    errors.KindDispatch,
			Element: n.ID,
			Err:     err,
		})
	}
}
