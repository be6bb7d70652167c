// Package stagecraft ties the document, scheduler, registry, observer and
// lifecycle controller together behind a single App handle. All shared
// machinery hangs off the App; two Apps never share state.
package stagecraft

import (
	"github.com/google/uuid"

	"github.com/go-stagecraft/stagecraft/pkg/delegate"
	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/errors"
	"github.com/go-stagecraft/stagecraft/pkg/lifecycle"
	"github.com/go-stagecraft/stagecraft/pkg/platform"
	"github.com/go-stagecraft/stagecraft/pkg/scheduler"
)

// Config configures a new App. Zero-value fields get fresh defaults.
type Config struct {
	// Document is the tree the app manages. When nil a new empty document
	// is created.
	Document *dom.Document

	// Platform is the app lifecycle signal source used for show-on-resume.
	// When nil a new source in the resumed state is created.
	Platform *platform.AppLifecycle
}

// App is the assembled runtime: one document, one scheduler loop, one
// registry and one mutation observer.
type App struct {
	doc      *dom.Document
	life     *platform.AppLifecycle
	loop     *scheduler.Loop
	registry *lifecycle.Registry
	observer *lifecycle.Observer
	ctrl     *lifecycle.Controller

	initialized bool
}

// New assembles an App from the config without starting anything.
// Call Initialize before creating elements.
func New(cfg Config) *App {
	doc := cfg.Document
	if doc == nil {
		doc = dom.NewDocument()
	}
	life := cfg.Platform
	if life == nil {
		life = platform.NewAppLifecycle()
	}

	loop := scheduler.NewLoop()
	registry := lifecycle.NewRegistry()
	return &App{
		doc:      doc,
		life:     life,
		loop:     loop,
		registry: registry,
		observer: lifecycle.NewObserver(loop, registry),
		ctrl:     lifecycle.NewController(loop, life),
	}
}

// Document returns the managed document.
func (a *App) Document() *dom.Document {
	return a.doc
}

// Platform returns the app lifecycle signal source.
func (a *App) Platform() *platform.AppLifecycle {
	return a.life
}

// Initialize starts the scheduler loop and connects the mutation observer.
// Initializing twice is a no-op.
func (a *App) Initialize() error {
	if a.initialized {
		return nil
	}
	a.initialized = true
	a.loop.Start()
	a.observer.Observe(a.doc)
	return nil
}

// Teardown disconnects the observer, flushes the batch that may still be
// pending, and stops the loop after draining queued work. Elements stay in
// whatever state they were in; teardown does not hide them.
func (a *App) Teardown() error {
	if !a.initialized {
		return nil
	}
	a.initialized = false
	a.observer.Teardown()
	a.loop.Stop()
	return nil
}

// CreateElement builds (or adopts) an element, wires its lifecycle
// callbacks and delegated listeners, and registers it for attachment
// tracking. The element is returned detached; appending it into the
// document triggers its first show on a later scheduling turn.
func (a *App) CreateElement(cfg ElementConfig) (*dom.Node, error) {
	n := cfg.Existing
	if n == nil {
		tag := cfg.Tag
		if tag == "" {
			tag = "div"
		}
		n = dom.NewNode(tag)
	}
	if cfg.ID != "" {
		n.ID = cfg.ID
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	for _, class := range cfg.Classes {
		n.AddClass(class)
	}
	for name, value := range cfg.Styles {
		n.SetStyle(name, value)
	}
	for key, value := range cfg.Properties {
		n.Put(key, value)
	}
	if cfg.Text != "" {
		n.SetText(cfg.Text)
	}

	a.ctrl.Bind(n, lifecycle.Bindings{
		Load:         cfg.Load,
		Show:         cfg.Show,
		Hide:         cfg.Hide,
		Unload:       cfg.Unload,
		ShowOnResume: cfg.ShowOnResume,
	})

	for event, bySelector := range cfg.Listeners {
		for sel, handler := range bySelector {
			if err := delegate.Bind(n, event, sel, handler); err != nil {
				return nil, &errors.LifecycleError{
					Op:      "stagecraft.CreateElement",
					Kind:    errors.KindInit,
					Element: n.ID,
					Err:     err,
				}
			}
		}
	}

	// The registry must not keep the element alive, so the triggers close
	// over the controller only and take the node as a parameter.
	ctrl := a.ctrl
	a.registry.Register(n,
		func(el *dom.Node) error { return ctrl.Show(el, lifecycle.Options{}) },
		func(el *dom.Node) error { return ctrl.Hide(el) },
	)
	return n, nil
}

// TriggerLoad schedules the element's load stage on a later turn.
func (a *App) TriggerLoad(n *dom.Node, opts lifecycle.Options) *scheduler.Completion {
	return a.ctrl.TriggerLoad(n, opts)
}

// TriggerShow schedules the element's show stage on a later turn.
func (a *App) TriggerShow(n *dom.Node, opts lifecycle.Options) *scheduler.Completion {
	return a.ctrl.TriggerShow(n, opts)
}

// Settle blocks until the loop has drained all pending turns, including
// turns scheduled by the turns it drains. Must not be called from a
// lifecycle callback or event handler.
func (a *App) Settle() error {
	return a.loop.Settle()
}
