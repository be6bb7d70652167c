// Package testing provides an element testing harness that drives a full
// App (document, scheduler loop, observer) without any embedding host.
package testing

import (
	"testing"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/stagecraft"
)

// ElementTester wraps an initialized App and a document root for tests.
// Attach and Detach settle the loop before returning, so the element's
// show or hide transition has completed by the time they return.
type ElementTester struct {
	t   *testing.T
	app *stagecraft.App
}

// NewElementTester creates a tester backed by a fresh App and registers
// teardown via t.Cleanup.
func NewElementTester(t *testing.T) *ElementTester {
	t.Helper()
	app := stagecraft.New(stagecraft.Config{})
	if err := app.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() {
		if err := app.Teardown(); err != nil {
			t.Errorf("Teardown: %v", err)
		}
	})
	return &ElementTester{t: t, app: app}
}

// App returns the underlying App.
func (et *ElementTester) App() *stagecraft.App {
	return et.app
}

// Root returns the document root.
func (et *ElementTester) Root() *dom.Node {
	return et.app.Document().Root()
}

// CreateElement creates a managed element, failing the test on error.
func (et *ElementTester) CreateElement(cfg stagecraft.ElementConfig) *dom.Node {
	et.t.Helper()
	n, err := et.app.CreateElement(cfg)
	if err != nil {
		et.t.Fatalf("CreateElement: %v", err)
	}
	return n
}

// Attach appends the element under the document root and settles.
func (et *ElementTester) Attach(n *dom.Node) {
	et.t.Helper()
	et.Root().AppendChild(n)
	et.Settle()
}

// Detach removes the element from its parent and settles.
func (et *ElementTester) Detach(n *dom.Node) {
	et.t.Helper()
	n.Remove()
	et.Settle()
}

// Settle drains the scheduler loop, failing the test if it never idles.
func (et *ElementTester) Settle() {
	et.t.Helper()
	if err := et.app.Settle(); err != nil {
		et.t.Fatalf("Settle: %v", err)
	}
}

// Click dispatches a bubbling "click" event at the node and returns the
// dispatch error, if any.
func (et *ElementTester) Click(n *dom.Node) error {
	return n.DispatchEvent(&dom.Event{Type: "click", Bubbles: true})
}
