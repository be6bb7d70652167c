package lifecycle

import (
	"sync"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/errors"
	"github.com/go-stagecraft/stagecraft/pkg/scheduler"
)

// Observer watches a document for structural mutations and turns them into
// show/hide transitions for registered elements. A single observer covers
// the whole document; containment is evaluated once per batch rather than
// tracking incremental structural deltas.
type Observer struct {
	loop     *scheduler.Loop
	registry *Registry

	mu        sync.Mutex
	doc       *dom.Document
	pending   bool
	observing bool
}

// NewObserver creates an observer draining batches on the given loop.
func NewObserver(loop *scheduler.Loop, registry *Registry) *Observer {
	return &Observer{loop: loop, registry: registry}
}

// Observe installs the observer on the document's mutation hook.
// Mutations arriving in the same turn are coalesced into one batch
// delivered on the next available turn.
func (o *Observer) Observe(doc *dom.Document) {
	o.mu.Lock()
	o.doc = doc
	o.observing = true
	o.mu.Unlock()
	doc.SetMutationObserver(o.scheduleBatch)
}

// scheduleBatch marks a batch pending and posts it to the loop. Further
// mutations before the batch runs are folded into it.
func (o *Observer) scheduleBatch() {
	o.mu.Lock()
	if !o.observing || o.pending {
		o.mu.Unlock()
		return
	}
	o.pending = true
	o.mu.Unlock()
	o.loop.Post(o.processBatch)
}

// processBatch purges dead registry entries and reconciles every surviving
// element's attachment against its tracked shown state. Transition errors
// have no caller to return to, so they are reported.
func (o *Observer) processBatch() {
	o.mu.Lock()
	o.pending = false
	doc := o.doc
	o.mu.Unlock()
	if doc == nil {
		return
	}

	for _, e := range o.registry.PurgeAndList() {
		rooted := doc.Contains(e.Node)
		shown := Shown(e.Node)
		switch {
		case rooted && !shown:
			if e.Show == nil {
				continue
			}
			if err := e.Show(e.Node); err != nil {
				o.report(e.Node, err)
			}
		case !rooted && shown:
			if e.Hide == nil {
				continue
			}
			if err := e.Hide(e.Node); err != nil {
				o.report(e.Node, err)
			}
		}
	}
}

func (o *Observer) report(n *dom.Node, err error) {
	kind := errors.KindOf(err)
	if kind == errors.KindUnknown {
		kind = errors.KindObserve
	}
	errors.Report(&errors.LifecycleError{
		Op:      "lifecycle.observe",
		Kind:    kind,
		Element: n.ID,
		Err:     err,
	})
}

// Teardown disconnects the observer. A pending, not-yet-delivered batch is
// drained on the loop before the hook is removed, so no attach or detach
// transition is silently lost. Must not be called from the loop goroutine.
func (o *Observer) Teardown() {
	o.mu.Lock()
	doc := o.doc
	o.observing = false
	o.mu.Unlock()
	if doc == nil {
		return
	}

	// Stop new batches first, then flush the one that may be in flight.
	doc.ClearMutationObserver()
	c := o.loop.Submit(func() error {
		o.mu.Lock()
		pending := o.pending
		o.mu.Unlock()
		if pending {
			o.processBatch()
		}
		return nil
	})
	<-c.Done()
}
