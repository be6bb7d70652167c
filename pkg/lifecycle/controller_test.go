package lifecycle

import (
	stderrors "errors"
	"testing"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/errors"
	"github.com/go-stagecraft/stagecraft/pkg/platform"
	"github.com/go-stagecraft/stagecraft/pkg/scheduler"
)

// recordEvents subscribes to every lifecycle notification on the node and
// appends each one to the returned slice.
func recordEvents(n *dom.Node) *[]string {
	events := &[]string{}
	for _, name := range []string{
		EventLoading, EventLoaded, EventLoadError,
		EventShowing, EventShown, EventShowError,
		EventHidden, EventHideError,
	} {
		n.AddEventListener(name, func(evt *dom.Event) error {
			*events = append(*events, evt.Type)
			return nil
		})
	}
	return events
}

func newTestController() *Controller {
	return NewController(scheduler.NewLoop(), platform.NewAppLifecycle())
}

func TestController_ShowRunsLoadFirst(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	events := recordEvents(n)

	var order []string
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { order = append(order, "load"); return nil },
		Show: func(*dom.Node) error { order = append(order, "show"); return nil },
	})

	if err := c.Show(n, Options{}); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(order) != 2 || order[0] != "load" || order[1] != "show" {
		t.Errorf("expected load before show, got %v", order)
	}
	want := []string{EventShowing, EventLoading, EventLoaded, EventShown}
	if len(*events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, *events)
	}
	for i, name := range want {
		if (*events)[i] != name {
			t.Fatalf("expected events %v, got %v", want, *events)
		}
	}
	if !Shown(n) || !Loaded(n) {
		t.Errorf("expected element shown and loaded")
	}
}

func TestController_LoadOnlyOnce(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	loads := 0
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { loads++; return nil },
	})

	c.Show(n, Options{})
	c.Hide(n)
	c.Show(n, Options{})

	if loads != 1 {
		t.Errorf("expected load to run once across show cycles, got %d", loads)
	}
}

func TestController_ReloadForcesLoad(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	loads := 0
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { loads++; return nil },
	})

	c.Load(n, Options{})
	c.Load(n, Options{})
	c.Load(n, Options{Reload: true})

	if loads != 2 {
		t.Errorf("expected reload to run load again, got %d", loads)
	}
}

func TestController_LoadFailure(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	n.ID = "panel"
	events := recordEvents(n)
	cause := stderrors.New("network down")
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { return cause },
	})

	err := c.Load(n, Options{})
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected the cause in the error chain, got %v", err)
	}
	var le *errors.LoadError
	if !stderrors.As(err, &le) || le.Element != "panel" {
		t.Errorf("expected a load error naming the element, got %v", err)
	}
	if Loaded(n) {
		t.Errorf("failed load must not mark the element loaded")
	}
	want := []string{EventLoading, EventLoadError}
	if len(*events) != 2 || (*events)[0] != want[0] || (*events)[1] != want[1] {
		t.Errorf("expected events %v, got %v", want, *events)
	}

	// A later load may retry.
	c.Bind(n, Bindings{Load: func(*dom.Node) error { return nil }})
	if err := c.Load(n, Options{}); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestController_ShowFailureFromLoad(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	events := recordEvents(n)
	cause := stderrors.New("network down")
	showRan := false
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { return cause },
		Show: func(*dom.Node) error { showRan = true; return nil },
	})

	err := c.Show(n, Options{})
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected the cause in the error chain, got %v", err)
	}
	var se *errors.ShowError
	if !stderrors.As(err, &se) {
		t.Errorf("expected a show error wrapper, got %v", err)
	}
	var le *errors.LoadError
	if !stderrors.As(err, &le) {
		t.Errorf("expected the load error inside the show error, got %v", err)
	}
	if showRan {
		t.Errorf("show callback must not run when load fails")
	}
	if Shown(n) {
		t.Errorf("failed show must leave the element not shown")
	}
	last := (*events)[len(*events)-1]
	if last != EventShowError {
		t.Errorf("expected showError last, got %v", *events)
	}
}

func TestController_ShowFailureAllowsRetry(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	attempts := 0
	c.Bind(n, Bindings{
		Show: func(*dom.Node) error {
			attempts++
			if attempts == 1 {
				return stderrors.New("first attempt fails")
			}
			return nil
		},
	})

	if err := c.Show(n, Options{}); err == nil {
		t.Fatalf("expected first show to fail")
	}
	if err := c.Show(n, Options{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected two attempts, got %d", attempts)
	}
	if !Shown(n) {
		t.Errorf("expected element shown after retry")
	}
}

func TestController_ShowPendingBlocksReentry(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	shows := 0
	c.Bind(n, Bindings{
		Show: func(el *dom.Node) error {
			shows++
			// Re-entrant show while pending must be a no-op.
			return c.Show(el, Options{})
		},
	})

	if err := c.Show(n, Options{}); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if shows != 1 {
		t.Errorf("expected a single show, got %d", shows)
	}
}

func TestController_HideNoopWhenNotShown(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	hides := 0
	c.Bind(n, Bindings{
		Hide: func(*dom.Node) error { hides++; return nil },
	})

	if err := c.Hide(n); err != nil {
		t.Fatalf("Hide: %v", err)
	}
	if hides != 0 {
		t.Errorf("hide must not run for an element that is not shown")
	}
}

func TestController_HideRunsUnloadThenHide(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	events := recordEvents(n)

	var order []string
	c.Bind(n, Bindings{
		Show:   func(*dom.Node) error { return nil },
		Unload: func(*dom.Node) error { order = append(order, "unload"); return nil },
		Hide:   func(*dom.Node) error { order = append(order, "hide"); return nil },
	})
	c.Show(n, Options{})

	if err := c.Hide(n); err != nil {
		t.Fatalf("Hide: %v", err)
	}
	if len(order) != 2 || order[0] != "unload" || order[1] != "hide" {
		t.Errorf("expected unload before hide, got %v", order)
	}
	if Shown(n) {
		t.Errorf("expected element hidden")
	}
	last := (*events)[len(*events)-1]
	if last != EventHidden {
		t.Errorf("expected hidden last, got %v", *events)
	}
}

func TestController_HiddenListenerSeesClearedState(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	c.Bind(n, Bindings{})
	c.Show(n, Options{})

	checked := false
	n.AddEventListener(EventHidden, func(*dom.Event) error {
		checked = true
		if Shown(n) {
			t.Errorf("hidden listener must observe the element already not shown")
		}
		return nil
	})

	if err := c.Hide(n); err != nil {
		t.Fatalf("Hide: %v", err)
	}
	if !checked {
		t.Fatalf("hidden listener did not run")
	}
}

func TestController_HideFailureKeepsShown(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	events := recordEvents(n)
	cause := stderrors.New("cleanup failed")
	c.Bind(n, Bindings{
		Hide: func(*dom.Node) error { return cause },
	})
	c.Show(n, Options{})

	err := c.Hide(n)
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected the cause in the error chain, got %v", err)
	}
	var he *errors.HideError
	if !stderrors.As(err, &he) {
		t.Errorf("expected a hide error wrapper, got %v", err)
	}
	if !Shown(n) {
		t.Errorf("failed hide must leave the element shown")
	}
	last := (*events)[len(*events)-1]
	if last != EventHideError {
		t.Errorf("expected hideError last, got %v", *events)
	}

	// The pending flag was reset, so hide can be retried.
	c.Bind(n, Bindings{Hide: func(*dom.Node) error { return nil }})
	if err := c.Hide(n); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestController_UnloadFailureSkipsHideCallback(t *testing.T) {
	c := newTestController()
	n := dom.NewNode("div")
	hideRan := false
	c.Bind(n, Bindings{
		Unload: func(*dom.Node) error { return stderrors.New("unload failed") },
		Hide:   func(*dom.Node) error { hideRan = true; return nil },
	})
	c.Show(n, Options{})

	if err := c.Hide(n); err == nil {
		t.Fatalf("expected hide to fail")
	}
	if hideRan {
		t.Errorf("hide callback must not run after a failed unload")
	}
}

func TestController_TriggerShowDefers(t *testing.T) {
	loop := scheduler.NewLoop()
	loop.Start()
	defer loop.Stop()
	c := NewController(loop, platform.NewAppLifecycle())

	n := dom.NewNode("div")
	c.Bind(n, Bindings{})

	comp := c.TriggerShow(n, Options{})
	if err := comp.Err(); err != nil {
		t.Fatalf("TriggerShow: %v", err)
	}
	if !Shown(n) {
		t.Errorf("expected element shown after the trigger turn")
	}
}

func TestController_TriggerShowPropagatesFailure(t *testing.T) {
	loop := scheduler.NewLoop()
	loop.Start()
	defer loop.Stop()
	c := NewController(loop, platform.NewAppLifecycle())

	cause := stderrors.New("network down")
	n := dom.NewNode("div")
	c.Bind(n, Bindings{
		Load: func(*dom.Node) error { return cause },
	})

	if err := c.TriggerShow(n, Options{}).Err(); !stderrors.Is(err, cause) {
		t.Errorf("expected the cause from the completion, got %v", err)
	}
}

func TestController_ShowOnResume(t *testing.T) {
	loop := scheduler.NewLoop()
	loop.Start()
	defer loop.Stop()
	life := platform.NewAppLifecycle()
	c := NewController(loop, life)

	n := dom.NewNode("div")
	shows := 0
	c.Bind(n, Bindings{
		Show:         func(*dom.Node) error { shows++; return nil },
		ShowOnResume: true,
	})
	loop.Submit(func() error { return c.Show(n, Options{}) }).Err()

	// Simulate the app going to background and back. The resume show is
	// a no-op while still shown, so hide first.
	loop.Submit(func() error { return c.Hide(n) }).Err()
	life.SetState(platform.StatePaused)
	life.SetState(platform.StateResumed)
	if err := loop.Settle(); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	// Hide removed the subscription, so this resume must not show again.
	if shows != 1 {
		t.Errorf("expected hide to remove the resume subscription, got %d shows", shows)
	}

	// Rebinding restores the subscription.
	c.Bind(n, Bindings{
		Show:         func(*dom.Node) error { shows++; return nil },
		ShowOnResume: true,
	})
	life.SetState(platform.StatePaused)
	life.SetState(platform.StateResumed)
	if err := loop.Settle(); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if shows != 2 {
		t.Errorf("expected resume to show after rebinding, got %d shows", shows)
	}
}

func TestController_RebindDoesNotStackResumeHandlers(t *testing.T) {
	loop := scheduler.NewLoop()
	loop.Start()
	defer loop.Stop()
	life := platform.NewAppLifecycle()
	c := NewController(loop, life)

	n := dom.NewNode("div")
	shows := 0
	b := Bindings{
		Show:         func(*dom.Node) error { shows++; return nil },
		ShowOnResume: true,
	}
	c.Bind(n, b)
	c.Bind(n, b)
	c.Bind(n, b)

	life.SetState(platform.StatePaused)
	life.SetState(platform.StateResumed)
	if err := loop.Settle(); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if shows != 1 {
		t.Errorf("expected one show despite repeated binds, got %d", shows)
	}
}

func TestController_NotifyListenerErrorDoesNotAbortTransition(t *testing.T) {
	h := &captureHandler{}
	errors.SetHandler(h)
	defer errors.SetHandler(nil)

	c := newTestController()
	n := dom.NewNode("div")
	n.AddEventListener(EventShowing, func(*dom.Event) error {
		return stderrors.New("listener broke")
	})
	c.Bind(n, Bindings{})

	if err := c.Show(n, Options{}); err != nil {
		t.Fatalf("listener failure must not fail the transition: %v", err)
	}
	if !Shown(n) {
		t.Errorf("expected element shown")
	}
	if len(h.errs) != 1 || h.errs[0].Kind != errors.KindDispatch {
		t.Errorf("expected one reported dispatch error, got %+v", h.errs)
	}
}

// captureHandler collects reported errors for assertions.
type captureHandler struct {
	errs   []*errors.LifecycleError
	panics []*errors.PanicError
}

func (h *captureHandler) HandleError(err *errors.LifecycleError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *errors.PanicError)     { h.panics = append(h.panics, err) }
