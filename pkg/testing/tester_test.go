package testing

import (
	"testing"

	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/lifecycle"
	"github.com/go-stagecraft/stagecraft/pkg/stagecraft"
)

func TestElementTester_AttachDetach(t *testing.T) {
	et := NewElementTester(t)

	n := et.CreateElement(stagecraft.ElementConfig{})
	et.Attach(n)
	if !lifecycle.Shown(n) {
		t.Errorf("expected element shown after Attach")
	}
	if n.Parent() != et.Root() {
		t.Errorf("expected element attached under the root")
	}

	et.Detach(n)
	if lifecycle.Shown(n) {
		t.Errorf("expected element hidden after Detach")
	}
	if n.Parent() != nil {
		t.Errorf("expected element detached")
	}
}

func TestElementTester_Click(t *testing.T) {
	et := NewElementTester(t)

	clicks := 0
	n := et.CreateElement(stagecraft.ElementConfig{})
	n.AddEventListener("click", func(*dom.Event) error {
		clicks++
		return nil
	})

	if err := et.Click(n); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if clicks != 1 {
		t.Errorf("expected one click, got %d", clicks)
	}
}
