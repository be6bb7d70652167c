package stagecraft

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-stagecraft/stagecraft/pkg/delegate"
	"github.com/go-stagecraft/stagecraft/pkg/dom"
	"github.com/go-stagecraft/stagecraft/pkg/lifecycle"
)

// ElementConfig describes a managed element. The declarative fields load
// from YAML; callbacks and listeners are code and attach after loading.
type ElementConfig struct {
	// Tag is the element's tag name. Defaults to "div".
	Tag string `yaml:"tag"`

	// ID identifies the element. When empty a random ID is assigned.
	ID string `yaml:"id"`

	Classes    []string          `yaml:"classes"`
	Styles     map[string]string `yaml:"styles"`
	Properties map[string]any    `yaml:"properties"`
	Text       string            `yaml:"text"`

	// Existing adopts an already-built node instead of creating one.
	Existing *dom.Node `yaml:"-"`

	Load   lifecycle.Callback `yaml:"-"`
	Show   lifecycle.Callback `yaml:"-"`
	Hide   lifecycle.Callback `yaml:"-"`
	Unload lifecycle.Callback `yaml:"-"`

	// ShowOnResume re-triggers show when the app returns to the resumed
	// state, until the element hides.
	ShowOnResume bool `yaml:"showOnResume"`

	// Listeners maps event name, then selector, to a delegated handler.
	// The empty selector targets the element itself.
	Listeners map[string]map[string]delegate.Handler `yaml:"-"`
}

// LoadElementConfig parses the declarative part of an element config from
// YAML. Callbacks and listeners are attached by the caller afterwards.
func LoadElementConfig(data []byte) (ElementConfig, error) {
	var cfg ElementConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ElementConfig{}, fmt.Errorf("parse element config: %w", err)
	}
	return cfg, nil
}
