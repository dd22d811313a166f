package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/module"
)

var _ factory.Factory = (*Factory)(nil)

// Factory builds a Component per module and records the order of builds
// and each module's scoped configuration.
type Factory struct {
	mu         sync.Mutex
	built      []string
	scopes     map[string]map[string]string
	components map[string]*Component
}

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{
		scopes:     make(map[string]map[string]string),
		components: make(map[string]*Component),
	}
}

// Build returns a new Component named id.
func (f *Factory) Build(_ context.Context, id string, cfg module.Scoped, _ factory.Host) (component.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := NewComponent(id)
	f.built = append(f.built, id)
	f.scopes[id] = cfg.Map()
	f.components[id] = c
	return c, nil
}

// Built returns the module IDs in build order.
func (f *Factory) Built() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.built)
}

// Scope returns the configuration module id was last built with.
func (f *Factory) Scope(id string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scopes[id]
}

// Component returns the component last built for id.
func (f *Factory) Component(id string) *Component {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.components[id]
}
