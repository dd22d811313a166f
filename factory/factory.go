package factory

import (
	"context"
	"time"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/module"
)

// Host is the shared context handed to every factory: a handle to the
// service the runtime is embedded in.
type Host interface {
	// Name identifies the hosted service.
	Name() string
	// IsAvailable blocks for at most timeout and reports whether the
	// hosted service is usable.
	IsAvailable(ctx context.Context, timeout time.Duration) bool
}

// Factory builds the component of one declared module.
type Factory interface {
	// Build returns the component for module id. cfg holds the module's
	// scoped configuration. The component should be named id.
	Build(ctx context.Context, id string, cfg module.Scoped, host Host) (component.Component, error)
}

// Func adapts a function to the Factory interface.
type Func func(ctx context.Context, id string, cfg module.Scoped, host Host) (component.Component, error)

// Build calls f.
func (f Func) Build(ctx context.Context, id string, cfg module.Scoped, host Host) (component.Component, error) {
	return f(ctx, id, cfg, host)
}

// Constructor creates a Factory. It is called once per module declaration.
type Constructor func() (Factory, error)
