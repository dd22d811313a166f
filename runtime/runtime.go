package runtime

import (
	"context"
	"sync"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
)

// State is the lifecycle state of a Runtime.
type State string

const (
	StateCreated State = "created"
	StateStarted State = "started"
	StateStopped State = "stopped"
	StateFailed  State = "failed"
)

// Runtime owns every registered module for its lifetime. Modules are started
// together, in registration order, once the host is ready.
type Runtime struct {
	name     string
	registry *component.Registry
	log      *logger.Logger

	mu    sync.RWMutex
	state State
}

// New creates an empty Runtime.
func New(name string) *Runtime {
	log := logger.WithComponent("runtime")
	reg := component.NewRegistry()
	reg.SetLogger(log)
	return &Runtime{
		name:     name,
		registry: reg,
		log:      log,
		state:    StateCreated,
	}
}

// WithLogger replaces the runtime's logger.
func (r *Runtime) WithLogger(l *logger.Logger) *Runtime {
	r.log = l
	r.registry.SetLogger(l)
	return r
}

// Name returns the runtime name.
func (r *Runtime) Name() string { return r.name }

// Register hands c to the runtime. Names must be unique.
func (r *Runtime) Register(c component.Component) error {
	return r.registry.Register(c)
}

// Start starts every registered module in registration order.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateStarted {
		return nil
	}
	if err := r.registry.StartAll(ctx); err != nil {
		r.state = StateFailed
		return errors.RuntimeStart(err)
	}
	r.state = StateStarted
	return nil
}

// Stop stops started modules in reverse registration order.
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateCreated || r.state == StateStopped {
		return nil
	}
	err := r.registry.StopAll(ctx)
	r.state = StateStopped
	return err
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// IsStarted reports whether Start succeeded and Stop has not been called since.
func (r *Runtime) IsStarted() bool {
	return r.State() == StateStarted
}

// Components returns the registered modules in registration order.
func (r *Runtime) Components() []component.Component {
	return r.registry.All()
}

// Get returns the registered module named name, or nil.
func (r *Runtime) Get(name string) component.Component {
	return r.registry.Get(name)
}

// Len returns the number of registered modules.
func (r *Runtime) Len() int {
	return r.registry.Len()
}

// Health returns the health of every registered module.
func (r *Runtime) Health(ctx context.Context) []component.Health {
	return r.registry.HealthAll(ctx)
}
