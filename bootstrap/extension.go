package bootstrap

import (
	"context"
	"sync"

	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/runtime"
)

// Extension plugs the runtime into a host's own lifecycle. The host calls
// Init, Start, Stop and Shutdown in that order; Start bootstraps the modules
// declared in the view.
type Extension struct {
	view config.View
	host factory.Host
	opts []Option
	log  *logger.Logger

	mu           sync.Mutex
	rt           *runtime.Runtime
	bootstrapper *Bootstrapper
}

// NewExtension creates an Extension. opts are passed to the Bootstrapper.
func NewExtension(view config.View, host factory.Host, opts ...Option) *Extension {
	log := resolveOptions(opts).logger
	if log == nil {
		log = logger.Get("bootstrap")
	}
	return &Extension{view: view, host: host, opts: opts, log: log}
}

// Init creates the runtime modules will be registered with.
func (e *Extension) Init(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.host == nil {
		return errors.InvalidConfig("bootstrap requires a host")
	}
	if e.rt == nil {
		e.rt = runtime.New(e.host.Name()).WithLogger(e.log.WithComponent("runtime"))
	}
	return nil
}

// Start bootstraps the declared modules. It returns once every module is
// registered; the runtime itself starts later, when the host is ready.
func (e *Extension) Start(ctx context.Context) error {
	if err := e.Init(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	if e.bootstrapper != nil {
		e.mu.Unlock()
		return errors.AlreadyBootstrapped()
	}
	b, err := New(e.view, e.host, e.rt, e.opts...)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.bootstrapper = b
	e.mu.Unlock()

	_, err = b.Run(ctx)
	return err
}

// Stop stops the runtime's components in reverse registration order.
func (e *Extension) Stop(ctx context.Context) error {
	e.mu.Lock()
	rt := e.rt
	e.mu.Unlock()
	if rt == nil {
		return nil
	}
	return rt.Stop(ctx)
}

// Shutdown releases the runtime. The Extension can not be started again.
func (e *Extension) Shutdown(ctx context.Context) error {
	err := e.Stop(ctx)
	e.log.Debug("bootstrap extension shut down")
	return err
}

// Runtime returns the runtime, or nil before Init.
func (e *Extension) Runtime() *runtime.Runtime {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rt
}

// Bootstrapper returns the Bootstrapper, or nil before Start.
func (e *Extension) Bootstrapper() *Bootstrapper {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bootstrapper
}
