package component

import (
	"context"
	"sync"
)

// Funcs adapts plain functions to the Component interface. Nil functions are
// no-ops; a nil HealthFunc reports healthy while started and unhealthy otherwise.
type Funcs struct {
	ComponentName string
	StartFunc     func(ctx context.Context) error
	StopFunc      func(ctx context.Context) error
	HealthFunc    func(ctx context.Context) Health
	Description   *Description

	mu      sync.RWMutex
	started bool
}

// NewFuncs creates a Funcs component with the given start and stop functions.
func NewFuncs(name string, start, stop func(context.Context) error) *Funcs {
	return &Funcs{ComponentName: name, StartFunc: start, StopFunc: stop}
}

// Name returns the component name.
func (f *Funcs) Name() string { return f.ComponentName }

// Start runs StartFunc and marks the component started on success.
func (f *Funcs) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.StartFunc != nil {
		if err := f.StartFunc(ctx); err != nil {
			return err
		}
	}
	f.started = true
	return nil
}

// Stop runs StopFunc if the component was started.
func (f *Funcs) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return nil
	}
	f.started = false
	if f.StopFunc != nil {
		return f.StopFunc(ctx)
	}
	return nil
}

// Health runs HealthFunc, or reports the started state.
func (f *Funcs) Health(ctx context.Context) Health {
	if f.HealthFunc != nil {
		return f.HealthFunc(ctx)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.started {
		return Health{Name: f.ComponentName, Status: StatusHealthy}
	}
	return Health{Name: f.ComponentName, Status: StatusUnhealthy, Message: "not started"}
}

// Describe returns the configured Description.
func (f *Funcs) Describe() Description {
	if f.Description != nil {
		return *f.Description
	}
	return Description{Name: f.ComponentName}
}
