package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
)

// Outcome is the result of building one declared module.
type Outcome struct {
	Descriptor module.Descriptor
	Component  component.Component
	Err        error
	Duration   time.Duration
}

// Registered reports whether the outcome carries a component and no error.
func (o Outcome) Registered() bool { return o.Err == nil && o.Component != nil }

// Failed reports whether building or registering the module failed.
func (o Outcome) Failed() bool { return !o.Registered() }

// Reason returns a human-readable failure reason, or "" on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

type invokeOptions struct {
	log *logger.Logger
}

// InvokeOption configures Invoke.
type InvokeOption func(*invokeOptions)

// WithLogger sets the logger Invoke reports to.
func WithLogger(l *logger.Logger) InvokeOption {
	return func(o *invokeOptions) { o.log = l }
}

// Invoke resolves the factory named by desc, constructs it and builds the
// module's component. Every failure, including a panic in the constructor
// or in Build, is returned in the Outcome; Invoke itself never fails.
func Invoke(ctx context.Context, reg *Registry, desc module.Descriptor, cfg module.Scoped, host Host, opts ...InvokeOption) Outcome {
	o := invokeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("factory")
	}

	fields := logger.Fields(
		logger.FieldModuleID, desc.ID,
		logger.FieldOrder, desc.Order,
		logger.FieldFactory, desc.FactoryRef,
	)
	o.log.Info("bootstrapping module", fields)

	start := time.Now()
	comp, err := build(ctx, reg, desc, cfg, host)
	out := Outcome{Descriptor: desc, Component: comp, Err: err, Duration: time.Since(start)}
	if err != nil {
		out.Component = nil
		o.log.Error("module failed to bootstrap", logger.MergeWithError(
			logger.MergeWithDuration(fields, out.Duration), err))
	}
	return out
}

func build(ctx context.Context, reg *Registry, desc module.Descriptor, cfg module.Scoped, host Host) (component.Component, error) {
	ctor, ok := reg.Lookup(desc.FactoryRef)
	if !ok {
		return nil, errors.FactoryNotFound(desc.FactoryRef).WithDetail("module_id", desc.ID)
	}

	f, err := construct(ctor)
	if err != nil {
		return nil, errors.FactoryConstruction(desc.FactoryRef, err).WithDetail("module_id", desc.ID)
	}

	comp, err := buildComponent(ctx, f, desc.ID, cfg, host)
	if err != nil {
		return nil, errors.ModuleBuild(desc.ID, desc.FactoryRef, err)
	}
	if comp == nil {
		return nil, errors.ModuleBuild(desc.ID, desc.FactoryRef, fmt.Errorf("factory returned no component"))
	}
	return comp, nil
}

func construct(ctor Constructor) (f Factory, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	f, err = ctor()
	if err == nil && f == nil {
		err = fmt.Errorf("constructor returned no factory")
	}
	return f, err
}

func buildComponent(ctx context.Context, f Factory, id string, cfg module.Scoped, host Host) (c component.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return f.Build(ctx, id, cfg, host)
}
