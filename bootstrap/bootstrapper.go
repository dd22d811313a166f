package bootstrap

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/module"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/readiness"
	"github.com/kbukum/modkit/util"
)

// Registrar accepts built components.
type Registrar interface {
	Register(c component.Component) error
}

// Starter starts everything registered so far.
type Starter interface {
	Start(ctx context.Context) error
}

// Target is the runtime modules are registered with and started on.
// *runtime.Runtime implements it.
type Target interface {
	Registrar
	Starter
}

// Result is the final outcome of a run, available once Done is closed.
type Result struct {
	State State
	Err   error
}

// Bootstrapper discovers the modules declared in a config.View, registers
// them with a Target and starts the Target once the host is ready.
// A Bootstrapper runs at most once.
type Bootstrapper struct {
	view     config.View
	host     factory.Host
	target   Target
	settings Settings
	pattern  *module.Pattern
	opts     *options
	log      *logger.Logger
	tracer   trace.Tracer
	metrics  *observability.BootstrapMetrics

	ran  atomic.Bool
	done chan struct{}

	mu          sync.RWMutex
	state       State
	result      Result
	report      *Report
	runID       string
	onStarted   []Hook
	onAbandoned []Hook
}

// New creates a Bootstrapper over view. Settings are validated here; an
// unusable namespace or interval yields an INVALID_CONFIG error.
func New(view config.View, host factory.Host, target Target, opts ...Option) (*Bootstrapper, error) {
	if host == nil {
		return nil, errors.InvalidConfig("bootstrap requires a host")
	}
	if target == nil {
		return nil, errors.InvalidConfig("bootstrap requires a target runtime")
	}

	o := resolveOptions(opts)
	settings := DefaultSettings()
	if o.settings != nil {
		settings = *o.settings
		settings.ApplyDefaults()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	pattern, err := module.NewPattern(settings.Namespace)
	if err != nil {
		return nil, err
	}
	pattern = pattern.WithEnabledKey(settings.EnabledKey)

	b := &Bootstrapper{
		view:     view,
		host:     host,
		target:   target,
		settings: settings,
		pattern:  pattern,
		opts:     o,
		log:      o.logger,
		tracer:   o.tracer,
		metrics:  o.metrics,
		done:     make(chan struct{}),
		state:    StateIdle,
	}
	if b.log == nil {
		b.log = logger.Get("bootstrap")
	}
	if b.tracer == nil {
		b.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if b.metrics == nil {
		m, err := observability.NewBootstrapMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			b.log.Warn("bootstrap metrics disabled", logger.MergeWithError(nil, err))
		}
		b.metrics = m
	}
	if o.factories == nil {
		o.factories = factory.Default
	}
	if o.readiness == nil {
		o.readiness = readiness.PredicateFunc(host.IsAvailable)
	}
	return b, nil
}

// Settings returns the validated settings the Bootstrapper runs with.
func (b *Bootstrapper) Settings() Settings { return b.settings }

// Run performs the bootstrap. It resolves the declared modules, builds and
// registers each one in ascending order, then returns while a background
// goroutine waits for the host and starts the target. Failures of single
// modules are reported in the Report, never returned. Only a repeated Run
// returns an error.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	if !b.ran.CompareAndSwap(false, true) {
		return nil, errors.AlreadyBootstrapped()
	}

	runID := uuid.NewString()
	log := b.log.WithFields(logger.Fields(logger.FieldRunID, runID))
	ctx, span := b.tracer.Start(ctx, observability.SpanBootstrap, trace.WithAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.String(observability.AttrNamespace, b.settings.Namespace),
	))
	defer span.End()

	report := &Report{
		RunID:       runID,
		Namespace:   b.settings.Namespace,
		Descriptors: []module.Descriptor{},
		Modules:     []ModuleStatus{},
		StartedAt:   time.Now(),
	}
	b.mu.Lock()
	b.runID = runID
	b.mu.Unlock()

	if !b.view.Bool(b.settings.EnabledKey) {
		log.Info("runtime disabled", logger.Fields("key", b.settings.EnabledKey))
		report.Disabled = true
		report.Duration = time.Since(report.StartedAt)
		span.SetAttributes(attribute.String(observability.AttrState, StateDisabled.String()))
		b.mu.Lock()
		b.report = report
		b.mu.Unlock()
		b.finish(ctx, log, Result{State: StateDisabled}, nil)
		return report, nil
	}

	log.Info("runtime enabled, bootstrapping", logger.Fields("namespace", b.settings.Namespace))
	b.setState(StateResolving)
	res := module.NewResolver(b.pattern, module.WithLogger(log)).ResolveDetailed(b.view)
	report.Descriptors = res.Descriptors
	report.Ties = res.Ties
	if b.metrics != nil {
		b.metrics.RecordTies(ctx, len(res.Ties))
	}

	b.setState(StateRegistering)
	for _, desc := range res.Descriptors {
		report.track(b.register(ctx, log, desc))
	}
	report.Duration = time.Since(report.StartedAt)
	report.LogSummary(log)

	b.mu.Lock()
	b.report = report
	b.state = StateAwaitingReadiness
	b.mu.Unlock()
	span.SetAttributes(attribute.String(observability.AttrState, StateAwaitingReadiness.String()))
	log.Info("runtime bootstrapped, starting")

	bg := context.WithoutCancel(ctx)
	if b.opts.cancelable {
		bg = ctx
	}
	go b.awaitReadiness(bg, log)
	return report, nil
}

// register builds one module and hands its component to the target.
func (b *Bootstrapper) register(ctx context.Context, log *logger.Logger, desc module.Descriptor) factory.Outcome {
	ctx, span := b.tracer.Start(ctx, observability.SpanModuleBuild, trace.WithAttributes(
		attribute.String(observability.AttrModuleID, desc.ID),
		attribute.Int(observability.AttrOrder, desc.Order),
		attribute.String(observability.AttrFactory, desc.FactoryRef),
	))
	defer span.End()

	scoped := b.pattern.Scope(b.view, desc.ID)
	log.Debug("module config", logger.Fields(
		logger.FieldModuleID, desc.ID,
		"config", util.MaskValues(scoped.Map()),
	))
	out := factory.Invoke(ctx, b.opts.factories, desc, scoped, b.host, factory.WithLogger(log))
	if out.Err == nil {
		if err := b.target.Register(out.Component); err != nil {
			out.Err = errors.ModuleRegistration(desc.ID, err)
			out.Component = nil
			log.Error("module failed to register", logger.MergeWithError(logger.Fields(
				logger.FieldModuleID, desc.ID,
				logger.FieldFactory, desc.FactoryRef,
			), out.Err))
		}
	}

	if out.Err != nil {
		code := errors.ErrCodeInternal
		if appErr, ok := errors.AsAppError(out.Err); ok {
			code = appErr.Code
		}
		observability.SetSpanError(span, out.Err)
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(code)))
		if b.metrics != nil {
			b.metrics.RecordFailed(ctx, desc.FactoryRef, string(code))
		}
		return out
	}

	log.Debug("module registered", logger.MergeWithDuration(logger.Fields(
		logger.FieldModuleID, desc.ID,
		logger.FieldOrder, desc.Order,
	), out.Duration))
	if b.metrics != nil {
		b.metrics.RecordRegistered(ctx, desc.FactoryRef)
	}
	return out
}

// awaitReadiness runs on its own goroutine and ends the run.
func (b *Bootstrapper) awaitReadiness(ctx context.Context, log *logger.Logger) {
	ctx, span := b.tracer.Start(ctx, observability.SpanReadiness)
	defer span.End()

	poller := readiness.NewPoller(b.settings.ReadinessTimeout, b.settings.PollInterval, b.settings.MaxPollInterval).
		WithLogger(log)
	res, err := poller.Wait(ctx, b.opts.readiness)

	outcome := "ready"
	switch {
	case err != nil && ctx.Err() != nil:
		outcome = "canceled"
	case err != nil:
		outcome = "timeout"
	}
	if b.metrics != nil {
		b.metrics.RecordReadinessWait(ctx, res.Elapsed, outcome)
	}
	span.SetAttributes(attribute.Int("modkit.readiness.attempts", res.Attempts))

	if err == nil {
		if startErr := b.target.Start(ctx); startErr != nil {
			err = startErr
			if !errors.IsCode(startErr, errors.ErrCodeRuntimeStart) {
				err = errors.RuntimeStart(startErr)
			}
		}
	}
	if err != nil {
		observability.SetSpanError(span, err)
		log.Error("could not start runtime", logger.MergeWithError(
			logger.Fields(logger.FieldState, StateAbandoned.String()), err))
		b.finish(ctx, log, Result{State: StateAbandoned, Err: err}, b.hooks(StateAbandoned))
		return
	}

	log.Info("runtime automatically started", logger.MergeWithDuration(
		logger.Fields("attempts", res.Attempts), res.Elapsed))
	b.finish(ctx, log, Result{State: StateStarted}, b.hooks(StateStarted))
}

func (b *Bootstrapper) hooks(s State) []Hook {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if s == StateStarted {
		return append([]Hook(nil), b.onStarted...)
	}
	return append([]Hook(nil), b.onAbandoned...)
}

// finish records the terminal result, runs hooks and closes Done.
func (b *Bootstrapper) finish(ctx context.Context, log *logger.Logger, res Result, hooks []Hook) {
	b.mu.Lock()
	b.state = res.State
	b.result = res
	b.mu.Unlock()

	runHooks(ctx, log, hooks)
	close(b.done)
}

func (b *Bootstrapper) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// State returns the current state of the run.
func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Done is closed once the run reached a terminal state and its hooks ran.
func (b *Bootstrapper) Done() <-chan struct{} {
	return b.done
}

// Result returns the outcome of the run. Before Done is closed it carries
// the current state and no error.
func (b *Bootstrapper) Result() Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state.Terminal() {
		return b.result
	}
	return Result{State: b.state}
}

// Wait blocks until the run ends or ctx is done.
func (b *Bootstrapper) Wait(ctx context.Context) (Result, error) {
	select {
	case <-b.done:
		return b.Result(), nil
	case <-ctx.Done():
		return b.Result(), ctx.Err()
	}
}

// Report returns the report of the run, or nil before registration ended.
func (b *Bootstrapper) Report() *Report {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.report
}

// RunID returns the identifier of the run, or "" before Run.
func (b *Bootstrapper) RunID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.runID
}
