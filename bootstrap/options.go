package bootstrap

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/factory"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
	"github.com/kbukum/modkit/readiness"
)

// Settings configures a bootstrap run. It is the runtime block of the
// service configuration.
type Settings = config.RuntimeConfig

// DefaultSettings returns Settings with every default applied.
func DefaultSettings() Settings {
	return config.DefaultRuntimeConfig()
}

// Option configures a Bootstrapper or an Extension.
type Option func(*options)

// options collects all option values before applying them.
type options struct {
	settings   *Settings
	logger     *logger.Logger
	factories  *factory.Registry
	readiness  readiness.Predicate
	tracer     trace.Tracer
	metrics    *observability.BootstrapMetrics
	cancelable bool
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSettings sets the bootstrap settings. Unset fields get their defaults.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFactories sets the factory registry modules are built from.
// Defaults to factory.Default.
func WithFactories(r *factory.Registry) Option {
	return func(o *options) {
		o.factories = r
	}
}

// WithReadiness overrides the readiness check. Defaults to the host's
// IsAvailable.
func WithReadiness(p readiness.Predicate) Option {
	return func(o *options) {
		o.readiness = p
	}
}

// WithTracer sets the tracer bootstrap spans are recorded with.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithMetrics sets the instruments bootstrap metrics are recorded with.
func WithMetrics(m *observability.BootstrapMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithCancelableReadiness ties the readiness wait to the context passed to
// Run. By default the wait outlives that context and ends only on readiness
// or timeout.
func WithCancelableReadiness() Option {
	return func(o *options) {
		o.cancelable = true
	}
}
