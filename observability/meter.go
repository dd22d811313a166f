package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/modkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		logger.FieldService, config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricModulesRegistered = "modkit.modules.registered"
	MetricModulesFailed     = "modkit.modules.failed"
	MetricResolutionTies    = "modkit.resolution.ties"
	MetricReadinessWait     = "modkit.readiness.wait"
)

// BootstrapMetrics holds the instruments recorded during a bootstrap run.
type BootstrapMetrics struct {
	registered    metric.Int64Counter
	failed        metric.Int64Counter
	ties          metric.Int64Counter
	readinessWait metric.Float64Histogram
}

// NewBootstrapMetrics creates the bootstrap instruments on meter.
func NewBootstrapMetrics(meter metric.Meter) (*BootstrapMetrics, error) {
	registered, err := meter.Int64Counter(MetricModulesRegistered,
		metric.WithDescription("Modules built and registered with the runtime"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricModulesRegistered, err)
	}

	failed, err := meter.Int64Counter(MetricModulesFailed,
		metric.WithDescription("Modules that failed to build or register"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricModulesFailed, err)
	}

	ties, err := meter.Int64Counter(MetricResolutionTies,
		metric.WithDescription("Order values declared by more than one module"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolutionTies, err)
	}

	readinessWait, err := meter.Float64Histogram(MetricReadinessWait,
		metric.WithDescription("Time spent waiting for the host to become ready"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricReadinessWait, err)
	}

	return &BootstrapMetrics{
		registered:    registered,
		failed:        failed,
		ties:          ties,
		readinessWait: readinessWait,
	}, nil
}

// RecordRegistered counts one registered module.
func (m *BootstrapMetrics) RecordRegistered(ctx context.Context, factory string) {
	m.registered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("factory", factory),
	))
}

// RecordFailed counts one failed module by error code.
func (m *BootstrapMetrics) RecordFailed(ctx context.Context, factory, code string) {
	m.failed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("factory", factory),
		attribute.String("code", code),
	))
}

// RecordTies counts clashing order values.
func (m *BootstrapMetrics) RecordTies(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	m.ties.Add(ctx, int64(n))
}

// RecordReadinessWait records how long the readiness wait took and how it ended.
func (m *BootstrapMetrics) RecordReadinessWait(ctx context.Context, d time.Duration, outcome string) {
	m.readinessWait.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
