// Package observability provides OpenTelemetry tracing and metrics for the
// modkit runtime.
//
// Tracing and metrics export over OTLP/HTTP:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "graph-host", version.Version, "production")
//	defer shutdown(ctx)
//
// Bootstrap instruments:
//
//	m, err := observability.NewBootstrapMetrics(observability.Meter(observability.InstrumentationName))
//	m.RecordRegistered(ctx, "acme.graph")
//
// Health:
//
//	health := observability.NewServiceHealth("graph-host", version.Version)
//	health.AddComponent(module.Health(ctx))
package observability
