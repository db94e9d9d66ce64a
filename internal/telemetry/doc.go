// Package telemetry provides HTTP metrics and tracing middleware.
//
// Metrics are Prometheus collectors registered on a caller-supplied
// registry:
//
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", telemetry.Handler(reg))
//
// Tracing uses the global OpenTelemetry tracer provider. Configure it in
// main before starting the server; with no provider installed spans are
// no-ops.
package telemetry
