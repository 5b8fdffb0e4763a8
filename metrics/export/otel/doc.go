// Package otel provides OpenTelemetry metric exporter bindings for aegis counters.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each aegis
// metric. A single callback reads [aegis.Engine.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
