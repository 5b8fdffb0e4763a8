// Package prometheus provides Prometheus collectors for aegis metrics.
//
// [NewPrometheusExporter] accepts an [aegis.Engine] and exposes an [http.Handler]
// that renders all aegis counters in Prometheus text exposition format. Counter
// names are prefixed aegis_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
