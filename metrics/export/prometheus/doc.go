// Package prometheus provides Prometheus collectors for goCred metrics.
//
// [NewPrometheusExporter] accepts a [goCred.Engine] and exposes an [http.Handler]
// that renders all goCred counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gocred_*_total; the single histogram is
// gocred_hash_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry (callers mount the Handler).
//   - Mutate engine state.
package prometheus
