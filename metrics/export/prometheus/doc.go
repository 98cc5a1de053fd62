// Package prometheus exposes goBlog client metrics as a Prometheus
// collector.
//
// [Exporter] implements prometheus.Collector. Counters are named
// goblog_*_total; the resolve latency histogram is
// goblog_resolve_latency_seconds. Callers register it on their own registry
// or mount [Exporter.Handler], which uses a private one.
package prometheus
