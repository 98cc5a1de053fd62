// Package otel bridges goBlog client metrics to OpenTelemetry.
//
// [NewExporter] registers one Int64ObservableCounter per client counter and
// an Int64ObservableGauge per latency bucket. A single callback reads the
// client snapshot on each collection. Callers own the MeterProvider.
package otel
