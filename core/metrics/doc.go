// Package metrics defines the sinks that observe generation runs, catalog
// scans and enrollment actions. Sinks are built from configuration through a
// factory registry; infra/metrics registers the Prometheus and InfluxDB
// implementations. Several configured sinks are combined in a MultiSink.
package metrics
