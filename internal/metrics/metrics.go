// Package metrics is a small, backend-agnostic abstraction for recording
// operational counters from the ingestion pipeline and the API.
//
// A global, pluggable backend defaults to a no-op implementation, so metric
// calls are always safe even when nothing is configured. Concrete systems
// (Prometheus Pushgateway) live in subpackages and are selected by the
// binaries at startup.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes metrics if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordRows increments the row-outcome counter for one sheet. Kinds mirror
// the ingestion report fields: "accepted", "duplicate", "invalid", "failed".
func RecordRows(sheet, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ingest_rows_total", float64(delta), Labels{
		"sheet": sheet,
		"kind":  kind,
	})
}

// RecordRequest records one API request's outcome and latency.
func RecordRequest(route, status string, d time.Duration) {
	lbls := Labels{"route": route, "status": status}
	backend.IncCounter("api_requests_total", 1, lbls)
	backend.ObserveHistogram("api_request_duration_seconds", d.Seconds(), lbls)
}
