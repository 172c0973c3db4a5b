// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. All Prometheus-specific dependencies are contained here
// so the rest of the codebase stays decoupled from the metric system.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Dotunbey/feedback-os/internal/metrics"
)

// Backend pushes collected metrics to a Prometheus Pushgateway instead of
// exposing a scrape endpoint; ingestion runs are short-lived processes.
type Backend struct {
	pusher *push.Pusher
	reg    *prometheus.Registry

	rowCounter  *prometheus.CounterVec // ingest_rows_total
	reqCounter  *prometheus.CounterVec // api_requests_total
	reqDuration *prometheus.SummaryVec // api_request_duration_seconds
}

// NewBackend constructs a Pushgateway backend grouped under jobName.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "feedbackos"
	}

	reg := prometheus.NewRegistry()

	rowCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Row outcomes per sheet and kind.",
	}, []string{"sheet", "kind"})

	reqCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "API requests by route and status.",
	}, []string{"route", "status"})

	reqDuration := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "api_request_duration_seconds",
		Help: "API request latency by route and status.",
	}, []string{"route", "status"})

	reg.MustRegister(rowCounter, reqCounter, reqDuration)

	return &Backend{
		pusher:      push.New(gatewayURL, jobName).Gatherer(reg),
		reg:         reg,
		rowCounter:  rowCounter,
		reqCounter:  reqCounter,
		reqDuration: reqDuration,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "ingest_rows_total":
		b.rowCounter.WithLabelValues(labels["sheet"], labels["kind"]).Add(delta)
	case "api_requests_total":
		b.reqCounter.WithLabelValues(labels["route"], labels["status"]).Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == "api_request_duration_seconds" {
		b.reqDuration.WithLabelValues(labels["route"], labels["status"]).Observe(value)
	}
}

// Flush pushes the registry to the gateway.
func (b *Backend) Flush() error {
	if err := b.pusher.Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
