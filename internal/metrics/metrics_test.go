package metrics

import (
	"testing"
	"time"
)

type captureBackend struct {
	counters map[string]float64
	observed int
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	if c.counters == nil {
		c.counters = map[string]float64{}
	}
	c.counters[name+"/"+labels["kind"]] += delta
}

func (c *captureBackend) ObserveHistogram(string, float64, Labels) { c.observed++ }
func (c *captureBackend) Flush() error                             { return nil }

func TestRecordRows(t *testing.T) {
	cap := &captureBackend{}
	SetBackend(cap)
	defer SetBackend(nopBackend{})

	RecordRows("Owners", "accepted", 120)
	RecordRows("Owners", "accepted", 30)
	RecordRows("Owners", "duplicate", 5)
	RecordRows("Owners", "failed", 0) // no-op

	if got := cap.counters["ingest_rows_total/accepted"]; got != 150 {
		t.Errorf("accepted = %v, want 150", got)
	}
	if got := cap.counters["ingest_rows_total/duplicate"]; got != 5 {
		t.Errorf("duplicate = %v, want 5", got)
	}
	if _, ok := cap.counters["ingest_rows_total/failed"]; ok {
		t.Error("zero delta should not be recorded")
	}
}

func TestRecordRequestObservesLatency(t *testing.T) {
	cap := &captureBackend{}
	SetBackend(cap)
	defer SetBackend(nopBackend{})

	RecordRequest("/api/v1/contacts/search", "200", 25*time.Millisecond)
	if cap.observed != 1 {
		t.Errorf("observed = %d, want 1", cap.observed)
	}
}

func TestNopBackendIsSafe(t *testing.T) {
	SetBackend(nil) // keeps current backend
	RecordRows("x", "accepted", 1)
	if err := Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
}
