package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("test"),
		WithSubsystem("unit"),
		WithHistogramBuckets([]float64{1, 5, 10}),
		WithPrometheusRegistry(registry),
	)
	if m == nil {
		t.Fatal("manager is nil")
	}
	if m.namespace != "test" || m.subsystem != "unit" {
		t.Errorf("unexpected namespace/subsystem: %s/%s", m.namespace, m.subsystem)
	}
}

func TestGlobalHelpers(t *testing.T) {
	// Exercise every helper against the global manager; none should panic.
	RecordEventAppended("fraud")
	RecordEventAppended("budget")
	RecordEventDuplicate()
	RecordValidationError()
	RecordPersistWrite()
	RecordPersistError()
	RecordPersistDropped()
	UpdatePersistQueueDepth(3)
	RecordPersistWriteDuration(1.2)
	RecordProfileRefresh("fraud")
	RecordProfileRefreshDuration(0.4)
	UpdateProfileEventCount("budget", 42)
	RecordScoreComputed(88, true)
	RecordScoreComputed(12, false)
	RecordFraudReport()
	RecordRecommendation(65, false)
	RecordRecommendation(20, true)
	RecordHTTPRequest("events", "POST", "202")
	RecordHTTPRequestDuration("events", "POST", "202", 3.1)

	if GetRegistry() == nil {
		t.Fatal("registry is nil")
	}

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
}
