package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/get_states", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "/api/get_states", 200, 7*time.Millisecond)
	m.ObserveRequest("GET", "unmatched", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/get_states", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestObserveQueryOutcomes(t *testing.T) {
	m := New()
	m.ObserveQuery("sqlite", true, time.Millisecond)
	m.ObserveQuery("sqlite", false, time.Millisecond)

	if got := testutil.CollectAndCount(m.queryDuration); got != 2 {
		t.Fatalf("expected success and error series, got %d", got)
	}
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/", 200, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"http_requests_total", "http_request_duration_seconds", "go_goroutines"} {
		if !names[want] {
			t.Fatalf("metric %s not registered", want)
		}
	}
}
