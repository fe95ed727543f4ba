package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookMetricsCountByEventType(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.IncReceived("checkout.session.completed")
	m.IncReceived("checkout.session.completed")
	m.IncFailed("Checkout.Session.Completed")
	m.ObserveDuration("checkout.session.completed", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.received.WithLabelValues("checkout.session.completed")); got != 2 {
		t.Fatalf("received counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("checkout.session.completed")); got != 1 {
		t.Fatalf("failed counter = %v, want 1 (labels should normalize)", got)
	}
}

func TestWebhookMetricsNilSafe(t *testing.T) {
	var m *WebhookMetrics
	m.IncReceived("x")
	m.IncFailed("x")
	m.ObserveDuration("x", time.Second)

	empty := NewWebhookMetrics(nil)
	empty.IncReceived("")
}
