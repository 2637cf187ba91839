package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace/noop"
)

// value reads a single counter or gauge.
func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatal(err)
	}
	if c := out.GetCounter(); c != nil {
		return c.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.RecordToast("danger")
	m.RecordToast("danger")
	m.RecordToast("success")
	m.RecordSubmission("started")
	m.ObserveEvent("click", 3*time.Millisecond, nil)
	m.ObserveEvent("click", time.Millisecond, errors.New("boom"))
	m.RecordCommands(3)
	m.RecordCommands(0)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.RecordWebSocketError("read")

	tests := []struct {
		name string
		c    prometheus.Metric
		want float64
	}{
		{"toasts danger", m.toastsTotal.WithLabelValues("danger"), 2},
		{"toasts success", m.toastsTotal.WithLabelValues("success"), 1},
		{"submissions", m.submissions.WithLabelValues("started"), 1},
		{"events ok", m.eventsTotal.WithLabelValues("click", "success"), 1},
		{"events error", m.eventsTotal.WithLabelValues("click", "error"), 1},
		{"commands", m.commandsSent, 3},
		{"sessions", m.activeSessions, 1},
		{"ws errors", m.wsErrors.WithLabelValues("read"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value(t, tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_event_duration_seconds" {
			found = true
			if got := f.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
				t.Errorf("duration samples = %d, want 2", got)
			}
		}
	}
	if !found {
		t.Error("duration histogram not registered")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordToast("info")
	m.RecordSubmission("invalid")
	m.ObserveEvent("click", 0, nil)
	m.RecordCommands(1)
	m.SessionOpened()
	m.SessionClosed()
	m.RecordWebSocketError("read")
}

func TestStartEvent(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	ctx, span := StartEvent(context.Background(), tracer, "submit", "/contact.html")
	if ctx == nil || span == nil {
		t.Fatal("StartEvent returned nil")
	}
	EndSpan(span, errors.New("failed"))

	_, span = StartEvent(context.Background(), nil, "click", "/")
	EndSpan(span, nil)
}
