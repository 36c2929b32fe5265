package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewRegistersCollectors verifies collectors are registered and usable.
func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Requests.WithLabelValues("GET", "200").Inc()
	m.Requests.WithLabelValues("GET", "200").Inc()
	m.Imports.WithLabelValues("append", "ok").Inc()
	m.Activities.Set(5)
	m.RequestDuration.Observe(0.01)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Activities); got != 5 {
		t.Errorf("activities = %v, want 5", got)
	}
	if n := testutil.CollectAndCount(m.RequestDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

// TestNewTwiceOnSameRegistryPanics verifies duplicate registration is caught.
func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(reg)
}

// TestNewRegistry verifies runtime collectors are present.
func TestNewRegistry(t *testing.T) {
	mfs, err := NewRegistry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Error("go_goroutines not gathered")
	}
}
