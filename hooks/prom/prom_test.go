package promhooks

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(reg, "app")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h.DecodeFailed("k", nil)
	h.ShapeRejected("Set", "k", nil)
	h.ShapeRejected("Set", "k", nil)
	h.ShapeRejected("HsetDict", "k", nil)
	h.EvictBatch("p", 1, 5000)
	h.EvictBatch("p", 2, 2000)
	h.EvictFailed("p", 7000, nil)

	if got := testutil.ToFloat64(h.decodeFailed); got != 1 {
		t.Fatalf("decode_failed = %v", got)
	}
	if got := testutil.ToFloat64(h.shapeRejected.WithLabelValues("Set")); got != 2 {
		t.Fatalf("shape_rejected{op=Set} = %v", got)
	}
	if got := testutil.ToFloat64(h.evictBatches); got != 2 {
		t.Fatalf("evict_batches = %v", got)
	}
	if got := testutil.ToFloat64(h.evictDeleted); got != 7000 {
		t.Fatalf("evict_keys_deleted = %v", got)
	}
	if got := testutil.ToFloat64(h.evictFailed); got != 1 {
		t.Fatalf("evict_failed = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 6 {
		t.Fatalf("registered series = %d, %v", n, err)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg, "app"); err != nil {
		t.Fatal(err)
	}
	if _, err := New(reg, "app"); err == nil {
		t.Fatalf("second New on the same registry should fail")
	}
}
