package metrics

import (
	"testing"

	"github.com/noahyzhang/iotrace"
	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorImplementsPrometheusCollector(t *testing.T) {
	engine := iotrace.NewEngine(iotrace.Config{MaxPoolSize: 1 << 16, HashBucketCount: 8}.WithDefaults())
	engine.RecordOpen(1, "/tmp/a")
	engine.RecordRW(1, iotrace.Read, 100)

	collector := NewCollector(engine)

	reg := prometheus.NewRegistry()
	if err := reg.Register(collector); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one metric family after Gather")
	}
}

func TestCollectorObserveSnapshotUpdatesGauges(t *testing.T) {
	engine := iotrace.NewEngine(iotrace.Config{MaxPoolSize: 1 << 16, HashBucketCount: 8}.WithDefaults())
	engine.RecordOpen(1, "/tmp/a")
	engine.RecordRW(1, iotrace.Read, 100)
	engine.RecordRW(1, iotrace.Write, 50)

	collector := NewCollector(engine)
	infos := engine.Snapshot()
	collector.ObserveSnapshot(infos)

	if got := collector.lastReadTotal.Load(); got != 100 {
		t.Fatalf("lastReadTotal = %d, want 100", got)
	}
	if got := collector.lastWriteTotal.Load(); got != 50 {
		t.Fatalf("lastWriteTotal = %d, want 50", got)
	}
}
