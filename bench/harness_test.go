package bench

import (
	"testing"

	"github.com/noahyzhang/iotrace"
)

func TestHarnessRunProducesAccountedBytes(t *testing.T) {
	engine := iotrace.NewEngine(iotrace.Config{MaxPoolSize: 1 << 20, HashBucketCount: 64}.WithDefaults())

	h := New(engine, Config{
		Producers:         4,
		EventsPerProducer: 100,
		RingCapacity:      512,
		BatchSize:         8,
	})
	dropped := h.Run()
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0 for a ring sized above the 408 events enqueued", dropped)
	}

	infos := engine.Snapshot()
	if len(infos) == 0 {
		t.Fatal("expected at least one accounted (tid, path) row after Run")
	}

	var totalEvents uint64
	for _, fi := range infos {
		totalEvents += fi.ReadBytes + fi.WriteBytes
	}
	if totalEvents == 0 {
		t.Fatal("expected nonzero accounted bytes after Run")
	}
}

func TestIORingPushAndProcessBatch(t *testing.T) {
	r := newIORing(4, 2)
	if !r.push(ioEvent{kind: eventOpen, fd: 1, path: "/tmp/a"}) {
		t.Fatal("push into an empty ring should succeed")
	}
	if !r.push(ioEvent{kind: eventRead, fd: 1, bytes: 10}) {
		t.Fatal("push into a ring with room should succeed")
	}

	var processed []ioEvent
	n := r.processBatch(func(e *ioEvent) { processed = append(processed, *e) })
	if n != 2 {
		t.Fatalf("processBatch returned %d, want 2", n)
	}
	if processed[0].kind != eventOpen || processed[1].kind != eventRead {
		t.Fatalf("processed = %+v, want [open, read] in push order", processed)
	}
}

func TestIORingDropsWhenFull(t *testing.T) {
	r := newIORing(2, 2)
	r.push(ioEvent{kind: eventOpen, fd: 1})
	r.push(ioEvent{kind: eventRead, fd: 1})
	if r.push(ioEvent{kind: eventRead, fd: 1}) {
		t.Fatal("push into a full, undrained ring should fail")
	}
	if r.dropped.Load() != 1 {
		t.Fatalf("dropped = %d, want 1", r.dropped.Load())
	}
}
