package iotrace

import (
	"path/filepath"
	"testing"
	"time"
)

func TestEngineAuditLoggerDisabledIsNoop(t *testing.T) {
	l, err := newEngineAuditLogger(AuditConfig{Enabled: false})
	if err != nil {
		t.Fatalf("newEngineAuditLogger: %v", err)
	}
	l.log(EventEngineInit, "", 0)
	if err := l.Flush(); err != nil {
		t.Fatalf("Flush on disabled logger: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close on disabled logger: %v", err)
	}
}

func TestEngineAuditLoggerBuffersAndFlushes(t *testing.T) {
	dir := t.TempDir()
	l, err := newEngineAuditLogger(AuditConfig{
		Enabled:    true,
		Path:       filepath.Join(dir, "audit.db"),
		FlushEvery: 100,
	})
	if err != nil {
		t.Fatalf("newEngineAuditLogger: %v", err)
	}
	defer l.Close()

	l.log(EventSnapshotTaken, "", 3)
	if err := l.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	l.mu.Lock()
	bufLen := len(l.buffer)
	l.mu.Unlock()
	if bufLen != 0 {
		t.Fatalf("buffer length after Flush = %d, want 0", bufLen)
	}
}

func TestEngineAuditLoggerObserveSnapshotLogsOverflowOncePerSecond(t *testing.T) {
	dir := t.TempDir()
	l, err := newEngineAuditLogger(AuditConfig{
		Enabled:    true,
		Path:       filepath.Join(dir, "audit.db"),
		FlushEvery: 1000,
	})
	if err != nil {
		t.Fatalf("newEngineAuditLogger: %v", err)
	}
	defer l.Close()

	counters := MonitorCountersValue{ExceedDataPoolSizeDropNum: 10}
	l.observeSnapshot(5, counters)
	l.observeSnapshot(5, counters)

	l.mu.Lock()
	overflowEvents := 0
	for _, e := range l.buffer {
		if e.Kind == EventOverflowBurst {
			overflowEvents++
		}
	}
	l.mu.Unlock()

	if overflowEvents != 1 {
		t.Fatalf("overflowEvents = %d, want 1 (rate-limited to once per second)", overflowEvents)
	}
	_ = time.Second
}
