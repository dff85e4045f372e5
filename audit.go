// audit.go: operational audit trail for the engine itself
//
// Adapted from argus's AuditLogger (audit.go): buffered event log with a
// pluggable backend and background flush ticker. argus audits
// configuration changes; this engine has no configuration to change at
// runtime, so the event vocabulary is narrowed to the engine's own
// lifecycle and health - init, snapshot taken, destructing, and
// overflow-shedding bursts (spec.md §7 "observability is a thin, optional layer bolted on
// the side, never load-bearing for correctness").
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"os"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// EngineEventKind names the meta-events the audit sink records.
type EngineEventKind string

const (
	EventEngineInit        EngineEventKind = "engine_init"
	EventEngineDestructing EngineEventKind = "engine_destructing"
	EventSnapshotTaken     EngineEventKind = "snapshot_taken"
	EventOverflowBurst     EngineEventKind = "overflow_burst"
)

// EngineAuditEvent is one row written to the audit backend.
type EngineAuditEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Kind      EngineEventKind `json:"kind"`
	ProcessID int             `json:"process_id"`
	Detail    string          `json:"detail,omitempty"`
	Count     int             `json:"count,omitempty"`
}

// EngineAuditLogger buffers EngineAuditEvent rows and flushes them to an
// engineAuditBackend either on a timer or when the buffer fills, mirroring
// argus's AuditLogger buffering strategy.
type EngineAuditLogger struct {
	cfg    AuditConfig
	backend engineAuditBackend

	mu     sync.Mutex
	buffer []EngineAuditEvent

	ticker *time.Ticker
	stopCh chan struct{}

	processID int

	lastOverflowLogAt time.Time
}

// newEngineAuditLogger constructs a logger for cfg. If cfg.Enabled is
// false this returns a logger whose log/observeSnapshot calls are no-ops,
// so callers never need to check for a nil logger pointer branch beyond
// what engine.go already does.
func newEngineAuditLogger(cfg AuditConfig) (*EngineAuditLogger, error) {
	if !cfg.Enabled {
		return &EngineAuditLogger{cfg: cfg}, nil
	}

	backend, err := createEngineAuditBackend(cfg)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditInit, "iotrace: initialize audit backend")
	}

	l := &EngineAuditLogger{
		cfg:       cfg,
		backend:   backend,
		buffer:    make([]EngineAuditEvent, 0, cfg.FlushEvery),
		stopCh:    make(chan struct{}),
		processID: os.Getpid(),
	}

	l.ticker = time.NewTicker(5 * time.Second)
	go l.flushLoop()

	l.log(EventEngineInit, "", 0)

	return l, nil
}

func (l *EngineAuditLogger) log(kind EngineEventKind, detail string, count int) {
	if l == nil || l.backend == nil {
		return
	}

	event := EngineAuditEvent{
		Timestamp: timecache.CachedTime(),
		Kind:      kind,
		ProcessID: l.processID,
		Detail:    detail,
		Count:     count,
	}

	l.mu.Lock()
	l.buffer = append(l.buffer, event)
	full := len(l.buffer) >= l.cfg.FlushEvery
	l.mu.Unlock()

	if full {
		_ = l.Flush()
	}
}

// observeSnapshot records a snapshot_taken event, and - if the engine's
// overflow-drop counter is nonzero (it is cumulative until the counters
// are reset) - an overflow_burst event, at most once per second. Called
// from Engine.Snapshot.
func (l *EngineAuditLogger) observeSnapshot(rowCount int, counters MonitorCountersValue) {
	if l == nil || l.backend == nil {
		return
	}
	l.log(EventSnapshotTaken, "", rowCount)

	if counters.ExceedDataPoolSizeDropNum > 0 {
		l.mu.Lock()
		shouldLog := time.Since(l.lastOverflowLogAt) > time.Second
		if shouldLog {
			l.lastOverflowLogAt = timecache.CachedTime()
		}
		l.mu.Unlock()
		if shouldLog {
			l.log(EventOverflowBurst, "accumulator over max pool size", int(counters.ExceedDataPoolSizeDropNum))
		}
	}
}

// Flush writes any buffered events to the backend immediately.
func (l *EngineAuditLogger) Flush() error {
	if l == nil || l.backend == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buffer) == 0 {
		return nil
	}
	if err := l.backend.Write(l.buffer); err != nil {
		return errors.Wrap(err, ErrCodeAuditBackend, "iotrace: write audit events")
	}
	l.buffer = l.buffer[:0]
	return nil
}

func (l *EngineAuditLogger) flushLoop() {
	for {
		select {
		case <-l.ticker.C:
			_ = l.Flush()
		case <-l.stopCh:
			return
		}
	}
}

// Close records engine_destructing, flushes the buffer, stops the flush
// loop, and releases the backend. Safe to call on a disabled logger.
func (l *EngineAuditLogger) Close() error {
	if l == nil || l.backend == nil {
		return nil
	}

	l.log(EventEngineDestructing, "", 0)
	_ = l.Flush()

	close(l.stopCh)
	l.ticker.Stop()

	return l.backend.Close()
}
