// engine.go: concurrent accounting engine
//
// Grounded on original_source/src/hook_io_handle.h's FileIoInfoHandler: the
// process-wide singleton that owns the fd registry and the double-buffer
// accumulator, and implements the four public event methods plus
// consume_and_parse (here: Snapshot). Reentrancy and teardown safety follow
// the original's is_object_destruct flag (spec.md §4.4).
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"sort"
	"sync"
	"sync/atomic"
)

// EventKind distinguishes a read from a write event in RecordRW.
type EventKind int

const (
	Read EventKind = iota
	Write
)

// FileInfo is one row of a Snapshot result: the byte totals one thread
// accumulated against one path during the generation that just rotated
// out.
type FileInfo struct {
	TID        uint64
	Path       string
	ReadBytes  uint64
	WriteBytes uint64
}

// Engine is the process-wide accounting engine described in spec.md §4.4.
// It owns the fd->path registry and the double-buffer accumulator
// exclusively. The interception layer reaches it through Instance(), since
// it has no way to address more than one engine per process; NewEngine
// builds standalone engines for tests and other hosts.
type Engine struct {
	cfg Config

	registry    *fdRegistry
	accumulator *accumulator
	counters    MonitorCounters

	destructing atomic.Bool

	audit *EngineAuditLogger
}

var (
	instanceOnce sync.Once
	instance     *Engine
)

// Instance returns the process singleton, initializing it on first call
// with configuration read from the environment (see config.go). This is
// the engine_instance() entry point from spec.md §6.
func Instance() *Engine {
	instanceOnce.Do(func() {
		instance = NewEngine(LoadConfigFromEnv().WithDefaults())
	})
	return instance
}

// NewEngine constructs a standalone engine with the given configuration.
// Most callers want Instance(); NewEngine exists for tests and for hosts
// that want more than the implicit process singleton (at their own risk -
// the interception layer only ever addresses one).
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		cfg:         cfg,
		registry:    newFDRegistry(cfg.HashBucketCount),
		accumulator: newAccumulator(cfg.HashBucketCount),
	}

	audit, err := newEngineAuditLogger(cfg.Audit)
	if err != nil {
		// Fatal-on-init (spec.md §7): failure to stand up the audit sink
		// permanently disables the engine rather than risk a half-built
		// singleton taking hot-path calls.
		e.destructing.Store(true)
		return e
	}
	e.audit = audit

	return e
}

// RecordOpen attributes fd to path for subsequent RecordRW calls. A
// negative fd or empty path is a parameter error and is dropped; a reopen
// of an already-known fd overwrites the path (latest wins).
func (e *Engine) RecordOpen(fd int32, path string) {
	if e.destructing.Load() {
		return
	}
	if fd < 0 || path == "" {
		e.counters.APIOpenCloseParamErrorNum.Add(1)
		return
	}
	e.counters.OpenFuncCallNum.Add(1)
	e.registry.open(fd, path)
}

// RecordClose forgets fd's path. A negative fd is a parameter error; an fd
// not currently registered is a no-op beyond the call counter.
func (e *Engine) RecordClose(fd int32) {
	if e.destructing.Load() {
		return
	}
	if fd < 0 {
		e.counters.APIOpenCloseParamErrorNum.Add(1)
		return
	}
	e.counters.CloseFuncCallNum.Add(1)
	e.registry.close(fd)
}

// RecordRW attributes bytes of the given kind to fd's current path and the
// calling thread. Dropped if the accumulator is over its pool-size
// threshold (shedding) or if fd has no registered path.
func (e *Engine) RecordRW(fd int32, kind EventKind, bytes uint64) {
	if e.destructing.Load() {
		return
	}

	var value AggValue
	switch kind {
	case Read:
		value.ReadBytes = bytes
	case Write:
		value.WriteBytes = bytes
	default:
		e.counters.APIReadWriteParamErrorNum.Add(1)
		return
	}

	if e.accumulator.size() > e.cfg.MaxPoolSize {
		e.counters.ExceedDataPoolSizeDropNum.Add(1)
		return
	}

	path, ok := e.registry.lookup(fd)
	if !ok {
		e.counters.NotFoundFDFileNameNum.Add(1)
		return
	}

	switch kind {
	case Read:
		e.counters.ReadFuncCallNum.Add(1)
	case Write:
		e.counters.WriteFuncCallNum.Add(1)
	}

	key := AggKey{TID: currentTID(), Path: path}
	e.accumulator.write(key, value)
}

// Snapshot rotates the accumulator and returns every (tid, path) entry
// accumulated since the previous rotation, sorted descending by total
// bytes. Returns an empty, freshly-allocated slice if the engine is
// destructing or the retired side was empty - spec.md §4.4 and §7.
func (e *Engine) Snapshot() []FileInfo {
	if e.destructing.Load() {
		return []FileInfo{}
	}

	side := e.accumulator.readAndSwitch()

	infos := make([]FileInfo, 0, defaultBucketCount/4)
	side.iterate(func(key AggKey, value AggValue) {
		infos = append(infos, FileInfo{
			TID:        key.TID,
			Path:       key.Path,
			ReadBytes:  value.ReadBytes,
			WriteBytes: value.WriteBytes,
		})
	})

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ReadBytes+infos[i].WriteBytes > infos[j].ReadBytes+infos[j].WriteBytes
	})

	if e.audit != nil {
		e.audit.observeSnapshot(len(infos), e.counters.Snapshot())
	}

	return infos
}

// SnapshotAndResetCounters behaves like Snapshot but additionally
// read-resets the monitor counters in the same pass (spec.md §4.4: "make
// this a distinct, non-default inspection entry point"). Returns the
// FileInfo rows and the pre-reset counter values.
func (e *Engine) SnapshotAndResetCounters() ([]FileInfo, MonitorCountersValue) {
	infos := e.Snapshot()
	return infos, e.counters.SnapshotAndReset()
}

// Counters returns a point-in-time copy of the monitor counters without
// resetting them.
func (e *Engine) Counters() MonitorCountersValue {
	return e.counters.Snapshot()
}

// MarkDestructing puts the engine into its permanent no-op state: all four
// event methods become no-ops and Snapshot returns empty. Intended to be
// registered as an end-of-process hook so that calls arriving after the
// runtime's exit sequence (which may close stdio descriptors through the
// very functions this engine instruments) never touch reclaimed state -
// spec.md §4.4.
func (e *Engine) MarkDestructing() {
	e.destructing.Store(true)
	if e.audit != nil {
		_ = e.audit.Close()
	}
}

// Destructing reports whether the engine is in its post-teardown no-op
// state.
func (e *Engine) Destructing() bool {
	return e.destructing.Load()
}
