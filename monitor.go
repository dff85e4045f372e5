// monitor.go: monitor counters
//
// Grounded on original_source/src/hook_io_handle.h's HookFuncMonitorItem:
// eight atomic counters reflecting the engine's own operational health,
// never the accounted IO itself. snapshot() may optionally read-reset them
// in one pass; spec.md §4.4 asks that this be a distinct, non-default entry
// point so it doesn't perturb production consumers that only want FileInfo
// records - see Engine.SnapshotAndResetCounters in engine.go.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import "sync/atomic"

// MonitorCounters are atomic, process-lifetime counters about the engine's
// own operation (not about host IO). They are read-reset only via
// Engine.SnapshotAndResetCounters; Engine.Snapshot never resets them.
type MonitorCounters struct {
	OpenFuncCallNum           atomic.Uint64
	CloseFuncCallNum          atomic.Uint64
	ReadFuncCallNum           atomic.Uint64
	WriteFuncCallNum          atomic.Uint64
	APIOpenCloseParamErrorNum atomic.Uint64
	APIReadWriteParamErrorNum atomic.Uint64
	ExceedDataPoolSizeDropNum atomic.Uint64
	NotFoundFDFileNameNum     atomic.Uint64
}

// Snapshot returns a point-in-time copy of every counter without resetting
// them.
func (c *MonitorCounters) Snapshot() MonitorCountersValue {
	return MonitorCountersValue{
		OpenFuncCallNum:           c.OpenFuncCallNum.Load(),
		CloseFuncCallNum:          c.CloseFuncCallNum.Load(),
		ReadFuncCallNum:           c.ReadFuncCallNum.Load(),
		WriteFuncCallNum:          c.WriteFuncCallNum.Load(),
		APIOpenCloseParamErrorNum: c.APIOpenCloseParamErrorNum.Load(),
		APIReadWriteParamErrorNum: c.APIReadWriteParamErrorNum.Load(),
		ExceedDataPoolSizeDropNum: c.ExceedDataPoolSizeDropNum.Load(),
		NotFoundFDFileNameNum:     c.NotFoundFDFileNameNum.Load(),
	}
}

// SnapshotAndReset returns a point-in-time copy of every counter and
// resets them to zero in the same pass. Distinct from Snapshot so that
// inspection tooling can read-reset without perturbing consumers that only
// ever call Snapshot.
func (c *MonitorCounters) SnapshotAndReset() MonitorCountersValue {
	return MonitorCountersValue{
		OpenFuncCallNum:           c.OpenFuncCallNum.Swap(0),
		CloseFuncCallNum:          c.CloseFuncCallNum.Swap(0),
		ReadFuncCallNum:           c.ReadFuncCallNum.Swap(0),
		WriteFuncCallNum:          c.WriteFuncCallNum.Swap(0),
		APIOpenCloseParamErrorNum: c.APIOpenCloseParamErrorNum.Swap(0),
		APIReadWriteParamErrorNum: c.APIReadWriteParamErrorNum.Swap(0),
		ExceedDataPoolSizeDropNum: c.ExceedDataPoolSizeDropNum.Swap(0),
		NotFoundFDFileNameNum:     c.NotFoundFDFileNameNum.Swap(0),
	}
}

// MonitorCountersValue is an immutable snapshot of MonitorCounters.
type MonitorCountersValue struct {
	OpenFuncCallNum           uint64
	CloseFuncCallNum          uint64
	ReadFuncCallNum           uint64
	WriteFuncCallNum          uint64
	APIOpenCloseParamErrorNum uint64
	APIReadWriteParamErrorNum uint64
	ExceedDataPoolSizeDropNum uint64
	NotFoundFDFileNameNum     uint64
}
