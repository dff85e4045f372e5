// doc.go: package overview for iotrace
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package iotrace is a concurrent accounting engine for file-level read/write
// activity, meant to be driven by an interception layer (symbol interposition,
// trampolines, or any other mechanism the host provides) that calls into it on
// every intercepted open/close/read/write.
//
// Philosophy:
//   - Minimal dependencies (AGILira ecosystem for errors/config/CLI, plus a
//     handful of well-scoped additions for audit storage and metrics export)
//   - No file IO, no logging, no unbounded allocation on the hot path
//   - Per-bucket locking instead of a single global mutex
//   - Lossless accounting across concurrent rotation ("snapshot") calls
//
// Example usage (from an interception layer):
//
//	eng := iotrace.Instance()
//	eng.RecordOpen(fd, "/var/log/app.log")
//	eng.RecordRW(fd, iotrace.Write, 128)
//	eng.RecordClose(fd)
//
//	infos := eng.Snapshot()
//	for _, fi := range infos {
//		fmt.Printf("tid=%d path=%s read=%d write=%d\n", fi.TID, fi.Path, fi.ReadBytes, fi.WriteBytes)
//	}
package iotrace
