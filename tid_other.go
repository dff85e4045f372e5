//go:build !linux

// tid_other.go: OS thread id fallback for non-Linux hosts
//
// The interception layer this engine is embedded in (symbol interposition
// against libc open/read/write) is itself a Linux/glibc-centric technique -
// see spec.md §1 Non-goals, "interception correctness for statically-linked
// hosts". Non-Linux hosts have no equivalently cheap OS thread id call
// exposed to Go, so this falls back to the well-known goroutine-id-from-
// stack-trace trick (as used by e.g. petermattis/goid): parse the
// "goroutine N [...]" header that runtime.Stack always emits first. This is
// a goroutine id, not an OS thread id - explicitly weaker than the Linux
// path, and acceptable only because this build tag is never the one the
// interception layer targets in production.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"bytes"
	"runtime"
	"strconv"
)

func currentTID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if idx := bytes.IndexByte(b, ' '); idx >= 0 {
		b = b[:idx]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
