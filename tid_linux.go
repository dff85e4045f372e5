//go:build linux

// tid_linux.go: OS thread id resolution on Linux
//
// spec.md §4.4 asks for "the current thread id (cached per-thread)", which
// in the original C++ is a pthread-local cache populated once per OS
// thread. Go has no stable goroutine-to-OS-thread affinity API - a
// goroutine can migrate between OS threads across any function call that
// can be preempted, so per-goroutine caching would silently attribute
// bytes to the wrong tid after a migration. This is recorded as a
// deliberate, spec-permitted deviation in DESIGN.md. Instead, each call
// resolves the OS thread id directly via unix.Gettid, a single
// non-blocking, non-file syscall on Linux, cheap enough for the hot path
// described in spec.md §5.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import "golang.org/x/sys/unix"

func currentTID() uint64 {
	return uint64(unix.Gettid())
}
