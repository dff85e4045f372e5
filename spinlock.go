// spinlock.go: ticket-style reader/writer spin lock
//
// Grounded on original_source/src/common/rw_spin_lock.h: a pair of 32-bit
// atomics (head and tail), each split into a shared-counter half and an
// exclusive-counter half.
// Chosen over sync.RWMutex to avoid syscall/futex overhead on the hot
// bucket-level critical sections below (see bucketmap.go).
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"runtime"
	"sync/atomic"
)

// ticketRWSpinLock is a shared/exclusive spin lock backed by two 32-bit
// atomics, head and tail, each split into a low 16-bit exclusive counter
// and a high 16-bit shared counter. A writer blocks readers that arrive
// after it; readers already in flight complete first. Not safe against
// holder-thread termination and not fair under continuous reader arrival
// - acceptable for the short, hot critical sections it protects.
type ticketRWSpinLock struct {
	head atomic.Uint32
	tail atomic.Uint32
}

const (
	sharedStep    uint32 = 1 << 16
	exclusiveMask uint32 = sharedStep - 1
	exclusiveStep uint32 = 1
)

func (l *ticketRWSpinLock) writeLock() {
	tail := l.tail.Add(exclusiveStep) - exclusiveStep
	for {
		if l.head.Load() == tail {
			return
		}
		runtime.Gosched()
	}
}

func (l *ticketRWSpinLock) tryWriteLock() bool {
	head := l.head.Load()
	tail := l.tail.Load()
	if head != tail {
		return false
	}
	return l.tail.CompareAndSwap(tail, tail+exclusiveStep)
}

func (l *ticketRWSpinLock) writeUnlock() {
	l.head.Add(exclusiveStep)
}

func (l *ticketRWSpinLock) readLock() {
	tail := (l.tail.Add(sharedStep) - sharedStep) & exclusiveMask
	for {
		if l.head.Load()&exclusiveMask == tail {
			return
		}
		runtime.Gosched()
	}
}

func (l *ticketRWSpinLock) tryReadLock() bool {
	head := l.head.Load()
	tail := l.tail.Load()
	if head&exclusiveMask != tail&exclusiveMask {
		return false
	}
	return l.tail.CompareAndSwap(tail, tail+sharedStep)
}

func (l *ticketRWSpinLock) readUnlock() {
	l.head.Add(sharedStep)
}
