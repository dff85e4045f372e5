// accumulator.go: double-buffer accumulator ("double-ball model")
//
// Grounded on original_source/src/hook_io_handle.h's DoubleBallModule: two
// concurrent maps with a selector indicating which is the active write
// target. Writers always target the active side; read_and_switch clears
// the inactive side, flips the selector to it, and returns the former-active
// side for read. The original protects the selector with a plain mutex
// around both the read in write() and the flip in read_and_switch(); this
// keeps that choice (spec.md §4.3 calls a read/write-lock variant an
// acceptable alternative, but the mutex is simpler and the critical
// section it guards is a single map operation).
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import "sync"

// bufferSide is one generation's worth of (AggKey -> AggValue) storage.
type bufferSide = bucketedMap[AggKey, AggValue]

// accumulator is the double-buffer described in spec.md §4.3. The mutex
// does not protect bucket contents - those stay per-bucket-locked inside
// bufferSide - it only makes the selector read in write() and the flip in
// readAndSwitch() atomic with respect to each other, so a writer can never
// observe stale side=A, get preempted, and insert into A after A has been
// designated the next rotation's target.
type accumulator struct {
	mu         sync.Mutex
	active     bool // true => sideA is active, false => sideB is active
	approxSize uint64

	sideA *bufferSide
	sideB *bufferSide
}

func newAccumulator(bucketCount int) *accumulator {
	return &accumulator{
		active: true,
		sideA:  newBucketedMap[AggKey, AggValue](bucketCount, hashAggKey, combineAggValue),
		sideB:  newBucketedMap[AggKey, AggValue](bucketCount, hashAggKey, combineAggValue),
	}
}

// write inserts-or-adds into whichever side is active at the moment the
// selector is read, under the rotation mutex.
func (a *accumulator) write(key AggKey, value AggValue) {
	a.mu.Lock()
	side := a.sideA
	if !a.active {
		side = a.sideB
	}
	isNew := side.insertOrAdd(key, value)
	if isNew {
		a.approxSize++
	}
	a.mu.Unlock()
}

// readAndSwitch implements the rotation protocol from spec.md §4.3:
//  1. pre-clear the inactive side (safe without coordination - no writer
//     targets it, by the selector invariant)
//  2. under the mutex, flip the selector and reset approxSize
//  3. return the former-active side, now quiescent from the writer
//     perspective and safe to iterate without further locking
//
// The returned side is cleared by the next readAndSwitch call, so it must
// be consumed before rotating again.
func (a *accumulator) readAndSwitch() *bufferSide {
	a.mu.Lock()
	idle := a.sideB
	if !a.active {
		idle = a.sideA
	}
	a.mu.Unlock()
	idle.clear()

	a.mu.Lock()
	former := a.sideA
	if !a.active {
		former = a.sideB
	}
	a.active = !a.active
	a.approxSize = 0
	a.mu.Unlock()

	return former
}

// size returns the current approximate element count. It is a hint used
// only for overflow shedding (spec.md §5) - not guaranteed to equal the
// exact element count.
func (a *accumulator) size() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.approxSize
}

func (a *accumulator) lockPrefork() {
	a.mu.Lock()
	a.sideA.lockAll()
	a.sideB.lockAll()
}

func (a *accumulator) unlockPostfork() {
	a.sideB.unlockAll()
	a.sideA.unlockAll()
	a.mu.Unlock()
}
