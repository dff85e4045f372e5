// Package bench adapts the teacher's MPSC ring buffer into a synthetic
// multi-goroutine load generator for an iotrace engine: many producer
// goroutines enqueue IO events, one consumer goroutine drains the ring and
// calls into the engine. Every engine call is made from that single
// consumer goroutine, so the engine sees one caller at a time and
// attributes the bytes to the consumer's thread id, not to the producers.
//
// Grounded on agilira-argus's boreaslite.go (BoreasLite): same MPSC
// cursor/availability-marker design, generalized from FileChangeEvent to
// ioEvent and stripped of the file-watcher-specific strategy tuning
// (OptimizationSingleEvent/SmallBatch/LargeBatch/Auto) since this is a
// synthetic generator, not a production hot path - a single fixed batch
// size is all a load generator needs.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package bench

import (
	"sync/atomic"
)

// eventKind mirrors iotrace.EventKind without importing it, since fd/path
// events (open/close) have no EventKind counterpart in the engine's API.
type eventKind uint8

const (
	eventOpen eventKind = iota
	eventClose
	eventRead
	eventWrite
)

// ioEvent is one ring slot: an fd/path/byte-count event destined for an
// iotrace.Engine method call. Fixed-size like BoreasLite's
// FileChangeEvent, to keep the ring a flat, allocation-free array.
type ioEvent struct {
	kind  eventKind
	fd    int32
	bytes uint64
	path  string // only meaningful for eventOpen; small cardinality in practice
}

// ioRing is an MPSC ring buffer: many producer goroutines call push
// concurrently, a single consumer goroutine calls processBatch.
type ioRing struct {
	buffer   []ioEvent
	capacity int64
	mask     int64

	writerCursor atomic.Int64
	readerCursor atomic.Int64

	availableBuffer []atomic.Int64

	batchSize int64

	dropped atomic.Int64
}

// newIORing creates a ring of the given capacity, rounded up to the next
// power of two (required for the cursor&mask indexing scheme).
func newIORing(capacity int64, batchSize int64) *ioRing {
	if capacity <= 0 {
		capacity = 1024
	}
	if (capacity & (capacity - 1)) != 0 {
		rounded := int64(1)
		for rounded < capacity {
			rounded <<= 1
		}
		capacity = rounded
	}
	if batchSize <= 0 {
		batchSize = 16
	}

	r := &ioRing{
		buffer:          make([]ioEvent, capacity),
		capacity:        capacity,
		mask:            capacity - 1,
		availableBuffer: make([]atomic.Int64, capacity),
		batchSize:       batchSize,
	}
	for i := range r.availableBuffer {
		r.availableBuffer[i].Store(-1)
	}
	return r
}

// push enqueues event, returning false if the ring is full (the producer
// should retry or count the drop - this generator counts it).
func (r *ioRing) push(event ioEvent) bool {
	for {
		sequence := r.writerCursor.Load()
		if sequence >= r.readerCursor.Load()+r.capacity {
			r.dropped.Add(1)
			return false
		}
		if r.writerCursor.CompareAndSwap(sequence, sequence+1) {
			r.buffer[sequence&r.mask] = event
			r.availableBuffer[sequence&r.mask].Store(sequence)
			return true
		}
	}
}

// processBatch drains up to batchSize contiguously-available events,
// calling fn for each, and returns the count processed.
func (r *ioRing) processBatch(fn func(*ioEvent)) int {
	current := r.readerCursor.Load()
	writerPos := r.writerCursor.Load()
	if current >= writerPos {
		return 0
	}

	maxProcess := r.batchSize
	if remaining := writerPos - current; remaining < maxProcess {
		maxProcess = remaining
	}

	available := current - 1
	for seq := current; seq < current+maxProcess; seq++ {
		if r.availableBuffer[seq&r.mask].Load() == seq {
			available = seq
		} else {
			break
		}
	}
	if available < current {
		return 0
	}

	processed := int(available - current + 1)
	for seq := current; seq <= available; seq++ {
		idx := seq & r.mask
		fn(&r.buffer[idx])
		r.availableBuffer[idx].Store(-1)
	}
	r.readerCursor.Store(available + 1)
	return processed
}
