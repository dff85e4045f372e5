// harness.go: synthetic multi-threaded load generator
//
// Drives an *iotrace.Engine through its real public API (RecordOpen/
// RecordRW/RecordClose) via many producer goroutines feeding one consumer
// goroutine through the ioRing - the same fan-in shape the interception
// layer in spec.md §1 describes for a real process, used here to produce
// load for benchmarking and for the end-to-end tests in harness_test.go.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package bench

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/noahyzhang/iotrace"
)

// Config controls a Harness run.
type Config struct {
	// Producers is the number of goroutines generating events
	// concurrently. Their events are applied to the engine by the single
	// consumer goroutine, so they are not accounted under distinct tids.
	Producers int
	// EventsPerProducer is how many RW events each producer emits
	// before closing its fd.
	EventsPerProducer int
	// Paths is the set of file paths producers open from, cycled
	// round-robin across producers.
	Paths []string
	// RingCapacity sizes the internal MPSC ring (rounded up to a power
	// of two).
	RingCapacity int64
	// BatchSize bounds how many ring events the consumer drains per
	// pass.
	BatchSize int64
}

// WithDefaults fills zero fields with reasonable load-generator defaults.
func (c Config) WithDefaults() Config {
	if c.Producers == 0 {
		c.Producers = 8
	}
	if c.EventsPerProducer == 0 {
		c.EventsPerProducer = 1000
	}
	if len(c.Paths) == 0 {
		c.Paths = []string{"/var/log/app.log", "/data/shard-0.db", "/data/shard-1.db"}
	}
	if c.RingCapacity == 0 {
		c.RingCapacity = 4096
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	return c
}

// Harness owns the ring and the consumer goroutine that drains it into an
// engine.
type Harness struct {
	cfg    Config
	engine *iotrace.Engine
	ring   *ioRing

	stop chan struct{}
	done chan struct{}

	dropped int64
}

// New constructs a Harness targeting engine.
func New(engine *iotrace.Engine, cfg Config) *Harness {
	cfg = cfg.WithDefaults()
	return &Harness{
		cfg:    cfg,
		engine: engine,
		ring:   newIORing(cfg.RingCapacity, cfg.BatchSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run starts the consumer goroutine, spawns cfg.Producers producer
// goroutines, waits for all producers to finish, drains any remainder,
// and stops the consumer. It returns the number of pushes the full ring
// refused (back-pressure); each refused event is retried until it fits,
// so no event is lost.
func (h *Harness) Run() int64 {
	go h.consumeLoop()

	var wg sync.WaitGroup
	wg.Add(h.cfg.Producers)
	for p := 0; p < h.cfg.Producers; p++ {
		go func(producerID int) {
			defer wg.Done()
			h.produce(producerID)
		}(p)
	}
	wg.Wait()

	// Give the consumer a chance to drain the tail before stopping it.
	time.Sleep(10 * time.Millisecond)
	close(h.stop)
	<-h.done

	return h.dropped
}

func (h *Harness) produce(producerID int) {
	fd := int32(producerID + 1)
	path := h.cfg.Paths[producerID%len(h.cfg.Paths)]
	rng := rand.New(rand.NewSource(int64(producerID) + 1))

	h.enqueue(ioEvent{kind: eventOpen, fd: fd, path: path})

	for i := 0; i < h.cfg.EventsPerProducer; i++ {
		kind := eventRead
		if rng.Intn(2) == 0 {
			kind = eventWrite
		}
		h.enqueue(ioEvent{kind: kind, fd: fd, bytes: uint64(64 + rng.Intn(4096))})
	}

	h.enqueue(ioEvent{kind: eventClose, fd: fd})
}

func (h *Harness) enqueue(event ioEvent) {
	for !h.ring.push(event) {
		runtime.Gosched()
	}
}

func (h *Harness) consumeLoop() {
	defer close(h.done)
	for {
		processed := h.ring.processBatch(h.apply)
		select {
		case <-h.stop:
			for h.ring.processBatch(h.apply) > 0 {
			}
			h.dropped = h.ring.dropped.Load()
			return
		default:
		}
		if processed == 0 {
			runtime.Gosched()
		}
	}
}

func (h *Harness) apply(event *ioEvent) {
	switch event.kind {
	case eventOpen:
		h.engine.RecordOpen(event.fd, event.path)
	case eventClose:
		h.engine.RecordClose(event.fd)
	case eventRead:
		h.engine.RecordRW(event.fd, iotrace.Read, event.bytes)
	case eventWrite:
		h.engine.RecordRW(event.fd, iotrace.Write, event.bytes)
	}
}
