// Package metrics exports an iotrace engine's monitor counters as
// Prometheus counters and its latest snapshot totals as gauges.
//
// Grounded on the Prometheus client_golang usage pattern in the
// ethpandaops-observoor example repo (collectors registered once at
// construction, served via promhttp.Handler from the host's own mux) -
// this package follows the same registration shape but exports a
// GatherOnce-style Collector instead of a long-running scrape server,
// since iotrace itself has no HTTP listener of its own (spec.md §1
// Non-goals: "serving a metrics or admin HTTP endpoint").
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package metrics

import (
	"sync/atomic"

	"github.com/noahyzhang/iotrace"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts an *iotrace.Engine to prometheus.Collector, exposing
// the eight monitor counters plus two gauges holding the summed read and
// write bytes of the most recent observed Snapshot (not per path). Register it with any prometheus.Registerer;
// iotrace has no opinion on how the host exposes its metrics endpoint.
type Collector struct {
	engine *iotrace.Engine

	openCalls        *prometheus.Desc
	closeCalls       *prometheus.Desc
	readCalls        *prometheus.Desc
	writeCalls       *prometheus.Desc
	openCloseErrors  *prometheus.Desc
	readWriteErrors  *prometheus.Desc
	overflowDrops    *prometheus.Desc
	fdNotFoundEvents *prometheus.Desc

	lastReadBytes  *prometheus.Desc
	lastWriteBytes *prometheus.Desc

	lastReadTotal  atomic.Uint64
	lastWriteTotal atomic.Uint64
}

// NewCollector builds a Collector for engine. Call Snapshot on a separate
// cadence (e.g. a ticker in the host) rather than per-scrape, since
// Collect only reports counters, not a fresh Snapshot - scraping must
// never be what drives the engine's rotation.
func NewCollector(engine *iotrace.Engine) *Collector {
	const ns = "iotrace"
	return &Collector{
		engine:           engine,
		openCalls:        prometheus.NewDesc(ns+"_open_calls_total", "Total RecordOpen calls observed.", nil, nil),
		closeCalls:       prometheus.NewDesc(ns+"_close_calls_total", "Total RecordClose calls observed.", nil, nil),
		readCalls:        prometheus.NewDesc(ns+"_read_calls_total", "Total RecordRW(Read) calls observed.", nil, nil),
		writeCalls:       prometheus.NewDesc(ns+"_write_calls_total", "Total RecordRW(Write) calls observed.", nil, nil),
		openCloseErrors:  prometheus.NewDesc(ns+"_open_close_param_errors_total", "Parameter errors rejected by RecordOpen/RecordClose.", nil, nil),
		readWriteErrors:  prometheus.NewDesc(ns+"_read_write_param_errors_total", "Parameter errors rejected by RecordRW.", nil, nil),
		overflowDrops:    prometheus.NewDesc(ns+"_overflow_drops_total", "RecordRW calls dropped for exceeding max pool size.", nil, nil),
		fdNotFoundEvents: prometheus.NewDesc(ns+"_fd_not_found_total", "RecordRW calls for an fd with no registered path.", nil, nil),
		lastReadBytes:    prometheus.NewDesc(ns+"_last_snapshot_read_bytes", "Sum of ReadBytes across the most recent Snapshot.", nil, nil),
		lastWriteBytes:   prometheus.NewDesc(ns+"_last_snapshot_write_bytes", "Sum of WriteBytes across the most recent Snapshot.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openCalls
	ch <- c.closeCalls
	ch <- c.readCalls
	ch <- c.writeCalls
	ch <- c.openCloseErrors
	ch <- c.readWriteErrors
	ch <- c.overflowDrops
	ch <- c.fdNotFoundEvents
	ch <- c.lastReadBytes
	ch <- c.lastWriteBytes
}

// Collect implements prometheus.Collector, reading the engine's monitor
// counters without resetting them (Engine.Counters, not
// SnapshotAndResetCounters - a metrics scrape must be idempotent).
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counters := c.engine.Counters()

	ch <- prometheus.MustNewConstMetric(c.openCalls, prometheus.CounterValue, float64(counters.OpenFuncCallNum))
	ch <- prometheus.MustNewConstMetric(c.closeCalls, prometheus.CounterValue, float64(counters.CloseFuncCallNum))
	ch <- prometheus.MustNewConstMetric(c.readCalls, prometheus.CounterValue, float64(counters.ReadFuncCallNum))
	ch <- prometheus.MustNewConstMetric(c.writeCalls, prometheus.CounterValue, float64(counters.WriteFuncCallNum))
	ch <- prometheus.MustNewConstMetric(c.openCloseErrors, prometheus.CounterValue, float64(counters.APIOpenCloseParamErrorNum))
	ch <- prometheus.MustNewConstMetric(c.readWriteErrors, prometheus.CounterValue, float64(counters.APIReadWriteParamErrorNum))
	ch <- prometheus.MustNewConstMetric(c.overflowDrops, prometheus.CounterValue, float64(counters.ExceedDataPoolSizeDropNum))
	ch <- prometheus.MustNewConstMetric(c.fdNotFoundEvents, prometheus.CounterValue, float64(counters.NotFoundFDFileNameNum))
	ch <- prometheus.MustNewConstMetric(c.lastReadBytes, prometheus.GaugeValue, float64(c.lastReadTotal.Load()))
	ch <- prometheus.MustNewConstMetric(c.lastWriteBytes, prometheus.GaugeValue, float64(c.lastWriteTotal.Load()))
}

// ObserveSnapshot updates the last-snapshot gauges from a []iotrace.FileInfo
// the host already pulled via Engine.Snapshot. Kept separate from Collect
// because taking a Snapshot rotates the accumulator - a side effect a
// metrics scrape must never trigger implicitly.
func (c *Collector) ObserveSnapshot(infos []iotrace.FileInfo) {
	var readTotal, writeTotal uint64
	for _, fi := range infos {
		readTotal += fi.ReadBytes
		writeTotal += fi.WriteBytes
	}
	c.lastReadTotal.Store(readTotal)
	c.lastWriteTotal.Store(writeTotal)
}
