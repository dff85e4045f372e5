// Package export writes Snapshot results to a compressed, newline-
// delimited file for offline analysis.
//
// Grounded on the snappy framed-stream usage in the ethpandaops-observoor
// example repo (snappy.NewBufferedWriter wrapping an io.Writer to compress
// a stream of JSON-lines records). This is a consumer-side utility, not
// engine state: spec.md §1's "no durable storage" non-goal binds the
// engine itself, not an optional tool that serializes what Snapshot
// already handed the caller.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package export

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/noahyzhang/iotrace"
)

// Record is one exported row: a FileInfo plus the wall-clock time the
// enclosing Snapshot was taken, since FileInfo itself carries no
// timestamp (spec.md §6 keeps the record layout minimal).
type Record struct {
	TakenAt    time.Time `json:"taken_at"`
	TID        uint64    `json:"tid"`
	Path       string    `json:"path"`
	ReadBytes  uint64    `json:"read_bytes"`
	WriteBytes uint64    `json:"write_bytes"`
}

// Writer appends snappy-compressed, newline-delimited JSON records to an
// underlying file. Not safe for concurrent use by multiple goroutines;
// callers serialize their own WriteSnapshot calls, matching how Snapshot
// itself is meant to be called from one consumer at a time.
type Writer struct {
	file    *os.File
	snappyW *snappy.Writer
	buf     *bufio.Writer
}

// Create opens path (creating it if necessary) for snappy-compressed
// export output.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	sw := snappy.NewBufferedWriter(f)
	return &Writer{file: f, snappyW: sw, buf: bufio.NewWriter(sw)}, nil
}

// WriteSnapshot appends one Record per FileInfo in infos, all stamped
// with takenAt.
func (w *Writer) WriteSnapshot(takenAt time.Time, infos []iotrace.FileInfo) error {
	enc := json.NewEncoder(w.buf)
	for _, fi := range infos {
		rec := Record{
			TakenAt:    takenAt,
			TID:        fi.TID,
			Path:       fi.Path,
			ReadBytes:  fi.ReadBytes,
			WriteBytes: fi.WriteBytes,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush forces any buffered output through the snappy writer to disk.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.snappyW.Flush()
}

// Close flushes and releases the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.snappyW.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// Reader decodes records written by Writer.
type Reader struct {
	dec *json.Decoder
}

// Open opens path for reading previously exported records.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	sr := snappy.NewReader(f)
	return &Reader{dec: json.NewDecoder(sr)}, f, nil
}

// Next decodes the next Record, returning io.EOF when exhausted.
func (r *Reader) Next() (Record, error) {
	var rec Record
	err := r.dec.Decode(&rec)
	return rec, err
}
