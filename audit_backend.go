// audit_backend.go: pluggable storage for the engine audit trail
//
// Adapted from argus's audit_backend.go: a minimal interface (Write,
// Close) with a SQLite-first, JSONL-fallback selection strategy so audit
// logging never blocks engine startup. The schema here is a single flat
// table - this engine's event vocabulary is fixed (four EngineEventKind
// values) and has no config-driven fields, so argus's schema_info
// versioning/migration machinery has nothing to version and is dropped;
// see DESIGN.md.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package iotrace

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// engineAuditBackend is the storage contract EngineAuditLogger writes
// through.
type engineAuditBackend interface {
	Write(events []EngineAuditEvent) error
	Close() error
}

// createEngineAuditBackend opens a SQLite backend at cfg.Path, falling
// back to a JSONL file of the same name (".jsonl" suffix) if SQLite
// cannot be opened - e.g. a read-only filesystem or missing cgo support.
func createEngineAuditBackend(cfg AuditConfig) (engineAuditBackend, error) {
	if strings.HasSuffix(cfg.Path, ".jsonl") {
		return newJSONLAuditBackend(cfg.Path)
	}

	backend, err := newSQLiteAuditBackend(cfg.Path)
	if err == nil {
		return backend, nil
	}

	fallbackPath := cfg.Path + ".jsonl"
	jsonlBackend, jsonlErr := newJSONLAuditBackend(fallbackPath)
	if jsonlErr != nil {
		return nil, fmt.Errorf("sqlite backend: %w; jsonl fallback: %v", err, jsonlErr)
	}
	return jsonlBackend, nil
}

// sqliteAuditBackend stores audit events in a single table, WAL mode, one
// prepared insert statement reused across batches.
type sqliteAuditBackend struct {
	db         *sql.DB
	insertStmt *sql.Stmt
	mu         sync.Mutex
	closed     bool
}

func newSQLiteAuditBackend(path string) (*sqliteAuditBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}

	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS engine_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		kind TEXT NOT NULL,
		process_id INTEGER NOT NULL,
		detail TEXT,
		count INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_engine_events_kind_time ON engine_events(kind, timestamp);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}

	const insertSQL = `INSERT INTO engine_events (timestamp, kind, process_id, detail, count) VALUES (?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(insertSQL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare audit insert: %w", err)
	}

	return &sqliteAuditBackend{db: db, insertStmt: stmt}, nil
}

func (s *sqliteAuditBackend) Write(events []EngineAuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("write to closed audit backend")
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin audit transaction: %w", err)
	}

	txStmt := tx.Stmt(s.insertStmt)
	for _, event := range events {
		if _, err := txStmt.Exec(
			event.Timestamp.Format(time.RFC3339Nano),
			string(event.Kind),
			event.ProcessID,
			event.Detail,
			event.Count,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert audit event: %w", err)
		}
	}

	return tx.Commit()
}

func (s *sqliteAuditBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if err := s.insertStmt.Close(); err != nil {
		firstErr = err
	}
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// jsonlAuditBackend is the degraded-mode backend: one JSON object per
// line, append-only.
type jsonlAuditBackend struct {
	file   *os.File
	mu     sync.Mutex
	closed bool
}

func newJSONLAuditBackend(path string) (*jsonlAuditBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit jsonl file: %w", err)
	}
	return &jsonlAuditBackend{file: file}, nil
}

func (j *jsonlAuditBackend) Write(events []EngineAuditEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return fmt.Errorf("write to closed audit backend")
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal audit event: %w", err)
		}
		data = append(data, '\n')
		if _, err := j.file.Write(data); err != nil {
			return fmt.Errorf("write audit event: %w", err)
		}
	}
	return nil
}

func (j *jsonlAuditBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
