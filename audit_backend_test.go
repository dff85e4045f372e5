package iotrace

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteAuditBackendWriteAndClose(t *testing.T) {
	dir := t.TempDir()
	backend, err := newSQLiteAuditBackend(filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("newSQLiteAuditBackend: %v", err)
	}

	events := []EngineAuditEvent{
		{Timestamp: time.Now(), Kind: EventEngineInit, ProcessID: 1},
		{Timestamp: time.Now(), Kind: EventOverflowBurst, ProcessID: 1, Count: 5},
	}
	if err := backend.Write(events); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := backend.Write(events); err == nil {
		t.Fatal("expected an error writing to a closed backend")
	}
}

func TestJSONLAuditBackendWriteAndClose(t *testing.T) {
	dir := t.TempDir()
	backend, err := newJSONLAuditBackend(filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("newJSONLAuditBackend: %v", err)
	}

	events := []EngineAuditEvent{{Timestamp: time.Now(), Kind: EventSnapshotTaken, ProcessID: 1, Count: 3}}
	if err := backend.Write(events); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := backend.Write(events); err == nil {
		t.Fatal("expected an error writing to a closed backend")
	}
}

func TestCreateEngineAuditBackendJSONLSuffix(t *testing.T) {
	dir := t.TempDir()
	backend, err := createEngineAuditBackend(AuditConfig{Enabled: true, Path: filepath.Join(dir, "audit.jsonl")})
	if err != nil {
		t.Fatalf("createEngineAuditBackend: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*jsonlAuditBackend); !ok {
		t.Fatalf("backend type = %T, want *jsonlAuditBackend for a .jsonl path", backend)
	}
}

func TestCreateEngineAuditBackendDefaultsToSQLite(t *testing.T) {
	dir := t.TempDir()
	backend, err := createEngineAuditBackend(AuditConfig{Enabled: true, Path: filepath.Join(dir, "audit.db")})
	if err != nil {
		t.Fatalf("createEngineAuditBackend: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*sqliteAuditBackend); !ok {
		t.Fatalf("backend type = %T, want *sqliteAuditBackend for a .db path", backend)
	}
}
