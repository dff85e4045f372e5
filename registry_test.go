package iotrace

import "testing"

func TestFDRegistryOpenLookupClose(t *testing.T) {
	r := newFDRegistry(8)

	if _, ok := r.lookup(3); ok {
		t.Fatal("lookup on unopened fd should report absent")
	}

	r.open(3, "/var/log/app.log")
	if path, ok := r.lookup(3); !ok || path != "/var/log/app.log" {
		t.Fatalf("lookup(3) = (%q, %v), want (/var/log/app.log, true)", path, ok)
	}

	r.close(3)
	if _, ok := r.lookup(3); ok {
		t.Fatal("lookup after close should report absent")
	}
}

func TestFDRegistryReopenOverwritesPath(t *testing.T) {
	r := newFDRegistry(8)
	r.open(5, "/tmp/first")
	r.open(5, "/tmp/second")

	if path, ok := r.lookup(5); !ok || path != "/tmp/second" {
		t.Fatalf("lookup(5) = (%q, %v), want (/tmp/second, true) - latest-wins on reopen", path, ok)
	}
}

func TestFDRegistryCloseUnknownFDIsNoop(t *testing.T) {
	r := newFDRegistry(8)
	r.close(99) // must not panic
}
