package iotrace

import "testing"

func TestCurrentTIDNonZeroAndStableWithinGoroutine(t *testing.T) {
	first := currentTID()
	second := currentTID()
	if first == 0 {
		t.Fatal("currentTID() = 0, want a nonzero thread/goroutine id")
	}
	if first != second {
		t.Fatalf("currentTID() changed within the same goroutine: %d != %d", first, second)
	}
}

func TestCurrentTIDDiffersAcrossGoroutines(t *testing.T) {
	done := make(chan uint64)
	go func() {
		done <- currentTID()
	}()
	other := <-done
	mine := currentTID()

	// Not a guarantee: on Linux currentTID is the OS thread id, and the
	// runtime may run both goroutines on the same thread; off Linux it is
	// a goroutine id, which differs here.
	if other == mine {
		t.Skip("ids coincided - not a correctness failure, just an uninteresting run")
	}
}
