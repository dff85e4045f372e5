package iotrace

import "testing"

func TestHashAggKeyDeterministicAndDisperses(t *testing.T) {
	a := AggKey{TID: 1, Path: "/tmp/a"}
	b := AggKey{TID: 1, Path: "/tmp/a"}
	if hashAggKey(a) != hashAggKey(b) {
		t.Fatal("hashAggKey must be deterministic for equal keys")
	}

	c := AggKey{TID: 2, Path: "/tmp/a"}
	if hashAggKey(a) == hashAggKey(c) {
		t.Fatal("different TIDs should disperse to different hashes (in this sample)")
	}
}

func TestCombineAggValueAddsBothFields(t *testing.T) {
	existing := AggValue{ReadBytes: 10, WriteBytes: 5}
	combineAggValue(&existing, AggValue{ReadBytes: 1, WriteBytes: 2})
	if existing.ReadBytes != 11 || existing.WriteBytes != 7 {
		t.Fatalf("existing = %+v, want ReadBytes=11 WriteBytes=7", existing)
	}
}

func TestHashFDDeterministic(t *testing.T) {
	if hashFD(3) != hashFD(3) {
		t.Fatal("hashFD must be deterministic for the same fd")
	}
	if hashFD(3) == hashFD(4) {
		t.Fatal("distinct fds should disperse to different hashes (in this sample)")
	}
}
