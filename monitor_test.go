package iotrace

import "testing"

func TestMonitorCountersSnapshotDoesNotReset(t *testing.T) {
	var c MonitorCounters
	c.OpenFuncCallNum.Add(3)

	v := c.Snapshot()
	if v.OpenFuncCallNum != 3 {
		t.Fatalf("OpenFuncCallNum = %d, want 3", v.OpenFuncCallNum)
	}

	v2 := c.Snapshot()
	if v2.OpenFuncCallNum != 3 {
		t.Fatalf("second Snapshot OpenFuncCallNum = %d, want 3 (Snapshot must not reset)", v2.OpenFuncCallNum)
	}
}

func TestMonitorCountersSnapshotAndReset(t *testing.T) {
	var c MonitorCounters
	c.ReadFuncCallNum.Add(7)
	c.ExceedDataPoolSizeDropNum.Add(2)

	v := c.SnapshotAndReset()
	if v.ReadFuncCallNum != 7 || v.ExceedDataPoolSizeDropNum != 2 {
		t.Fatalf("SnapshotAndReset = %+v, want ReadFuncCallNum=7 ExceedDataPoolSizeDropNum=2", v)
	}

	after := c.Snapshot()
	if after.ReadFuncCallNum != 0 || after.ExceedDataPoolSizeDropNum != 0 {
		t.Fatalf("counters after reset = %+v, want all zero", after)
	}
}
