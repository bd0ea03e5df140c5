package ringalloc

import "testing"

func TestStatsSnapshotFirstCallIsZeroAndEnablesCollection(t *testing.T) {
	a, err := New(make([]byte, 4096), WithDefaultAlignment(8))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	snap := a.StatsSnapshot()
	if snap.Max != 0 || snap.Average != 0 || snap.AllocRate != 0 {
		t.Fatalf("first StatsSnapshot() = %+v, want all zero", snap)
	}
	if !a.statsEnabled.Load() {
		t.Fatal("expected StatsSnapshot to enable collection for subsequent calls")
	}
}

func TestStatsSnapshotTracksAllocations(t *testing.T) {
	a, err := New(make([]byte, 4096), WithDefaultAlignment(8), WithStatistics(true))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	r1 := a.Allocate(64, 8)
	if r1 == nil {
		t.Fatal("expected first allocation to succeed")
	}
	r2 := a.Allocate(128, 8)
	if r2 == nil {
		t.Fatal("expected second allocation to succeed")
	}

	if !a.Deallocate(r1) || !a.Deallocate(r2) {
		t.Fatal("expected both deallocations to succeed")
	}

	snap := a.StatsSnapshot()
	if snap.Max == 0 {
		t.Error("expected Max to reflect the two allocations that were live at their peak")
	}
	// aligned(64+8,8)=72, aligned(128+8,8)=136; cumulative tracks total
	// footprint at each allocation: 72, then 72+136=208; average = 280/2.
	if snap.Average != 140 {
		t.Errorf("Average = %d, want 140 (cumulative footprint / alloc count)", snap.Average)
	}
	if snap.AllocRate != 1 {
		t.Errorf("AllocRate = %v, want 1 (2 deallocs / 2 allocs)", snap.AllocRate)
	}
}

func TestRecordAllocationNoopWhenDisabled(t *testing.T) {
	a, err := New(make([]byte, 4096), WithDefaultAlignment(8))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	a.recordAllocation()
	if a.statsCumulative.Load() != 0 {
		t.Fatal("expected recordAllocation to no-op when statistics are disabled")
	}
}
