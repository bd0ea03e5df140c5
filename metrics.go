package ringalloc

// Telemetry is the snapshot returned by Allocator.StatsSnapshot, matching
// the distilled specification's tmd_max/tmd_average/tmd_alloc_rate fields.
type Telemetry struct {
	// Max is the peak bytes in use (total_size - minimum observed available
	// size) since the previous snapshot.
	Max uint32
	// Average is the mean footprint (total_size - available size, sampled
	// right after each allocation) per allocation since the previous
	// snapshot.
	Average uint32
	// AllocRate is deallocations per allocation since the previous snapshot.
	AllocRate float32
}

// recordAllocation feeds one successful Allocate into the running
// statistics, if enabled. Per the distilled specification's
// cumulative_usage_ += (total_size_ - available_tmd_size) formula, the
// cumulative accumulator tracks the allocator's total footprint at each
// allocation, not the size of that one allocation alone.
func (a *Allocator) recordAllocation() {
	if !a.statsEnabled.Load() {
		return
	}
	avail := a.availableSize.Load()
	for i := 0; i < maxRetries; i++ {
		cur := a.statsMinAvailable.Load()
		if avail >= cur {
			break
		}
		if a.statsMinAvailable.CompareAndSwap(cur, avail) {
			break
		}
	}
	a.statsCumulative.Add(uint64(a.totalSize - avail))
	a.statsAllocCount.Add(1)
}

// recordDeallocation feeds one Deallocate call into the running statistics,
// if enabled. Per the distilled specification, this counts the call, not
// the number of blocks a resulting drain released.
func (a *Allocator) recordDeallocation() {
	if !a.statsEnabled.Load() {
		return
	}
	a.statsDeallocCount.Add(1)
}

// StatsSnapshot atomically swaps the accumulated counters to zero and
// returns the computed telemetry for the interval since the previous call
// (or since statistics were enabled, for the first call).
//
// Per the distilled specification, statistics collection is lazily enabled
// by the first call to StatsSnapshot if WithStatistics was never supplied at
// construction; that first call therefore always reports a zero Telemetry,
// since nothing was tracked before it ran.
func (a *Allocator) StatsSnapshot() Telemetry {
	a.statsEnabled.Store(true)

	minAvail := a.statsMinAvailable.Swap(a.totalSize)
	cumulative := a.statsCumulative.Swap(0)
	allocCount := a.statsAllocCount.Swap(0)
	deallocCount := a.statsDeallocCount.Swap(0)

	var t Telemetry
	if minAvail <= a.totalSize {
		t.Max = a.totalSize - minAvail
	}
	if allocCount > 0 {
		t.Average = uint32(cumulative / allocCount)
		t.AllocRate = float32(deallocCount) / float32(allocCount)
	}
	return t
}
