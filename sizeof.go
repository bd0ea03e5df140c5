package ringalloc

// These constants are load-bearing for the wrap-around and ring-slot
// protocols; they are exercised (not just asserted) by allocator_test.go and
// ring_test.go.
const (
	// sentinelGapAddress marks "no wrap gap pending" for gapAddress.
	sentinelGapAddress = ^uint32(0) // 0xFFFFFFFF

	// defaultRingCapacity is K, the number of list-entry slots. Index 0 is
	// reserved as a sentinel (see nextListIndex), so K-1 slots are usable.
	// Several thousand entries keeps a [K]atomic.Uint64 array comfortably
	// lock-free while giving a tracing pipeline plenty of in-flight blocks.
	defaultRingCapacity = 4096

	// maxRetries bounds every compare-and-swap loop in the allocator. A loop
	// that exhausts this budget fails its single call without touching any
	// other caller's ability to make progress.
	maxRetries = 200
)
