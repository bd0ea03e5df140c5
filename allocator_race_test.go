package ringalloc

import (
	"math/rand"
	"sync"
	"testing"
)

// TestAllocateDeallocateContention is this module's *_race_test.go-style
// scenario (see SPEC_FULL.md §8, E5): several goroutines hammer a shared
// Allocator concurrently, each immediately freeing what it allocates. Run
// with -race to exercise the lock-free hot path under the Go race detector.
func TestAllocateDeallocateContention(t *testing.T) {
	const goroutines = 4
	const iterations = 10000

	// Generous enough that genuine exhaustion should never occur even with
	// every goroutine's largest possible request live at once.
	a, err := New(make([]byte, 1<<20), WithDefaultAlignment(8))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var wg sync.WaitGroup
	var nullCount int64
	var mu sync.Mutex

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < iterations; i++ {
				size := uint32(16 + rnd.Intn(256-16+1))
				r := a.Allocate(size, 8)
				if r == nil {
					mu.Lock()
					nullCount++
					mu.Unlock()
					continue
				}
				if !a.Deallocate(r) {
					t.Errorf("Deallocate unexpectedly failed for a region this goroutine just allocated")
				}
			}
		}(int64(g) + 1)
	}
	wg.Wait()

	if nullCount != 0 {
		t.Errorf("observed %d null Allocate returns against a generously sized buffer", nullCount)
	}
	if err := a.LastError(); err != nil {
		t.Errorf("LastError() = %v, want nil", err)
	}
	if a.Available() != a.Size() {
		t.Errorf("Available() = %d, want %d (fully reclaimed)", a.Available(), a.Size())
	}
	if a.bufferHead.Load() != a.bufferTail.Load() {
		t.Errorf("bufferHead (%d) != bufferTail (%d) after full drain", a.bufferHead.Load(), a.bufferTail.Load())
	}
}
