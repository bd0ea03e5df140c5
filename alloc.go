// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ringalloc

import "math"

// Allocate reserves a region of at least size bytes, aligned to alignment
// (a power of two; 0 selects the allocator's default alignment), and returns
// a handle to it. It returns nil on any failure: running out of space is not
// an error (LastError stays nil), but internal corruption is (LastError
// becomes non-nil).
//
// Allocate never blocks and performs a small, bounded number of
// compare-and-swap attempts; it is safe to call concurrently from any number
// of goroutines against the same Allocator.
func (a *Allocator) Allocate(size, alignment uint32) *Region {
	a.clearError()

	if alignment == 0 {
		alignment = a.defaultAlignment
	}

	// Step 2: overflow guard on size + headerSize.
	if size > math.MaxUint32-headerSize {
		return nil
	}

	// Step 3: aligned block size, including the in-band header. Computed in
	// uint64 — alignUp's own rounding can overflow a uint32 on an
	// adversarial size/alignment pair (e.g. size=0xFFFFF000, alignment=4096
	// rounds a uint32 sum back to 0), so narrowing must not happen until
	// after the step 5 overflow check below.
	aligned64 := alignUp(uint64(size)+uint64(headerSize), uint64(alignment))

	// Step 4: exhaustion is a non-error.
	if aligned64 >= uint64(a.availableSize.Load()) {
		return nil
	}

	// Step 5: reject if the aligned size no longer fits a uint32.
	if aligned64 > math.MaxUint32 {
		return nil
	}
	aligned := uint32(aligned64)

	// Step 10 (checked early, since nothing after this point could undo a
	// debit cheaply): the ring slot's length field is 16 bits wide.
	if aligned > math.MaxUint16 {
		return nil
	}

	// Step 6: eager debit, never rolled back below this point.
	a.availableSize.Sub(aligned)

	// Step 7: claim a list slot via the sentinel-skipping modular CAS.
	listIndex, ok := a.claimListSlot()
	if !ok {
		a.logRetryExhaustion("list_head")
		return nil
	}

	// Steps 8-9: detect and resolve wrap-around.
	offset, ok := a.reserveBufferSpace(aligned)
	if !ok {
		a.logRetryExhaustion("buffer_head")
		return nil
	}

	blockStart := offset - aligned
	header, ok := headerAt(a.base, blockStart, a.totalSize)
	if !ok {
		a.setError(ErrCodeCorruptedBufferBlock)
		return nil
	}
	header.listEntryOffset = listIndex
	header.blockLength = aligned

	a.ring.commit(listIndex, uint16(aligned), offset)

	a.recordAllocation()

	return &Region{
		a:          a,
		blockStart: blockStart,
		userSize:   size,
		listIndex:  listIndex,
	}
}

// claimListSlot performs step 7: up to maxRetries attempts to advance
// listHead via the sentinel-skipping modular increment.
func (a *Allocator) claimListSlot() (uint32, bool) {
	for i := 0; i < maxRetries; i++ {
		old := a.ring.head.Load()
		next := nextListIndex(old, a.ring.capacity)
		if a.ring.head.CompareAndSwap(old, next) {
			return next, true
		}
	}
	return 0, false
}

// reserveBufferSpace performs steps 8-9: wrap detection and the exclusive
// wrap claim, returning the end-offset of the newly reserved block.
func (a *Allocator) reserveBufferSpace(aligned uint32) (uint32, bool) {
	for i := 0; i < maxRetries; i++ {
		old := a.bufferHead.Load()

		if a.totalSize-old <= aligned {
			a.wrapAround.Store(true)
			a.gapAddress.Store(old)
		}

		if a.wrapAround.CompareAndSwap(true, false) {
			// Winner: reset the head to just past the new, wrap-start block.
			newHead := aligned
			if a.bufferHead.CompareAndSwap(old, newHead) {
				a.logDiagnostic(LevelInfo, "wrap", "ringalloc: buffer head wrapped to the start of the buffer", map[string]any{
					"previous_head": old,
					"block_length":  aligned,
				})
				return newHead, true
			}
			// Someone else moved bufferHead since we read old; undo our
			// wrap claim so a genuine contender can still win it, then
			// retry from the top.
			a.wrapAround.Store(true)
			continue
		}

		// Loser (or no wrap needed): advance forward from old.
		newHead := old + aligned
		if a.bufferHead.CompareAndSwap(old, newHead) {
			return newHead, true
		}
	}
	return 0, false
}

// logRetryExhaustion emits the ambient debug-level diagnostic called for
// when a bounded CAS loop exhausts its budget. This is an expected outcome
// under contention, not a correctness failure: the public call simply
// returns nil/false, with LastError left at ErrCodeNone.
func (a *Allocator) logRetryExhaustion(field string) {
	a.logDiagnostic(LevelDebug, "retry_exhaustion", "ringalloc: CAS retry budget exhausted on "+field, map[string]any{
		"field":       field,
		"max_retries": maxRetries,
	})
}
