// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ringalloc

// Deallocate releases r, making its bytes eligible for reuse once it (and
// any contiguous already-freed blocks before it) reach the buffer tail. It
// returns false if r is nil or was not issued by this Allocator, or if
// internal corruption was detected while recovering r's header — in which
// case LastError becomes non-nil.
//
// A true return is final: the primary free (marking r's list entry Free)
// has already taken effect even if the subsequent drain attempt detects
// corruption in a neighboring block and stops early.
func (a *Allocator) Deallocate(r *Region) bool {
	a.clearError()

	if r == nil || r.a != a {
		return false
	}

	header, ok := headerAt(a.base, r.blockStart, a.totalSize)
	if !ok {
		a.setError(ErrCodeCorruptedBufferBlock)
		return false
	}
	if header.listEntryOffset >= a.ring.capacity {
		a.setError(ErrCodeCorruptedBufferBlock)
		return false
	}
	if header.listEntryOffset != r.listIndex {
		a.setError(ErrCodeInvalidListEntryOffset)
		return false
	}

	// Step 5: if the tail has caught up to the wrap gap, cross it before
	// testing "at the tail" below.
	a.crossGapIfAtTail()

	slot := a.ring.get(r.listIndex)
	if !a.ring.free(r.listIndex) {
		a.logRetryExhaustion("list_entry")
		return false
	}

	atTail := slot.offset-uint32(slot.length) == a.bufferTail.Load() || a.bufferTail.Load() == 0
	if atTail {
		a.drain()
	}

	a.recordDeallocation()
	return true
}

// crossGapIfAtTail resets bufferTail to 0 and clears gapAddress when the
// tail has reached the wrap gap, per step 5 of the distilled specification.
func (a *Allocator) crossGapIfAtTail() {
	gap := a.gapAddress.Load()
	if gap == sentinelGapAddress {
		return
	}
	tail := a.bufferTail.Load()
	if tail == gap {
		if boundedCAS32(a.bufferTail, tail, 0) {
			a.gapAddress.Store(sentinelGapAddress)
		}
	}
}

// drain scans forward from bufferTail toward bufferHead, releasing every
// contiguous Free block it finds and advancing bufferTail/availableSize/
// listTail accordingly. It stops at the first still-InUse block, or at any
// corruption, without undoing work already done.
func (a *Allocator) drain() {
	for i := 0; i < maxRetries; i++ {
		tail := a.bufferTail.Load()
		head := a.bufferHead.Load()
		if tail == head {
			return
		}

		header, ok := headerAt(a.base, tail, a.totalSize)
		if !ok {
			a.setError(ErrCodeCorruptedBufferBlock)
			return
		}
		if header.listEntryOffset >= a.ring.capacity {
			a.setError(ErrCodeCorruptedBufferBlock)
			return
		}

		slotIdx := header.listEntryOffset
		slot := a.ring.get(slotIdx)
		if slot.flags != slotFlagFree {
			return
		}

		blockLength := header.blockLength
		newTail := tail + blockLength
		if !boundedCAS32(a.bufferTail, tail, newTail) {
			return
		}
		a.availableSize.Add(blockLength)
		a.ring.drain(slotIdx)
		boundedCAS32(a.ring.tail, a.ring.tail.Load(), slotIdx)

		gap := a.gapAddress.Load()
		if (gap != sentinelGapAddress && newTail >= gap) || newTail >= a.totalSize {
			if boundedCAS32(a.bufferTail, newTail, 0) {
				a.gapAddress.Store(sentinelGapAddress)
			}
		}
	}
}
