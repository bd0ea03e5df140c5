// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package ringalloc implements a lock-free, multi-producer/multi-consumer
// circular memory allocator over a caller-supplied contiguous byte buffer.
//
// # Design
//
// Allocate reserves a variable-sized, aligned region by advancing an atomic
// buffer head; Deallocate marks a region free and, if it sits at the buffer
// tail, drains the contiguous run of freed regions forward, reclaiming space.
// Out-of-order frees are tracked in a fixed-capacity ring of slot descriptors
// (ringalloc's "list-entry ring") rather than by scanning the buffer, and a
// single compare-and-swap on a wrap-around flag arbitrates which of several
// racing producers resets the buffer head back to the start when the tail
// end of the buffer can no longer fit the next request.
//
// There is no mutex anywhere on the allocate/deallocate hot path: every
// shared field is a sequentially-consistent atomic, and every compare-and-swap
// loop is bounded (see maxRetries) so a call either succeeds or returns a
// null/false result promptly. Buffer exhaustion and retry-budget exhaustion
// are reported as an ordinary null/false return with no error recorded;
// corruption is reported by setting the allocator's single-slot error
// register, readable via LastError.
//
// # Intended use
//
// This allocator is built for tracing pipelines: producers reserve a staging
// buffer, fill it with an event record, and a consumer frees it once the
// event has been drained downstream, in arrival order. It intentionally does
// not implement general-purpose malloc semantics: no coalescing beyond the
// tail-drain, no best-fit search, no defragmentation, no resizing of the
// backing buffer.
package ringalloc
