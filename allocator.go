// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ringalloc

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	catrate "github.com/joeycumines/go-catrate"
)

// Allocator is a lock-free, multi-producer/multi-consumer circular memory
// allocator over a caller-supplied byte buffer. The zero value is not valid;
// construct one with New. An *Allocator is safe to share between goroutines
// without any external synchronization.
type Allocator struct {
	buf              []byte
	base             unsafe.Pointer
	totalSize        uint32
	defaultAlignment uint32

	bufferHead    atomicU32
	bufferTail    atomicU32
	gapAddress    atomicU32
	wrapAround    atomicBool
	availableSize atomicU32
	lastError     atomicU32

	ring *listRing

	statsEnabled      atomic.Bool
	statsMinAvailable atomicU32
	statsCumulative   atomicU64
	statsAllocCount   atomicU64
	statsDeallocCount atomicU64

	logger  Logger
	limiter *catrate.Limiter
}

// New constructs an Allocator over buf. buf must be non-nil, non-empty, and
// no longer than math.MaxUint32 bytes; violations are reported as
// ErrBaseAddressVoid / ErrSizeIsZero directly, since this module has no
// external factory collaborator to delegate that validation to.
//
// buf is retained for the Allocator's lifetime and must not be touched by
// the caller afterward except through the Region values Allocate returns.
func New(buf []byte, opts ...Option) (*Allocator, error) {
	if buf == nil {
		return nil, ErrBaseAddressVoid
	}
	if len(buf) == 0 || len(buf) > math.MaxUint32 {
		return nil, ErrSizeIsZero
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.defaultAlignment == 0 {
		cfg.defaultAlignment = pageSize()
	}

	totalSize := uint32(len(buf))

	var limiter *catrate.Limiter
	if len(cfg.rateLimits) > 0 {
		limiter = catrate.NewLimiter(cfg.rateLimits)
	}

	a := &Allocator{
		buf:              buf,
		base:             unsafe.Pointer(&buf[0]),
		totalSize:        totalSize,
		defaultAlignment: cfg.defaultAlignment,
		logger:           cfg.logger,
		limiter:          limiter,
	}
	a.bufferHead = cfg.atomicU32Factory("buffer_head", 0)
	a.bufferTail = cfg.atomicU32Factory("buffer_tail", 0)
	a.gapAddress = cfg.atomicU32Factory("gap_address", sentinelGapAddress)
	a.availableSize = cfg.atomicU32Factory("available_size", totalSize)
	a.lastError = cfg.atomicU32Factory("last_error", uint32(ErrCodeNone))
	a.wrapAround = cfg.atomicBoolFactory("wrap_around", false)
	a.statsMinAvailable = cfg.atomicU32Factory("stats_min_available", totalSize)
	a.statsCumulative = cfg.atomicU64Factory("stats_cumulative", 0)
	a.statsAllocCount = cfg.atomicU64Factory("stats_alloc_count", 0)
	a.statsDeallocCount = cfg.atomicU64Factory("stats_dealloc_count", 0)
	a.statsEnabled.Store(cfg.statsEnabled)
	a.ring = newListRing(cfg.ringCapacity, cfg.atomicU64Factory, cfg.atomicU32Factory)

	if a.logger.Enabled(LevelInfo) {
		a.logger.Log(Event{
			Level:    LevelInfo,
			Category: "construct",
			Message:  fmt.Sprintf("ringalloc: allocator constructed over %d bytes, ring capacity %d", totalSize, cfg.ringCapacity),
			Fields: map[string]any{
				"total_size":    totalSize,
				"ring_capacity": cfg.ringCapacity,
			},
		})
	}

	return a, nil
}

// Available returns the allocator's current available_size: total_size
// minus the sum of currently reserved region sizes.
func (a *Allocator) Available() uint32 { return a.availableSize.Load() }

// Base returns the backing buffer's start address, for diagnostics only; it
// carries no meaning once the buffer's backing array has been garbage
// collected.
func (a *Allocator) Base() uintptr { return uintptr(a.base) }

// Size returns the backing buffer's total size.
func (a *Allocator) Size() uint32 { return a.totalSize }

// LastError returns the most recent internal error observed during the last
// public Allocate or Deallocate call, or nil if none was set. It is cleared
// at the start of every such call, so a caller that wants to detect an error
// from a specific call must inspect LastError before issuing another one.
func (a *Allocator) LastError() error {
	return errorForCode(ErrorCode(a.lastError.Load()))
}

// clearError resets the error register to ErrCodeNone, as required at the
// top of every public Allocate/Deallocate call.
func (a *Allocator) clearError() {
	a.lastError.Store(uint32(ErrCodeNone))
}

// setError records code in the error register and, subject to the
// configured rate limiter, emits a structured diagnostic for it.
func (a *Allocator) setError(code ErrorCode) {
	a.lastError.Store(uint32(code))
	a.logDiagnostic(LevelError, errorLogCategory(code), code.String(), nil)
}

// logDiagnostic emits a Logger event unless the configured rate limiter
// suppresses this category right now. Rate limiting never affects
// LastError: it only bounds how chatty the log stream gets under repeated
// or adversarial failures.
func (a *Allocator) logDiagnostic(level Level, category, message string, fields map[string]any) {
	if a.logger == nil || !a.logger.Enabled(level) {
		return
	}
	if a.limiter != nil {
		if _, allow := a.limiter.Allow(category); !allow {
			return
		}
	}
	a.logger.Log(Event{Level: level, Category: category, Message: message, Fields: fields})
}
