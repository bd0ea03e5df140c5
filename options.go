// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package ringalloc

import (
	"fmt"
	"time"
)

// config accumulates the effect of every Option passed to New.
type config struct {
	ringCapacity     uint32
	statsEnabled     bool
	logger           Logger
	rateLimits       map[time.Duration]int
	defaultAlignment uint32

	atomicU32Factory  atomicU32Factory
	atomicU64Factory  atomicU64Factory
	atomicBoolFactory atomicBoolFactory
}

func defaultConfig() *config {
	return &config{
		ringCapacity:      defaultRingCapacity,
		logger:            defaultLogger,
		atomicU32Factory:  newRealAtomicU32,
		atomicU64Factory:  newRealAtomicU64,
		atomicBoolFactory: newRealAtomicBool,
	}
}

// Option configures an Allocator at construction time, following the same
// functional-options shape as the teacher event loop package's LoopOption.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (f optionFunc) apply(c *config) error { return f(c) }

// WithRingCapacity sets K, the number of list-entry ring slots (including
// the reserved sentinel at index 0). It must be at least 2, so at least one
// usable slot exists. Defaults to defaultRingCapacity.
func WithRingCapacity(k uint32) Option {
	return optionFunc(func(c *config) error {
		if k < 2 {
			return fmt.Errorf("ringalloc: ring capacity must be >= 2, got %d", k)
		}
		c.ringCapacity = k
		return nil
	})
}

// WithStatistics enables statistics collection from construction, rather
// than waiting for the first StatsSnapshot call to turn it on lazily (the
// distilled specification's default behavior, still honored when this
// option is omitted: see Allocator.StatsSnapshot).
func WithStatistics(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.statsEnabled = enabled
		return nil
	})
}

// WithLogger attaches a Logger the Allocator reports construction, wrap, and
// corruption diagnostics through. The default is a no-op logger.
func WithLogger(logger Logger) Option {
	return optionFunc(func(c *config) error {
		if logger == nil {
			logger = defaultLogger
		}
		c.logger = logger
		return nil
	})
}

// WithRateLimits bounds how often repeated diagnostics of the same category
// (see errorLogCategory) are emitted to the Logger, independent of how often
// the underlying condition actually recurs; LastError always reflects the
// most recent observation regardless of whether its log line was suppressed.
// Omitting this option (or passing an empty map) disables rate limiting:
// every diagnostic is logged.
func WithRateLimits(rates map[time.Duration]int) Option {
	return optionFunc(func(c *config) error {
		c.rateLimits = rates
		return nil
	})
}

// WithDefaultAlignment sets the alignment Allocate uses when called with
// alignment == 0. It must be a power of two. Defaults to the platform page
// size (see pagesize_unix.go, pagesize_windows.go and pagesize_other.go).
func WithDefaultAlignment(alignment uint32) Option {
	return optionFunc(func(c *config) error {
		if !isPowerOfTwo(alignment) {
			return fmt.Errorf("ringalloc: default alignment must be a power of two, got %d", alignment)
		}
		c.defaultAlignment = alignment
		return nil
	})
}

// withAtomicFactories overrides the atomic field constructors used by New.
// It is unexported: the only test collaborator the distilled specification
// calls for (C1's mock atomic indirection) is reachable solely from this
// package's own _test.go files, never from outside the module.
func withAtomicFactories(u32 atomicU32Factory, u64 atomicU64Factory, b atomicBoolFactory) Option {
	return optionFunc(func(c *config) error {
		if u32 != nil {
			c.atomicU32Factory = u32
		}
		if u64 != nil {
			c.atomicU64Factory = u64
		}
		if b != nil {
			c.atomicBoolFactory = b
		}
		return nil
	})
}
