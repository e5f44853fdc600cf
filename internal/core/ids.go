package core

import "sync/atomic"

// IDAllocator hands out unique, non-zero identifiers. The zero value is ready
// to use and safe for concurrent callers.
type IDAllocator struct {
	last atomic.Uint64
}

// Next returns a fresh identifier.
func (a *IDAllocator) Next() uint64 { return a.last.Add(1) }

// Last returns the most recently issued identifier, or 0 when none was issued.
func (a *IDAllocator) Last() uint64 { return a.last.Load() }
