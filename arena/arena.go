// Package arena implements the bump allocator backing per-worker scratch
// state. One Arena is owned per worker goroutine; the xpu package packs
// each tile's pending-sample list into it inside one Acquire/Release
// scope. Slices it hands out must never be retained across a Reset.
package arena

import (
	"fmt"
)

const defaultAlignment = 32

// Arena is a stack-like bump allocator backed by a single preallocated
// slab, mirroring a habit of preallocating one reusable scratch buffer
// and overwriting it on every call (stackblur.go's ring buffers,
// carver.go's energy-map slice) generalized into an explicit allocator
// with scoped reset.
type Arena struct {
	slab  []byte
	top   int
	align int
	// generation increments on every Reset; Marks capture it so a stale
	// Guard can be detected defensively in tests.
	generation uint64
}

// New allocates an Arena backed by a slab of the given byte size, aligned
// to a 32-byte default.
func New(size int) *Arena {
	return NewAligned(size, defaultAlignment)
}

// NewAligned allocates an Arena with a caller-specified alignment, which
// must be a power of two.
func NewAligned(size, alignment int) *Arena {
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		panic(fmt.Sprintf("arena: alignment must be a power of two, got %d", alignment))
	}
	return &Arena{
		slab:  make([]byte, size),
		align: alignment,
	}
}

func (a *Arena) alignUp(n int) int {
	mask := a.align - 1
	return (n + mask) &^ mask
}

// OutOfMemory is returned by Allocate when the slab is exhausted.
type OutOfMemory struct {
	Requested int
	Remaining int
}

func (e *OutOfMemory) Error() string {
	return fmt.Sprintf("arena: out of memory: requested %d bytes, %d remaining", e.Requested, e.Remaining)
}

// Allocate reserves n bytes from the slab, aligned to the arena's
// alignment, and returns a slice over them. It returns OutOfMemory if the
// slab cannot satisfy the request. Callers must never retain the returned
// slice across a Reset.
func (a *Arena) Allocate(n int) ([]byte, error) {
	start := a.alignUp(a.top)
	end := start + n
	if end > len(a.slab) {
		return nil, &OutOfMemory{Requested: n, Remaining: len(a.slab) - start}
	}
	a.top = end
	return a.slab[start:end:end], nil
}

// Top returns the current bump offset, usable with Reset to restore a
// specific mark (see Mark/Guard for the common scoped pattern).
func (a *Arena) Top() int { return a.top }

// Reset restores the bump offset to the given mark (typically 0, to free
// the whole arena, or a value captured by Mark). It increments the arena's
// generation so previously issued slices are understood to be invalid.
func (a *Arena) Reset(mark int) {
	a.top = mark
	a.generation++
}

// Cap returns the slab's total capacity in bytes.
func (a *Arena) Cap() int { return len(a.slab) }

// Mark captures the arena's current top, to be passed to a Guard or
// directly to Reset.
type Mark struct {
	offset     int
	generation uint64
}

// Acquire captures the current arena state into a Guard. Guard.Release
// restores it on every exit path, the scoped-acquisition-guard discipline
// bounce-scoped allocations need.
func (a *Arena) Acquire() Guard {
	return Guard{
		arena: a,
		mark:  Mark{offset: a.top, generation: a.generation},
	}
}

// Guard restores the arena to the state captured at Acquire time when
// Release is called. It is intended to be used with defer:
//
//	g := arena.Acquire()
//	defer g.Release()
type Guard struct {
	arena *Arena
	mark  Mark
}

// Release restores the arena's top to the mark captured at Acquire. It is
// a no-op if the arena was already Reset to an earlier or equal mark by
// someone else (same or newer generation with a smaller top), which can
// happen if a caller resets the whole arena mid-scope.
func (g Guard) Release() {
	if g.arena == nil {
		return
	}
	if g.arena.generation != g.mark.generation && g.arena.top <= g.mark.offset {
		// Arena was already reset to this mark or below since this guard
		// was acquired; restoring would move top forward again.
		return
	}
	g.arena.top = g.mark.offset
	g.arena.generation++
}
