// Package pool implements §4.1's fixed-capacity object pool: a ring of
// typed slots with a free list. acquire() returns an uninitialized slot
// (falling back to heap allocation when full, never aborting outright —
// §7 classifies pool exhaustion as logged-but-not-fatal); release()
// returns a slot to the free list and zeroes it.
//
// Generics let one implementation back projectiles, enemies, and items
// (§4.1 "the pool is the storage backing high-churn entities") without
// the void*-and-macros approach the original C engine used.
package pool

import "github.com/taisei-project/core/internal/corelog"

// Pool is a fixed-capacity, generation-tracked store of *T. A slot never
// changes its logical occupant without its generation being bumped,
// which is what lets entity.Registry build safe weak handles on top of
// it (§4.2).
type Pool[T any] struct {
	slots      []T
	live       []bool
	generation []uint32
	free       []int32 // stack of free slot indices
	overflow   []*T    // heap fallback once the ring is exhausted
	overflowIx map[*T]int
	name       string
}

// New creates a pool of the given fixed capacity.
func New[T any](name string, capacity int) *Pool[T] {
	p := &Pool[T]{
		slots:      make([]T, capacity),
		live:       make([]bool, capacity),
		generation: make([]uint32, capacity),
		free:       make([]int32, capacity),
		overflowIx: make(map[*T]int),
		name:       name,
	}
	for i := 0; i < capacity; i++ {
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// Cap returns the fixed ring capacity (not counting heap overflow).
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Acquire returns a pointer to a fresh, zero-valued slot along with its
// current slot index and generation (index is -1 for heap-overflow
// allocations, which boxed handles must not be built from: overflow
// entries are for transient objects only, e.g. the original's "pool full,
// spill onto the heap" escape hatch).
func (p *Pool[T]) Acquire() (ptr *T, index int, generation uint32) {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.live[idx] = true
		var zero T
		p.slots[idx] = zero
		return &p.slots[idx], int(idx), p.generation[idx]
	}

	corelog.Warnf("pool %q: capacity %d exhausted, overflowing to heap", p.name, len(p.slots))
	var zero T
	obj := &zero
	p.overflow = append(p.overflow, obj)
	p.overflowIx[obj] = len(p.overflow) - 1
	return obj, -1, 0
}

// Release returns a ring slot to the free list, bumping its generation so
// that any boxed handle referencing the old occupant resolves to "gone"
// thereafter (§4.2 invariant, §8 P1/P2). Releasing an overflow object
// (index == -1) simply drops the heap reference.
func (p *Pool[T]) Release(ptr *T, index int) {
	if index < 0 {
		if ix, ok := p.overflowIx[ptr]; ok {
			last := len(p.overflow) - 1
			p.overflow[ix] = p.overflow[last]
			p.overflowIx[p.overflow[ix]] = ix
			p.overflow = p.overflow[:last]
			delete(p.overflowIx, ptr)
		}
		return
	}

	corelog.Assert(index < len(p.slots), "pool %q: release index %d out of range", p.name, index)
	if !p.live[index] {
		return
	}
	var zero T
	p.slots[index] = zero
	p.live[index] = false
	p.generation[index]++
	p.free = append(p.free, int32(index))
}

// At returns a pointer to the occupant of slot index and whether it is
// currently live (used by entity.Registry to resolve boxed handles).
func (p *Pool[T]) At(index int) (ptr *T, live bool) {
	if index < 0 || index >= len(p.slots) {
		return nil, false
	}
	return &p.slots[index], p.live[index]
}

// Generation returns the current generation counter for a ring slot.
func (p *Pool[T]) Generation(index int) uint32 {
	if index < 0 || index >= len(p.generation) {
		return 0
	}
	return p.generation[index]
}

// Live calls fn for every currently-occupied ring slot, in slot order
// (stable iteration is relied on by §4.11's "consistent snapshot per
// frame" ordering contract when a subsystem walks its pool directly).
func (p *Pool[T]) Live(fn func(index int, ptr *T)) {
	for i := range p.slots {
		if p.live[i] {
			fn(i, &p.slots[i])
		}
	}
}

// LiveCount returns the number of occupied ring slots plus overflow objects.
func (p *Pool[T]) LiveCount() int {
	n := 0
	for _, l := range p.live {
		if l {
			n++
		}
	}
	return n + len(p.overflow)
}
