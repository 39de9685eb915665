// Package entity implements §3's "Entity"/"Boxed handle" data model and
// §4.2's registry: a single global table mapping every live game object
// (independent of which typed object pool, if any, backs its storage) to
// a stable (index, generation) pair. Resolving a handle whose generation
// doesn't match the slot's current generation yields "gone" — never a
// stale pointer, never a panic (§7).
package entity

import "github.com/taisei-project/core/internal/corelog"

// ID is a process-lifetime-unique identity handed out at registration.
// It is distinct from a Handle's slot index: slots are reused, IDs never
// repeat (useful for logging/telemetry that must survive slot reuse).
type ID uint64

// DamageType classifies a damage source for §4.9's enemy damage handler
// (friendly-fire immunity: enemy-sourced damage never harms enemies).
type DamageType int

const (
	DamageNone DamageType = iota
	DamageEnemyShot
	DamageEnemyCollision
	DamagePlayerShot
	DamagePlayerDischarge
	DamagePlayerBomb
)

// DamageResult is the outcome of a damage application.
type DamageResult int

const (
	DamageResultOK DamageResult = iota
	DamageResultImmune
)

// DamageInfo is passed to Interface.Damage.
type DamageInfo struct {
	Type   DamageType
	Amount float64
	Source ID
}

// Interface is the common contract every registrable game object
// implements (§3 "Entity"): a draw-layer ordering key, a draw dispatch,
// and a damage dispatch. Entities without a sensible notion of damage
// (e.g. particles) implement Damage as a no-op returning DamageResultImmune.
type Interface interface {
	ID() ID
	DrawLayer() int
	Draw()
	Damage(DamageInfo) DamageResult
}

// Handle is a §3 "boxed handle": a (slot index, generation) pair. It is
// the only reference a task may safely hold across a suspension point.
type Handle struct {
	index      int32
	generation uint32
	valid      bool
}

// Nil is the zero handle; Resolve always fails for it.
var Nil = Handle{}

func (h Handle) IsNil() bool { return !h.valid }

type slot struct {
	ent        Interface
	generation uint32
	live       bool
}

// Registry is the global entity table (§4.2). One Registry is shared by
// the whole simulation; it is not safe for concurrent use from multiple
// goroutines, matching §5's single-simulation-thread model.
type Registry struct {
	slots   []slot
	free    []int32
	nextID  ID
	byLayer bool // reserved for future draw-order caching; unused today
}

func NewRegistry(initialCapacity int) *Registry {
	return &Registry{slots: make([]slot, 0, initialCapacity)}
}

// NewID hands out a fresh process-lifetime-unique ID, distinct from any
// slot index (§3: "a stable identity ... distinct from ... a Handle's
// slot index: slots are reused, IDs never repeat"). Entity constructors
// call this before building the value they'll pass to Register, since
// Interface.ID() must already return something by the time Register runs.
func (r *Registry) NewID() ID {
	r.nextID++
	return r.nextID
}

// Register assigns ent a slot, returning its boxed Handle.
func (r *Registry) Register(ent Interface) Handle {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[idx].ent = ent
		r.slots[idx].live = true
		return Handle{index: idx, generation: r.slots[idx].generation, valid: true}
	}

	idx := int32(len(r.slots))
	r.slots = append(r.slots, slot{ent: ent, live: true})
	return Handle{index: idx, generation: 0, valid: true}
}

// Unregister removes ent's slot and bumps its generation (§4.2: "generations
// must increase monotonically on every release so that stale handles
// never resurrect"), so that h no longer resolves (§8 P1, P2).
func (r *Registry) Unregister(h Handle) {
	if !h.valid || int(h.index) >= len(r.slots) {
		return
	}
	s := &r.slots[h.index]
	if !s.live || s.generation != h.generation {
		return
	}
	s.ent = nil
	s.live = false
	s.generation++
	r.free = append(r.free, h.index)
}

// Resolve returns the live entity referenced by h, or (nil, false) if the
// entity is gone — whether because it was destroyed, or because h was
// never valid to begin with. Never panics (§7).
func (r *Registry) Resolve(h Handle) (Interface, bool) {
	if !h.valid || h.index < 0 || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil, false
	}
	return s.ent, true
}

// Count returns the number of currently-registered (live) entities.
func (r *Registry) Count() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].live {
			n++
		}
	}
	return n
}

// ForEach calls fn for every live entity, in draw-layer order, ties
// broken by slot index — the §6 "From the renderer" contract ("iteration
// of entity lists in draw-layer order"). Calling Register/Unregister from
// within fn is a programming error (§4.7 "a projectile born during draw
// code is an error").
func (r *Registry) ForEach(fn func(Handle, Interface)) {
	type entry struct {
		h Handle
		e Interface
	}
	live := make([]entry, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].live {
			live = append(live, entry{Handle{index: int32(i), generation: r.slots[i].generation, valid: true}, r.slots[i].ent})
		}
	}
	// Stable insertion sort by draw layer: entity counts per frame are
	// small enough (hundreds, not millions) that this beats pulling in
	// sort.Slice's interface-call overhead on the hot render path.
	for i := 1; i < len(live); i++ {
		j := i
		for j > 0 && live[j-1].e.DrawLayer() > live[j].e.DrawLayer() {
			live[j-1], live[j] = live[j], live[j-1]
			j--
		}
	}
	for _, e := range live {
		fn(e.h, e.e)
	}
}

// AssertNotDrawing lets subsystems assert the §4.7 "spawning from draw
// code" programming error; a bool flag rather than a goroutine-local is
// sufficient since the whole simulation is single-threaded (§5).
var drawing bool

// EnterDrawPhase/LeaveDrawPhase bracket the render-side draw pass.
func EnterDrawPhase() { drawing = true }
func LeaveDrawPhase() { drawing = false }

// AssertNotDrawing aborts (in debug builds) if called while drawing.
func AssertNotDrawing(what string) {
	corelog.Assert(!drawing, "%s spawned while in drawing code", what)
}
