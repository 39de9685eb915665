package item

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
	"github.com/taisei-project/core/internal/pool"
)

// PlayerTarget is the player-shaped surface items can be collected by.
type PlayerTarget interface {
	entity.Interface
	Position() cmplx2d.Vec
}

// SpawnParams gathers create_item's arguments.
type SpawnParams struct {
	Pos         cmplx2d.Vec
	Move        move.Params
	Type        Type
	PickupValue float64
	AutoCollect bool
}

// Manager owns the item pool and drives the §4.11 item pass.
type Manager struct {
	pool *pool.Pool[Item]
	reg  *entity.Registry

	onCollect func(t Type, value float64)
}

func NewManager(reg *entity.Registry, capacity int) *Manager {
	return &Manager{pool: pool.New[Item]("item", capacity), reg: reg}
}

// SetOnCollect wires the side effect of a pickup landing (power/voltage/
// bomb/life bookkeeping), which lives on the player and so outside this
// package (the same hook-field pattern internal/enemy's Manager uses).
func (m *Manager) SetOnCollect(fn func(t Type, value float64)) {
	m.onCollect = fn
}

// Spawn creates a new item (create_item).
func (m *Manager) Spawn(frame int, p SpawnParams) entity.Handle {
	entity.AssertNotDrawing("item")

	ptr, idx, _ := m.pool.Acquire()
	*ptr = Item{
		id:          m.reg.NewID(),
		Pos:         p.Pos,
		Birth:       frame,
		Move:        p.Move,
		Type:        p.Type,
		PickupValue: p.PickupValue,
		AutoCollect: p.AutoCollect,
		poolIndex:   idx,
	}
	h := m.reg.Register(ptr)
	ptr.handle = h
	return h
}

// Update implements §4.11 step 6: drift, then collect on proximity —
// collectRadius is the caller-supplied auto-collect radius, already
// widened for a focused player (the widening itself is player state
// this package has no business reading directly).
func (m *Manager) Update(frame int, player PlayerTarget, collectRadius float64) {
	var collected []*Item

	m.pool.Live(func(idx int, it *Item) {
		newPos, _ := it.Move.Step(it.Pos)
		it.Pos = newPos

		if it.AutoCollect {
			collected = append(collected, it)
			return
		}
		if player == nil {
			return
		}
		if cmplx2d.Abs(it.Pos-player.Position()) <= collectRadius {
			collected = append(collected, it)
		}
	})

	for _, it := range collected {
		m.collect(it)
	}
}

func (m *Manager) collect(it *Item) {
	if m.onCollect != nil {
		m.onCollect(it.Type, it.PickupValue)
	}
	m.reg.Unregister(it.handle)
	m.pool.Release(it, it.poolIndex)
}

// LiveCount reports the number of items still drifting/uncollected.
func (m *Manager) LiveCount() int {
	return m.pool.LiveCount()
}
