package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
)

type fakePlayer struct {
	pos complex128
}

func (f *fakePlayer) ID() entity.ID     { return 1 }
func (f *fakePlayer) DrawLayer() int    { return 0 }
func (f *fakePlayer) Draw()             {}
func (f *fakePlayer) Position() complex128 { return f.pos }
func (f *fakePlayer) Damage(entity.DamageInfo) entity.DamageResult {
	return entity.DamageResultImmune
}

func newManager() (*Manager, *entity.Registry) {
	reg := entity.NewRegistry(16)
	return NewManager(reg, 8), reg
}

func TestItemIsCollectedWithinRadius(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{Pos: complex(0, 0), Move: move.Default(), Type: TypePower, PickupValue: PowerValue})

	player := &fakePlayer{pos: complex(2, 0)}
	var collected []Type
	m.SetOnCollect(func(t Type, value float64) { collected = append(collected, t) })

	m.Update(1, player, 5)

	assert.Equal(t, []Type{TypePower}, collected)
	_, ok := reg.Resolve(h)
	assert.False(t, ok)
}

func TestItemOutsideRadiusDrifts(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{Pos: complex(0, 0), Move: move.Linear(complex(1, 0)), Type: TypePower})

	player := &fakePlayer{pos: complex(100, 0)}
	var collectedCount int
	m.SetOnCollect(func(Type, float64) { collectedCount++ })

	m.Update(1, player, 5)

	assert.Equal(t, 0, collectedCount)
	ent, ok := reg.Resolve(h)
	require.True(t, ok)
	assert.Equal(t, complex(1, 0), ent.(*Item).Pos)
}

func TestAutoCollectItemsCollectOnFirstUpdateRegardlessOfDistance(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{Pos: complex(0, 0), Move: move.Default(), Type: TypeBomb, AutoCollect: true})

	var collected []Type
	m.SetOnCollect(func(t Type, value float64) { collected = append(collected, t) })

	m.Update(1, &fakePlayer{pos: complex(10000, 10000)}, 5)

	assert.Equal(t, []Type{TypeBomb}, collected)
	_, ok := reg.Resolve(h)
	assert.False(t, ok)
}

func TestDrawLayerOrdersByImportance(t *testing.T) {
	piv := Item{Type: TypePIV}
	life := Item{Type: TypeLife}
	assert.Less(t, piv.DrawLayer(), life.DrawLayer())
}
