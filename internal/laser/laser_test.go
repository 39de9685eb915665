package laser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taisei-project/core/internal/entity"
)

type fakePlayer struct {
	pos     complex128
	hitR    float64
	damaged int
}

func (f *fakePlayer) ID() entity.ID     { return 9 }
func (f *fakePlayer) DrawLayer() int    { return 0 }
func (f *fakePlayer) Draw()             {}
func (f *fakePlayer) Position() complex128 { return f.pos }
func (f *fakePlayer) HitRadius() float64   { return f.hitR }
func (f *fakePlayer) Damage(entity.DamageInfo) entity.DamageResult {
	f.damaged++
	return entity.DamageResultOK
}

func straightLine() PosRule {
	return func(t float64) complex128 { return complex(t*10, 0) }
}

func TestWidthEnvelopeRampsInAndOut(t *testing.T) {
	w := WidthEnvelope{Width: 10, RampIn: 10, RampOut: 10, Lifetime: 100}
	assert.Equal(t, 0.0, w.At(0))
	assert.InDelta(t, 5.0, w.At(5), 0.001)
	assert.Equal(t, 10.0, w.At(50))
	assert.InDelta(t, 5.0, w.At(95), 0.001)
}

func TestLaserDiesAtLifetimeEnd(t *testing.T) {
	reg := entity.NewRegistry(4)
	m := NewManager(reg, 4)
	h := m.Spawn(0, SpawnParams{Pos: straightLine(), Width: WidthEnvelope{Width: 5, Lifetime: 3}})

	m.Update(1, nil)
	_, ok := reg.Resolve(h)
	assert.True(t, ok)

	m.Update(3, nil)
	_, ok = reg.Resolve(h)
	assert.False(t, ok)
}

func TestLaserDamagesPlayerWithinSweptWidth(t *testing.T) {
	reg := entity.NewRegistry(4)
	m := NewManager(reg, 4)
	m.Spawn(0, SpawnParams{Pos: straightLine(), Width: WidthEnvelope{Width: 4, Lifetime: 100}, Damage: 3})

	player := &fakePlayer{pos: complex(50, 0), hitR: 1}
	m.Update(5, player)

	assert.Equal(t, 1, player.damaged)
}

func TestLaserMissesPlayerFarFromCurve(t *testing.T) {
	reg := entity.NewRegistry(4)
	m := NewManager(reg, 4)
	m.Spawn(0, SpawnParams{Pos: straightLine(), Width: WidthEnvelope{Width: 4, Lifetime: 100}, Damage: 3})

	player := &fakePlayer{pos: complex(50, 500), hitR: 1}
	m.Update(5, player)

	assert.Equal(t, 0, player.damaged)
}
