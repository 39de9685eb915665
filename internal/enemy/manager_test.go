package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
)

type fakePlayer struct {
	pos     complex128
	hitR    float64
	damaged int
}

func (f *fakePlayer) ID() entity.ID     { return 1 }
func (f *fakePlayer) DrawLayer() int    { return 0 }
func (f *fakePlayer) Draw()             {}
func (f *fakePlayer) Position() complex128 { return f.pos }
func (f *fakePlayer) HitRadius() float64   { return f.hitR }
func (f *fakePlayer) Damage(entity.DamageInfo) entity.DamageResult {
	f.damaged++
	return entity.DamageResultOK
}

func newManager() (*Manager, *entity.Registry) {
	reg := entity.NewRegistry(16)
	m := NewManager(reg, 8, Viewport{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100})
	return m, reg
}

func TestFriendlyFireNeverDamagesEnemy(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{HP: 10})
	e := mustResolve(t, reg, h)

	res := e.Damage(entity.DamageInfo{Type: entity.DamageEnemyShot, Amount: 5})
	assert.Equal(t, entity.DamageResultImmune, res)
	assert.Equal(t, 10.0, e.HP)
}

func TestInvulnerableAndImmuneHPRejectDamage(t *testing.T) {
	m, reg := newManager()
	h1 := m.Spawn(0, SpawnParams{HP: 10, Flags: FlagInvulnerable})
	e1 := mustResolve(t, reg, h1)
	assert.Equal(t, entity.DamageResultImmune, e1.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: 5}))

	h2 := m.Spawn(0, SpawnParams{HP: HPImmune})
	e2 := mustResolve(t, reg, h2)
	assert.True(t, e2.IsImmuneHP())
	assert.Equal(t, entity.DamageResultImmune, e2.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: 5}))
}

func TestLowHealthFiresOnceWhenCrossingTenPercent(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{HP: 100})
	e := mustResolve(t, reg, h)

	var fired int
	e.LowHealth.Subscribe(wakerFunc(func(any, bool) { fired++ }))

	e.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: 85})
	assert.Equal(t, 1, fired)

	e.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: 1})
	assert.Equal(t, 1, fired)
}

func TestDamageDepletingHPMarksKilledAndRecordsSource(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{HP: 10})
	e := mustResolve(t, reg, h)

	res := e.Damage(entity.DamageInfo{Type: entity.DamagePlayerBomb, Amount: 15})
	assert.Equal(t, entity.DamageResultOK, res)
	assert.True(t, e.IsKilled())
	assert.Equal(t, entity.DamagePlayerBomb, e.killedByType)
}

func TestUpdateRunsKilledEnemysDeathSequenceOnce(t *testing.T) {
	m, reg := newManager()
	var deaths, bonuses int
	m.SetHooks(func(*Enemy) { deaths++ }, func(*Enemy, entity.DamageType) { bonuses++ })

	h := m.Spawn(0, SpawnParams{HP: 10})
	e := mustResolve(t, reg, h)

	var killedSignaled int
	e.Killed.Subscribe(wakerFunc(func(any, bool) { killedSignaled++ }))

	e.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: 20})
	m.Update(1, nil)

	assert.Equal(t, 1, deaths)
	assert.Equal(t, 1, bonuses)
	assert.Equal(t, 1, killedSignaled)
	_, ok := reg.Resolve(h)
	assert.False(t, ok)
}

func TestBonusNotAwardedForLogicRuleOrAutokillDestruction(t *testing.T) {
	m, reg := newManager()
	var bonuses int
	m.SetHooks(nil, func(*Enemy, entity.DamageType) { bonuses++ })

	h := m.Spawn(0, SpawnParams{
		HP:    10,
		Logic: func(e *Enemy, age int) Action { return ActionDestroy },
	})
	m.Update(1, nil)
	assert.Equal(t, 0, bonuses)
	_, ok := reg.Resolve(h)
	assert.False(t, ok)
}

func TestViewportAutokillRespectsNoAutokillFlag(t *testing.T) {
	m, reg := newManager()

	h1 := m.Spawn(0, SpawnParams{HP: 10, Pos: complex(0, 0)})
	e1 := mustResolve(t, reg, h1)
	e1.Pos = complex(1000, 0)

	h2 := m.Spawn(0, SpawnParams{HP: 10, Pos: complex(0, 0), Flags: FlagNoAutokill})
	e2 := mustResolve(t, reg, h2)
	e2.Pos = complex(1000, 0)

	m.Update(1, nil)

	_, ok1 := reg.Resolve(h1)
	assert.False(t, ok1)
	_, ok2 := reg.Resolve(h2)
	assert.True(t, ok2)
}

func TestHurtRadiusCollisionDamagesPlayer(t *testing.T) {
	m, _ := newManager()
	m.Spawn(0, SpawnParams{HP: 10, Pos: complex(0, 0), HurtRadius: 5, Move: move.Default()})

	player := &fakePlayer{pos: complex(1, 0), hitR: 1}
	m.Update(1, player)

	assert.Equal(t, 1, player.damaged)
}

func TestAlphaFadesInAndVisualRuleRunsWithRenderFalse(t *testing.T) {
	m, reg := newManager()
	var gotRender bool
	h := m.Spawn(0, SpawnParams{
		HP: 10,
		Visual: func(e *Enemy, age int, render bool) {
			gotRender = render
		},
	})
	e := mustResolve(t, reg, h)
	e.Alpha = 0

	m.Update(1, nil)
	assert.InDelta(t, 0.1, e.Alpha, 0.0001)
	assert.False(t, gotRender)
}

func mustResolve(t *testing.T, reg *entity.Registry, h entity.Handle) *Enemy {
	ent, ok := reg.Resolve(h)
	require.True(t, ok)
	return ent.(*Enemy)
}

// wakerFunc adapts a plain function to event.Waiter for test subscriptions.
type wakerFunc func(value any, canceled bool)

func (f wakerFunc) Wake(value any, canceled bool) { f(value, canceled) }
