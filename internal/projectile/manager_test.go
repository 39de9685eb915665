package projectile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
)

type fakePlayer struct {
	pos             complex128
	hitR, grazeR    float64
	damaged, grazed int
}

func (f *fakePlayer) ID() entity.ID                               { return 1 }
func (f *fakePlayer) DrawLayer() int                              { return 0 }
func (f *fakePlayer) Draw()                                       {}
func (f *fakePlayer) Damage(entity.DamageInfo) entity.DamageResult { f.damaged++; return entity.DamageResultOK }
func (f *fakePlayer) Position() complex128                        { return f.pos }
func (f *fakePlayer) HitRadius() float64                          { return f.hitR }
func (f *fakePlayer) GrazeRadius() float64                        { return f.grazeR }
func (f *fakePlayer) Graze(n int)                                 { f.grazed += n }

type fakeEnemy struct {
	pos    complex128
	hp     float64
	immune bool
}

func (f *fakeEnemy) ID() entity.ID    { return 2 }
func (f *fakeEnemy) DrawLayer() int   { return 0 }
func (f *fakeEnemy) Draw()            {}
func (f *fakeEnemy) Position() complex128 { return f.pos }
func (f *fakeEnemy) HitRadius() float64   { return 10 }
func (f *fakeEnemy) Damage(info entity.DamageInfo) entity.DamageResult {
	if f.immune {
		return entity.DamageResultImmune
	}
	f.hp -= info.Amount
	return entity.DamageResultOK
}

func newManager() (*Manager, *entity.Registry) {
	reg := entity.NewRegistry(16)
	m := NewManager(reg, 8, Viewport{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100})
	return m, reg
}

func TestSpawnEmitsHighlightUnlessSuppressed(t *testing.T) {
	m, _ := newManager()
	var spawned int
	m.SetEffectHooks(func(_ complex128, _ colorx.Color) { spawned++ }, nil, nil)

	m.Spawn(0, SpawnParams{Type: TypeEnemy, Move: move.Default()})
	assert.Equal(t, 1, spawned)

	m.Spawn(0, SpawnParams{Type: TypeEnemy, Move: move.Default(), Flags: FlagNoSpawnEffect})
	assert.Equal(t, 1, spawned)
}

func TestEnemyProjectileDamagesPlayerOnProximity(t *testing.T) {
	m, _ := newManager()
	m.Spawn(0, SpawnParams{
		Type:      TypeEnemy,
		Pos:       complex(0, 0),
		Move:      move.Default(),
		Collision: Collision{Shape: ShapeCircle, Radius: 1},
	})

	player := &fakePlayer{pos: complex(0.5, 0), hitR: 1}
	m.Update(1, player, nil, true)

	assert.Equal(t, 1, player.damaged)
}

func TestEnemyProjectileGrazesWithoutDamageOutsideHitRadius(t *testing.T) {
	m, _ := newManager()
	m.Spawn(0, SpawnParams{
		Type:      TypeEnemy,
		Pos:       complex(0, 0),
		Move:      move.Default(),
		Collision: Collision{Shape: ShapeCircle, Radius: 1},
	})

	player := &fakePlayer{pos: complex(5, 0), hitR: 1, grazeR: 10}
	m.Update(1, player, nil, true)

	assert.Equal(t, 0, player.damaged)
	assert.Equal(t, 1, player.grazed)
}

func TestPlayerProjectileDamagesEnemyAndIsDestroyed(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{
		Type:      TypePlayer,
		Pos:       complex(0, 0),
		Move:      move.Default(),
		Collision: Collision{Shape: ShapeCircle, Radius: 1},
		Damage:    5,
	})

	enemy := &fakeEnemy{pos: complex(0, 0), hp: 20}
	m.Update(1, nil, []Target{enemy}, true)

	assert.Equal(t, 15.0, enemy.hp)

	// The same Update call sweeps the destroyed projectile, so its handle
	// no longer resolves.
	_, ok := reg.Resolve(h)
	require.False(t, ok)
	assert.Equal(t, 0, m.LiveCount())
}

func TestImmuneEnemyIsNotDamagedAndProjectileSurvives(t *testing.T) {
	m, _ := newManager()
	m.Spawn(0, SpawnParams{
		Type:      TypePlayer,
		Pos:       complex(0, 0),
		Move:      move.Default(),
		Collision: Collision{Shape: ShapeCircle, Radius: 1},
		Damage:    5,
	})

	enemy := &fakeEnemy{pos: complex(0, 0), hp: 20, immune: true}
	m.Update(1, nil, []Target{enemy}, true)

	assert.Equal(t, 20.0, enemy.hp)
	assert.Equal(t, 1, m.LiveCount())
}

func TestNoCollisionFlagNeverDamages(t *testing.T) {
	m, _ := newManager()
	m.Spawn(0, SpawnParams{
		Type:      TypeEnemy,
		Pos:       complex(0, 0),
		Move:      move.Default(),
		Collision: Collision{Shape: ShapeCircle, Radius: 1},
		Flags:     FlagNoCollision,
	})

	player := &fakePlayer{pos: complex(0, 0), hitR: 1}
	m.Update(1, player, nil, true)

	assert.Equal(t, 0, player.damaged)
}

func TestOffViewportProjectileIsDestroyed(t *testing.T) {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{
		Type: TypeParticle,
		Pos:  complex(0, 0),
		Move: move.Linear(complex(1000, 0)),
	})

	m.Update(1, nil, nil, false)

	_, ok := reg.Resolve(h)
	assert.False(t, ok)
}

func TestClearAllMarksClearableProjectilesDeadAndSweepsBounded(t *testing.T) {
	m, _ := newManager()
	var cleared int
	m.SetEffectHooks(nil, nil, func(_ *Projectile) { cleared++ })

	for i := 0; i < 7; i++ {
		m.Spawn(0, SpawnParams{Type: TypeEnemy, Pos: complex(0, 0), Move: move.Default()})
	}
	assert.Equal(t, 7, m.LiveCount())

	m.ClearAll()
	assert.Equal(t, 7, cleared)

	// Bounded sweep: only maxDeathSweepPerFrame are released per Update call.
	m.Update(1, nil, nil, false)
	assert.Equal(t, 2, len(m.deadQueue))

	m.Update(2, nil, nil, false)
	assert.Equal(t, 0, len(m.deadQueue))
}
