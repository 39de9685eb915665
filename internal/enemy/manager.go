package enemy

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/event"
	"github.com/taisei-project/core/internal/move"
	"github.com/taisei-project/core/internal/pool"
)

// autoKillMargin is the viewport-exit cull margin, grounded on
// `original_source/src/enemy.c`'s `should_auto_kill` 60px constant.
const autoKillMargin = 60

// Viewport describes the playable area for auto-culling.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

func (v Viewport) contains(p cmplx2d.Vec, margin float64) bool {
	x, y := real(p), imag(p)
	return x >= v.MinX-margin && x <= v.MaxX+margin && y >= v.MinY-margin && y <= v.MaxY+margin
}

// PlayerTarget is the player-shaped surface enemies can hurt on contact.
type PlayerTarget interface {
	entity.Interface
	Position() cmplx2d.Vec
	HitRadius() float64
}

// SpawnParams gathers §6's create_enemy arguments plus the extra fields
// §3 names (move record, radii, flags).
type SpawnParams struct {
	Pos        cmplx2d.Vec
	HP         float64
	Move       move.Params
	Args       uint64
	Logic      LogicRule
	Visual     VisualRule
	HitRadius  float64
	HurtRadius float64
	Flags      Flags
	Color      colorx.Color
	Layer      int
}

// Manager owns the enemy pool and drives §4.9's per-frame pipeline.
type Manager struct {
	pool     *pool.Pool[Enemy]
	reg      *entity.Registry
	viewport Viewport

	onDeathEffect func(e *Enemy)
	onBonusItem   func(e *Enemy, source entity.DamageType)
}

func NewManager(reg *entity.Registry, capacity int, viewport Viewport) *Manager {
	return &Manager{pool: pool.New[Enemy]("enemy", capacity), reg: reg, viewport: viewport}
}

// SetHooks wires the death-effect/bonus-item side effects that live
// outside this package.
func (m *Manager) SetHooks(death func(*Enemy), bonus func(*Enemy, entity.DamageType)) {
	m.onDeathEffect = death
	m.onBonusItem = bonus
}

// Spawn creates a new enemy (§6 create_enemy).
func (m *Manager) Spawn(frame int, p SpawnParams) entity.Handle {
	entity.AssertNotDrawing("enemy")

	ptr, idx, _ := m.pool.Acquire()
	*ptr = Enemy{
		id:         m.reg.NewID(),
		HP:         p.HP,
		SpawnHP:    p.HP,
		Pos:        p.Pos,
		Move:       p.Move,
		Args:       p.Args,
		Logic:      p.Logic,
		Visual:     p.Visual,
		hitRadius:  p.HitRadius,
		hurtRadius: p.HurtRadius,
		Flags:      p.Flags,
		Color:      p.Color,
		Layer:      p.Layer,
		Birth:      frame,
		Killed:     event.New(),
		LowHealth:  event.New(),
		poolIndex:  idx,
	}
	h := m.reg.Register(ptr)
	ptr.handle = h
	return h
}

// Update implements §4.9's five-step per-frame enemy pass.
func (m *Manager) Update(frame int, player PlayerTarget) {
	var dead []*Enemy

	m.pool.Live(func(idx int, e *Enemy) {
		// Step 1: a killed enemy concludes its death sequence. Per
		// DESIGN.md, the killed event SIGNALS here (spec.md's "cancel"
		// wording in this step is superseded by §4.9's later "Death
		// effect" bullet, which is explicit that killed signals).
		if e.IsKilled() {
			dead = append(dead, e)
			return
		}

		age := frame - e.Birth
		if e.Logic != nil && e.Logic(e, age) == ActionDestroy {
			dead = append(dead, e)
			return
		}
		if !e.Flags.Has(FlagNoAutokill) && !m.viewport.contains(e.Pos, autoKillMargin) {
			dead = append(dead, e)
			return
		}

		newPos, _ := e.Move.Step(e.Pos)
		e.Pos = newPos

		if player != nil && e.hurtRadius > 0 {
			dist := cmplx2d.Abs(e.Pos - player.Position())
			if dist <= e.hurtRadius+player.HitRadius() {
				player.Damage(entity.DamageInfo{Type: entity.DamageEnemyCollision, Amount: 1, Source: e.id})
			}
		}

		if e.Alpha < 1 {
			e.Alpha += 0.1
			if e.Alpha > 1 {
				e.Alpha = 1
			}
		}

		if e.Visual != nil {
			e.Visual(e, age, false)
		}
	})

	for _, e := range dead {
		m.destroy(e)
	}
}

// bonusEligible reports whether a kill by this damage type should drop a
// bonus item — player-sourced kills only, never auto-cull or
// logic-rule self-destruction (those never set killedByType).
func bonusEligible(t entity.DamageType) bool {
	return t == entity.DamagePlayerShot || t == entity.DamagePlayerDischarge || t == entity.DamagePlayerBomb
}

func (m *Manager) destroy(e *Enemy) {
	e.Killed.Signal(nil)
	if !e.Flags.Has(FlagNoDeathExplosion) && m.onDeathEffect != nil {
		m.onDeathEffect(e)
	}
	if bonusEligible(e.killedByType) && m.onBonusItem != nil {
		m.onBonusItem(e, e.killedByType)
	}
	m.reg.Unregister(e.handle)
	m.pool.Release(e, e.poolIndex)
}

// LiveCount reports the number of non-killed enemies, for metrics.
func (m *Manager) LiveCount() int {
	n := 0
	m.pool.Live(func(idx int, e *Enemy) {
		if !e.IsKilled() {
			n++
		}
	})
	return n
}

// LiveTargets snapshots every non-killed enemy as a damageable target,
// for the frame driver to hand to internal/projectile's player-shot
// collision pass without projectile needing to import this package.
func (m *Manager) LiveTargets() []*Enemy {
	var out []*Enemy
	m.pool.Live(func(idx int, e *Enemy) {
		if !e.IsKilled() {
			out = append(out, e)
		}
	})
	return out
}

// Resolve dereferences a handle this manager spawned, for callers (e.g.
// internal/scripting's create_boss) that need the concrete *Enemy a
// Spawn call just produced rather than its opaque handle.
func (m *Manager) Resolve(h entity.Handle) (*Enemy, bool) {
	ent, ok := m.reg.Resolve(h)
	if !ok {
		return nil, false
	}
	e, ok := ent.(*Enemy)
	return e, ok
}
