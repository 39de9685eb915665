package projectile

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
	"github.com/taisei-project/core/internal/pool"
)

// maxDeathSweepPerFrame bounds how many dead projectiles are cleaned up
// (death effect spawned, pool slot released) in a single Update call,
// per §4.7 ("up to 5 are swept per frame ... to avoid CPU spikes").
const maxDeathSweepPerFrame = 5

// Viewport describes the playable area for off-viewport culling.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

func (v Viewport) contains(p cmplx2d.Vec, margin float64) bool {
	x, y := real(p), imag(p)
	return x >= v.MinX-margin && x <= v.MaxX+margin && y >= v.MinY-margin && y <= v.MaxY+margin
}

// SpawnParams gathers every argument §6's create_projectile/§4.7's
// spawn() operation takes.
type SpawnParams struct {
	Pos        cmplx2d.Vec
	Color      colorx.Color
	Move       move.Params
	Type       Type
	Flags      Flags
	Rule       Rule
	Draw       DrawRule
	Shader     string
	Damage     float64
	Collision  Collision
	Layer      int
	MaxViewportDist float64 // culling margin beyond the viewport edge
}

// Manager owns the projectile pool and drives §4.7's per-frame pipeline.
type Manager struct {
	pool     *pool.Pool[Projectile]
	reg      *entity.Registry
	viewport Viewport

	deadQueue []entity.Handle

	onSpawnEffect func(pos cmplx2d.Vec, c colorx.Color)
	onDeathEffect func(p *Projectile)
	onClearEffect func(p *Projectile)

	frame int
}

// NewManager creates a projectile manager with the given fixed pool
// capacity (§4.1).
func NewManager(reg *entity.Registry, capacity int, viewport Viewport) *Manager {
	return &Manager{
		pool:     pool.New[Projectile]("projectile", capacity),
		reg:      reg,
		viewport: viewport,
	}
}

// SetEffectHooks wires the particle-spawning side effects that live
// outside this package (resource/renderer concerns); any left nil is
// simply skipped.
func (m *Manager) SetEffectHooks(spawn func(cmplx2d.Vec, colorx.Color), death, clear func(*Projectile)) {
	m.onSpawnEffect = spawn
	m.onDeathEffect = death
	m.onClearEffect = clear
}

// Spawn creates a new projectile (§4.7 spawn). Calling this from draw
// code is a programming error, asserted per §4.7/§7.
func (m *Manager) Spawn(frame int, p SpawnParams) entity.Handle {
	entity.AssertNotDrawing("projectile")

	ptr, idx, gen := m.pool.Acquire()
	*ptr = Projectile{
		id:              m.reg.NewID(),
		Pos:             p.Pos,
		PrevPos:         p.Pos,
		Birth:           frame,
		Move:            p.Move,
		InitialVelocity: p.Move.Velocity,
		Color:           p.Color,
		Collision:       p.Collision,
		Type:            p.Type,
		Flags:           p.Flags,
		Rule:            p.Rule,
		DrawFn:           p.Draw,
		Shader:          p.Shader,
		Damage:          p.Damage,
		Layer:           p.Layer,
		MaxViewportDist: p.MaxViewportDist,
		poolIndex:       idx,
	}
	h := m.reg.Register(ptr)
	ptr.handle = h
	_ = gen

	if !p.Flags.Has(FlagNoSpawnEffect) && m.onSpawnEffect != nil {
		m.onSpawnEffect(p.Pos, p.Color)
	}
	return h
}

// Update runs one frame of §4.7 for every live projectile: motion, rule
// dispatch, culling, and — when collision is true — collision
// classification against player and enemyTargets. internal/sim makes a
// single call per frame with collision=true; particle and fake
// projectiles never produce a damage event either way.
func (m *Manager) Update(frame int, player PlayerTarget, enemyTargets []Target, collision bool) {
	m.frame = frame

	m.pool.Live(func(idx int, p *Projectile) {
		if p.Type == TypeDead {
			return
		}

		p.PrevPos = p.Pos
		newPos, _ := p.Move.Step(p.Pos)
		p.Pos = newPos
		if !p.Flags.Has(FlagManualAngle) {
			p.Angle = cmplx2d.Angle(p.Move.Velocity)
		}

		age := frame - p.Birth
		if p.Rule != nil {
			if p.Rule(p, age) == ActionDestroy {
				m.destroy(p)
				return
			}
		}

		if !m.viewport.contains(p.Pos, p.MaxViewportDist) {
			m.destroy(p)
			return
		}

		if collision && !p.Flags.Has(FlagNoCollision) {
			m.classifyCollision(p, player, enemyTargets)
		}
	})

	m.sweepDead()
}

func (m *Manager) classifyCollision(p *Projectile, player PlayerTarget, enemyTargets []Target) {
	switch p.Type {
	case TypeEnemy:
		if player == nil {
			return
		}
		dist := cmplx2d.Abs(p.Pos - player.Position())
		if dist <= p.radiusForDistanceCheck()+player.HitRadius() {
			player.Damage(entity.DamageInfo{Type: entity.DamageEnemyShot, Amount: 1, Source: p.id})
		} else if !p.Flags.Has(FlagNoGraze) && dist <= p.radiusForDistanceCheck()+player.GrazeRadius() {
			player.Graze(1)
		}
	case TypePlayer:
		for _, target := range enemyTargets {
			dist := cmplx2d.Abs(p.Pos - target.Position())
			if dist > p.radiusForDistanceCheck()+target.HitRadius() {
				continue
			}
			res := target.Damage(entity.DamageInfo{Type: entity.DamagePlayerShot, Amount: p.Damage, Source: p.id})
			if res == entity.DamageResultImmune {
				// matches calc_projectile_collision's `e->hp != ENEMY_IMMUNE`
				// guard: an immune target isn't a collision candidate at
				// all, so the bullet passes through to the next target.
				continue
			}
			if res == entity.DamageResultOK {
				m.destroy(p)
			}
			return
		}
	case TypeFake, TypeParticle:
		// Never produce a damage event (§8 P7 covers the no-collision
		// flag; fake/particle types are simply never damage sources).
	}
}

// destroy marks p dead and enqueues it for the bounded cleanup sweep.
func (m *Manager) destroy(p *Projectile) {
	if p.Type == TypeDead {
		return
	}
	p.Type = TypeDead
	m.deadQueue = append(m.deadQueue, p.handle)
}

// sweepDead processes at most maxDeathSweepPerFrame dead projectiles:
// spawns their death effect (unless suppressed) and releases the pool slot.
func (m *Manager) sweepDead() {
	n := len(m.deadQueue)
	if n > maxDeathSweepPerFrame {
		n = maxDeathSweepPerFrame
	}
	for i := 0; i < n; i++ {
		h := m.deadQueue[i]
		ent, ok := m.reg.Resolve(h)
		if !ok {
			continue
		}
		p := ent.(*Projectile)
		if !p.Flags.Has(FlagNoDeathEffect) && m.onDeathEffect != nil {
			m.onDeathEffect(p)
		}
		m.reg.Unregister(h)
		m.pool.Release(p, p.poolIndex)
	}
	m.deadQueue = m.deadQueue[n:]
}

// ClearAll implements the §4.7 "clear all hazards" operation: every
// clearable projectile (no FlagNoReflect-style exemption beyond its own
// no-clear-effect flag) is marked dead; a clear effect is spawned for
// each unless suppressed.
func (m *Manager) ClearAll() {
	m.pool.Live(func(idx int, p *Projectile) {
		if p.Type == TypeDead || p.Type == TypeParticle {
			return
		}
		if !p.Flags.Has(FlagNoClearEffect) && m.onClearEffect != nil {
			m.onClearEffect(p)
		}
		m.destroy(p)
	})
	corelog.Debugf("projectile: cleared hazards, %d pending cleanup", len(m.deadQueue))
}

// LiveCount reports the number of non-dead projectiles, for metrics.
func (m *Manager) LiveCount() int {
	n := 0
	m.pool.Live(func(idx int, p *Projectile) {
		if p.Type != TypeDead {
			n++
		}
	})
	return n
}

// Live returns every non-dead projectile, for callers outside this
// package that need to read positions/colors directly (e.g. a renderer)
// rather than drive collision/lifetime logic.
func (m *Manager) Live() []*Projectile {
	var out []*Projectile
	m.pool.Live(func(idx int, p *Projectile) {
		if p.Type != TypeDead {
			out = append(out, p)
		}
	})
	return out
}
