// Package enemy implements §4.9's enemy and boss subsystem: HP/damage
// handling with friendly-fire immunity, a logic/visual rule pair driven
// each frame, viewport auto-culling, and the boss attack state machine.
// Grounded on `original_source/src/enemy.c` (`ent_damage_enemy`,
// `should_auto_kill`) and `original_source/src/boss.c` (the attack list
// and `boss_set_attack` timing/bonus rules).
package enemy

import (
	"math"

	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/event"
	"github.com/taisei-project/core/internal/move"
)

// HPImmune is the §3 "sentinel 'immune'" HP value: an enemy with this
// HP never dies from damage, regardless of Flags.
const HPImmune = math.MaxFloat64

// Flags is the §3 enemy flags bitfield.
type Flags uint32

const (
	FlagKilled Flags = 1 << iota
	FlagInvulnerable
	FlagNoHit
	FlagNoHurt
	FlagNoAutokill
	FlagGhost
	FlagNoVisualCorrection
	FlagNoDeathExplosion
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Action is what a LogicRule may request beyond mutating the enemy.
type Action int

const (
	ActionNone Action = iota
	ActionDestroy
)

// LogicRule is invoked once per frame with the enemy's age in frames.
type LogicRule func(e *Enemy, age int) Action

// VisualRule is invoked twice per frame: once with render=false for
// side-effect updates (particle trails), once with render=true for the
// actual draw (§4.9 "Invoke the visual rule with render=false ...
// render=true").
type VisualRule func(e *Enemy, age int, render bool)

// Enemy is the §3 Enemy entity.
type Enemy struct {
	id     entity.ID
	handle entity.Handle

	HP      float64
	SpawnHP float64
	Pos     cmplx2d.Vec
	Move    move.Params
	Args    uint64

	Logic  LogicRule
	Visual VisualRule

	hitRadius  float64
	hurtRadius float64
	Flags      Flags

	Color colorx.Color
	Layer int
	Birth int
	Alpha float64

	Killed    *event.Event
	LowHealth *event.Event

	lowHealthFired bool
	poolIndex      int
	killedByType   entity.DamageType
}

func (e *Enemy) ID() entity.ID  { return e.id }
func (e *Enemy) DrawLayer() int { return e.Layer }
func (e *Enemy) Draw()          {}

func (e *Enemy) Handle() entity.Handle { return e.handle }

// Position satisfies projectile.Target/laser collision interfaces.
func (e *Enemy) Position() cmplx2d.Vec { return e.Pos }

// HitRadius satisfies projectile.Target.
func (e *Enemy) HitRadius() float64 { return e.hitRadius }

// HurtRadius returns the radius within which enemy-player collision
// damage (§4.9 step 3) applies; zero means the enemy never hurts the
// player on touch.
func (e *Enemy) HurtRadius() float64 { return e.hurtRadius }

// IsImmuneHP reports whether HP carries the §3 sentinel immune value.
func (e *Enemy) IsImmuneHP() bool { return e.HP >= HPImmune }

// IsKilled reports whether the enemy has been marked for the death sequence.
func (e *Enemy) IsKilled() bool { return e.Flags.Has(FlagKilled) }

// Damage implements §4.9's enemy damage handler: friendly fire (another
// enemy's shot or body) never harms an enemy; invulnerable/no-hit
// enemies and the HP-immune sentinel reject all damage. Otherwise HP is
// reduced; a LowHealth event fires once when HP first crosses 10% of
// SpawnHP, and HP depleting to zero or below marks the enemy killed
// (the death sequence itself runs from the frame driver's Update, per
// the killed-event-ordering decision in DESIGN.md).
func (e *Enemy) Damage(info entity.DamageInfo) entity.DamageResult {
	if e.Flags.Has(FlagInvulnerable) || e.Flags.Has(FlagNoHit) || e.IsImmuneHP() {
		return entity.DamageResultImmune
	}
	if info.Type == entity.DamageEnemyShot || info.Type == entity.DamageEnemyCollision {
		return entity.DamageResultImmune
	}
	if e.Flags.Has(FlagKilled) {
		return entity.DamageResultImmune
	}

	before := e.HP
	e.HP -= info.Amount

	if e.LowHealth != nil && !e.lowHealthFired && e.SpawnHP > 0 {
		threshold := e.SpawnHP * 0.10
		if before > threshold && e.HP <= threshold {
			e.lowHealthFired = true
			e.LowHealth.Signal(nil)
		}
	}

	if e.HP <= 0 {
		e.Flags |= FlagKilled
		e.killedByType = info.Type
	}
	return entity.DamageResultOK
}
