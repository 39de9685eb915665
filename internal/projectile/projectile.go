// Package projectile implements §4.7's projectile subsystem: a pooled
// entity class with per-frame rule dispatch, collision classification by
// type, off-viewport culling, and bounded-per-frame death cleanup.
// Grounded on `original_source/src/projectile.c` (the `type`/flag
// enumeration, the `PROJ_DEAD` sentinel, and the 5-per-frame cleanup
// bound the original calls `DEATH_EFFECT_CAP`-equivalent throttling).
package projectile

import (
	"math"

	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
)

// Type classifies a projectile for §4.7's collision-dispatch switch.
type Type int

const (
	TypeEnemy Type = iota
	TypePlayer
	TypeParticle
	TypeFake
	TypeDead
)

// Flags is the §3 projectile flags bitfield.
type Flags uint32

const (
	FlagNoCollision Flags = 1 << iota
	FlagNoGraze
	FlagNoReflect
	FlagNoSpawnEffect
	FlagNoClearEffect
	FlagNoDeathEffect
	FlagRequiresParticle
	FlagManualAngle
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Shape is the collision-geometry discriminant.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
)

// Collision is a projectile's hitbox: either a circle (Radius) or an
// axis-aligned-in-local-space rotated rectangle (HalfW/HalfH about Angle).
type Collision struct {
	Shape      Shape
	Radius     float64
	HalfW      float64
	HalfH      float64
}

// Action is what a per-frame Rule may request beyond mutating the projectile.
type Action int

const (
	ActionNone Action = iota
	ActionDestroy
)

// Rule is invoked every frame with the age (frames since birth).
type Rule func(p *Projectile, age int) Action

// DrawRule is invoked by the renderer; it has no effect on simulation state.
type DrawRule func(p *Projectile)

// Projectile is the §3 Projectile entity.
type Projectile struct {
	id     entity.ID
	handle entity.Handle

	Pos, PrevPos cmplx2d.Vec
	Birth        int
	Move         move.Params
	InitialVelocity cmplx2d.Vec
	Angle        float64
	Color        colorx.Color
	Collision    Collision
	Type         Type
	Flags        Flags
	Rule         Rule
	DrawFn        DrawRule
	Shader       string
	Damage       float64
	Layer        int
	MaxViewportDist float64

	poolIndex int
}

func (p *Projectile) ID() entity.ID     { return p.id }
func (p *Projectile) DrawLayer() int    { return p.Layer }
func (p *Projectile) Handle() entity.Handle { return p.handle }

// Draw dispatches to the optional draw rule; satisfies entity.Interface.
func (p *Projectile) Draw() {
	if p.DrawFn != nil {
		p.DrawFn(p)
	}
}

// Damage: projectiles themselves never take damage (satisfies entity.Interface).
func (p *Projectile) Damage(entity.DamageInfo) entity.DamageResult {
	return entity.DamageResultImmune
}

// IsDead reports whether this projectile has been marked for cleanup.
func (p *Projectile) IsDead() bool { return p.Type == TypeDead }

func (p *Projectile) radiusForDistanceCheck() float64 {
	if p.Collision.Shape == ShapeCircle {
		return p.Collision.Radius
	}
	return math.Hypot(p.Collision.HalfW, p.Collision.HalfH)
}

// Target is a damageable entity the projectile manager can apply player
// damage to (enemies, bosses). Kept narrow and local to this package so
// it has no dependency on the enemy package, avoiding an import cycle.
type Target interface {
	entity.Interface
	Position() cmplx2d.Vec
	HitRadius() float64
}

// PlayerTarget is the player-shaped collision surface enemy projectiles
// test against.
type PlayerTarget interface {
	entity.Interface
	Position() cmplx2d.Vec
	HitRadius() float64
	GrazeRadius() float64
	Graze(count int)
}
