// Package laser implements §4.8's laser subsystem: a parameterized curve
// in time with a width envelope, colliding only against the player via
// sampled swept-segment tests. Grounded on
// `original_source/src/laser.c`'s `laser_pos_at`/`laser_collision`
// sampling approach (the original samples the curve at a fixed step
// count along its length and tests point-to-segment distance against
// the player's hitbox; this is the same algorithm expressed without the
// original's C `complex`-macro plumbing).
package laser

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
)

// PosRule returns the laser's position at time t (frames since birth).
type PosRule func(t float64) cmplx2d.Vec

// WidthEnvelope is the ramp-in/steady/ramp-out width function, evaluated
// at time t (frames since birth) with the laser's total lifetime.
type WidthEnvelope struct {
	Width    float64
	RampIn   int
	RampOut  int
	Lifetime int
}

// At returns the effective width at frame-age t.
func (w WidthEnvelope) At(t int) float64 {
	switch {
	case w.RampIn > 0 && t < w.RampIn:
		return w.Width * float64(t) / float64(w.RampIn)
	case w.RampOut > 0 && t > w.Lifetime-w.RampOut:
		remaining := w.Lifetime - t
		if remaining < 0 {
			remaining = 0
		}
		return w.Width * float64(remaining) / float64(w.RampOut)
	default:
		return w.Width
	}
}

// sampleCount governs how finely the curve is swept for collision;
// matches the original's fixed per-laser sample density closely enough
// for a several-hundred-pixel-long beam to never miss a hitbox-sized gap.
const sampleCount = 32

// Laser is the §3 Laser entity.
type Laser struct {
	id     entity.ID
	handle entity.Handle
	Birth  int

	Pos    PosRule
	Width  WidthEnvelope
	Color  colorx.Color
	Layer  int
	Damage float64

	deadline int // Birth + Width.Lifetime
	dead     bool
}

func (l *Laser) ID() entity.ID  { return l.id }
func (l *Laser) DrawLayer() int { return l.Layer }
func (l *Laser) Draw()          {}

// Damage: lasers themselves are never damaged.
func (l *Laser) Damage(entity.DamageInfo) entity.DamageResult {
	return entity.DamageResultImmune
}

// IsDead reports whether the laser has outlived its lifetime.
func (l *Laser) IsDead() bool { return l.dead }

// Age returns frames elapsed since birth at the given frame.
func (l *Laser) Age(frame int) int { return frame - l.Birth }

// Update advances the laser and, if player is non-nil, performs the
// swept segment-vs-hitbox collision test (§4.8: "Lasers do not damage
// enemies; they damage the player only").
func (l *Laser) Update(frame int, player PlayerTarget) {
	age := l.Age(frame)
	if age >= l.Width.Lifetime {
		l.dead = true
		return
	}
	if player == nil {
		return
	}
	if l.collides(float64(age), player) {
		player.Damage(entity.DamageInfo{Type: entity.DamageEnemyShot, Amount: l.Damage, Source: l.id})
	}
}

// PlayerTarget is the player-shaped collision surface a laser tests against.
type PlayerTarget interface {
	entity.Interface
	Position() cmplx2d.Vec
	HitRadius() float64
	Damage(entity.DamageInfo) entity.DamageResult
}

func (l *Laser) collides(t float64, player PlayerTarget) bool {
	width := l.Width.At(int(t))
	if width <= 0 {
		return false
	}
	p := player.Position()
	r := player.HitRadius() + width/2

	// Sweep the curve from time 0 up to t (up to sampleCount when t is 0)
	// in sampleCount equal steps,
	// testing each segment against the player's position — the original
	// engine's "trace along the curve" collision approach.
	step := t / sampleCount
	if step <= 0 {
		step = 1
	}
	prev := l.Pos(0)
	for i := 1; i <= sampleCount; i++ {
		cur := l.Pos(step * float64(i))
		if distToSegment(p, prev, cur) <= r {
			return true
		}
		prev = cur
	}
	return false
}

// distToSegment returns the shortest distance from point p to the
// segment [a,b].
func distToSegment(p, a, b cmplx2d.Vec) float64 {
	ab := b - a
	if ab == 0 {
		return cmplx2d.Abs(p - a)
	}
	t := realDot(p-a, ab) / realDot(ab, ab)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a + complex(t, 0)*ab
	return cmplx2d.Abs(p - closest)
}

func realDot(a, b cmplx2d.Vec) float64 {
	return real(a)*real(b) + imag(a)*imag(b)
}
