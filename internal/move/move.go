// Package move implements §3/§4.6's MoveParams kinematic integrator,
// shared by projectiles, enemies, and items: the one piece of motion
// math every pooled entity class in this engine runs each frame before
// its own logic/visual rule.
package move

import "github.com/taisei-project/core/internal/cmplx2d"

// Params is the §3 "Move parameters" record.
type Params struct {
	Velocity        cmplx2d.Vec
	Acceleration    cmplx2d.Vec
	Retention       complex128 // per-frame velocity multiplier; zero value means "unset", use Default
	HasAttraction   bool
	AttractionPoint cmplx2d.Vec
	Attraction      float64
}

// Default returns Params with Retention at its 1.0 identity value (every
// constructor in this package routes through it so a zero-value Params
// literal never silently zeroes out velocity retention).
func Default() Params {
	return Params{Retention: 1}
}

// Linear is the common case: constant velocity, no acceleration, no attraction.
func Linear(velocity cmplx2d.Vec) Params {
	p := Default()
	p.Velocity = velocity
	return p
}

// Accelerated adds a constant acceleration term to Linear.
func Accelerated(velocity, acceleration cmplx2d.Vec) Params {
	p := Linear(velocity)
	p.Acceleration = acceleration
	return p
}

// Step applies one frame of §4.6's algorithm in place to position,
// returning the displacement applied (used by callers that derive
// facing/animation from motion, e.g. an enemy sprite flipping to face
// its direction of travel).
func (p *Params) Step(position cmplx2d.Vec) (newPosition, displacement cmplx2d.Vec) {
	if p.Attraction != 0 && p.HasAttraction {
		p.Velocity += complex(p.Attraction, 0) * (p.AttractionPoint - position)
	}
	retention := p.Retention
	if retention == 0 {
		retention = 1
	}
	p.Velocity = p.Velocity*retention + p.Acceleration
	displacement = p.Velocity
	newPosition = position + displacement
	return newPosition, displacement
}
