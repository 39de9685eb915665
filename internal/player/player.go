// Package player implements §4.10's player subsystem: input-driven
// movement, a per-character shot/bomb callback pair, grazing, and the
// deathbomb/respawn sequence (a death does not reduce power). Grounded on
// `original_source/src/player.c` (`player_logic`, `plr_bomb`,
// `plr_death`, `plr_realdeath`, `player_applymovement`).
package player

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/event"
)

// Tuning constants grounded on player.c's named but (in the retrieved
// sources) unvalued macros; exact values are an implementation choice
// since the original headers defining them weren't part of the
// retrieval pack.
const (
	StartLives           = 2
	StartBombs           = 3
	MaxBombs             = 3
	MaxPower             = 400
	MaxContinues         = 3
	BombRecoveryFrames   = 120
	DeathDelayFrames     = 60
	DeathbombWindowFrames = 20
	RespawnInvulnFrames  = 150
	FocusFadeFrames      = 30
)

// InputFlags mirrors §4.10's per-frame input bitfield.
type InputFlags uint8

const (
	FlagUp InputFlags = 1 << iota
	FlagDown
	FlagLeft
	FlagRight
	FlagFocus
	FlagShot
	FlagBomb
)

func (f InputFlags) Has(bit InputFlags) bool { return f&bit != 0 }

// Viewport bounds the player's movement (player_applymovement's clamp).
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

// ShotHandler is a character's per-frame shot routine (youmu_shot/marisa_shot
// in the original); it is invoked unconditionally every Logic call and is
// expected to read p.Fire/p.Focus itself, as the original does.
type ShotHandler func(p *Player, frame int)

// BombHandler is a character's bomb routine, invoked once per successful
// Bomb() call after the generic screen-clear hook runs.
type BombHandler func(p *Player, frame int)

// Player is the §3 Player entity.
type Player struct {
	id     entity.ID
	handle entity.Handle

	Pos         cmplx2d.Vec
	RespawnPos  cmplx2d.Vec
	Flags       InputFlags
	Focus       int // >0 counts up to FocusFadeFrames while held; <0 counts up to 0 after release (fade-out alpha timer)
	Fire        bool
	Dir         bool // true when facing left (sprite flip), set from horizontal movement
	Moving      bool

	Lives     int
	Bombs     int
	Continues int
	Power     float64
	Voltage   float64

	hitRadius   float64
	grazeRadius float64
	grazeCount  int

	BaseSpeed         float64
	FocusSpeedDivisor  float64
	Viewport          Viewport

	// Dying is true from the instant a fatal hit lands until the
	// deathbomb window closes (plr_death..plr_realdeath).
	Dying             bool
	deathbombDeadline int
	recoveryUntil     int
	invulnerable      bool // recomputed once per Logic call from recoveryUntil vs. the current frame
	lastFrame         int  // the frame Logic was last called with, so Damage can derive a deadline

	ShotMode ShotHandler
	BombMode BombHandler

	// OnDeath fires after a death is finalized (not saved by a bomb);
	// the owner wires item-spawning (two power items, per plr_realdeath)
	// here rather than this package depending on internal/item.
	OnDeath func(p *Player)

	// OnClearHazards fires when a bomb is actually spent, before
	// BombMode runs; the owner wires projectile/enemy clearing here
	// rather than this package depending on those subsystems.
	OnClearHazards func(p *Player)

	Shoot             *event.Event
	InputFlagsChanged *event.Event
	PowerChanged      *event.Event
}

// New constructs a player at spawnPos with the standard starting
// lives/bombs/power (init_player).
func New(spawnPos cmplx2d.Vec, hitRadius, grazeRadius, baseSpeed float64, viewport Viewport) *Player {
	return &Player{
		Pos:               spawnPos,
		RespawnPos:        spawnPos,
		Lives:             StartLives,
		Bombs:             StartBombs,
		hitRadius:         hitRadius,
		grazeRadius:       grazeRadius,
		BaseSpeed:         baseSpeed,
		FocusSpeedDivisor: 2,
		Viewport:          viewport,
		deathbombDeadline: -1,
		Shoot:             event.New(),
		InputFlagsChanged: event.New(),
		PowerChanged:      event.New(),
	}
}

func (p *Player) ID() entity.ID  { return p.id }
func (p *Player) DrawLayer() int { return 0 }
func (p *Player) Draw()          {}

// Handle returns the boxed handle this player was registered under, set
// by whoever calls entity.Registry.Register for the player singleton.
func (p *Player) Handle() entity.Handle { return p.handle }

// SetID/SetHandle let the owner register the player with an entity.Registry
// the same way pooled subsystems do, without player.go depending on a
// Manager of its own (there is exactly one player, not a pool of them).
func (p *Player) SetID(id entity.ID)         { p.id = id }
func (p *Player) SetHandle(h entity.Handle)  { p.handle = h }

// Position/HitRadius/GrazeRadius/Graze/Damage satisfy the PlayerTarget
// interfaces declared by internal/projectile, internal/laser, and
// internal/enemy.
func (p *Player) Position() cmplx2d.Vec  { return p.Pos }
func (p *Player) HitRadius() float64     { return p.hitRadius }
func (p *Player) GrazeRadius() float64   { return p.grazeRadius }
func (p *Player) Graze(n int)            { p.grazeCount += n }
func (p *Player) GrazeCount() int        { return p.grazeCount }

// IsInvulnerable reports whether collision damage is currently ignored
// (recovery window after a death/bomb, or mid-deathbomb drift). The
// recovery half of this is refreshed once per frame by Logic, since the
// entity.Interface Damage signature carries no frame parameter.
func (p *Player) IsInvulnerable() bool {
	return p.Dying || p.invulnerable
}

// Damage implements the single-hit death model (plr_death): any hit
// while not already invulnerable starts the deathbomb window; hits
// during invulnerability or an in-progress deathbomb are ignored. Damage
// sets Dying and puts the window's end (deathbombDeadline)
// DeathbombWindowFrames after the frame Logic last ran with; Logic
// finalizes the death once that frame is reached.
func (p *Player) Damage(info entity.DamageInfo) entity.DamageResult {
	if p.IsInvulnerable() {
		return entity.DamageResultImmune
	}
	p.Dying = true
	p.deathbombDeadline = p.lastFrame + DeathbombWindowFrames
	return entity.DamageResultOK
}

// SetMoveFlag updates one movement bit on a key edge (player_setmoveflag).
func (p *Player) SetMoveFlag(flag InputFlags, pressed bool) {
	before := p.Flags
	if pressed {
		p.Flags |= flag
	} else {
		p.Flags &^= flag
	}
	if p.Flags != before {
		p.InputFlagsChanged.Signal(p.Flags)
	}
}

// SetFocusPressed/SetFocusReleased implement the focus key's edge
// behavior: pressed starts the ramp-up counter, released starts the
// fade-out counter at -FocusFadeFrames (player_event KEY_FOCUS).
func (p *Player) SetFocusPressed() { p.Focus = 1 }
func (p *Player) SetFocusReleased() {
	if p.Focus > 0 {
		p.Focus = -FocusFadeFrames
	}
}

// SetFire updates the held-fire state (player_event KEY_SHOT).
func (p *Player) SetFire(held bool) { p.Fire = held }

// Bomb spends one bomb charge if available and not recovering
// (plr_bomb). Bombing while Dying cancels the death and halves the
// remaining bombs, exactly as `plr_bomb`'s `deathtime > 0` branch does.
func (p *Player) Bomb(frame int) bool {
	if frame < p.recoveryUntil || p.Bombs <= 0 {
		return false
	}

	if p.OnClearHazards != nil {
		p.OnClearHazards(p)
	}
	if p.BombMode != nil {
		p.BombMode(p, frame)
	}

	p.Bombs--
	if p.Dying {
		p.Dying = false
		p.Bombs /= 2
	}
	p.recoveryUntil = frame + BombRecoveryFrames
	return true
}

// SetPower sets power, clamped to [0, MaxPower], signaling PowerChanged
// iff the clamped value actually changed (plr_set_power).
func (p *Player) SetPower(power float64) {
	if power > MaxPower {
		power = MaxPower
	}
	if power < 0 {
		power = 0
	}
	if power == p.Power {
		return
	}
	p.Power = power
	p.PowerChanged.Signal(power)
}

// Logic runs the §4.10/§4.11-step-2 per-frame update: drift during a
// death, focus ramp, the character's shot routine, the generic Shoot
// event, and finalizing death once the deathbomb window closes.
func (p *Player) Logic(frame int) {
	p.lastFrame = frame
	p.invulnerable = frame < p.recoveryUntil

	if p.Dying {
		p.Pos -= complex(0, 0.7)
		if frame >= p.deathbombDeadline {
			p.finalizeDeath(frame)
		}
		return
	}

	if p.Focus < 0 || (p.Focus > 0 && p.Focus < FocusFadeFrames) {
		p.Focus++
	}

	p.applyMovement()

	if p.ShotMode != nil {
		p.ShotMode(p, frame)
	}
	if p.Fire && !p.IsInvulnerable() {
		p.Shoot.Signal(frame)
	}
}

// applyMovement implements player_applymovement: a unit vector from the
// held directional flags, scaled by the per-mode speed (halved while
// focused), then clamped into the viewport. The original's
// closer-to-center-or-still-inside xfac/yfac heuristic is replaced here
// by a direct per-axis clamp to the viewport bounds, which keeps the
// same "can never leave the viewport" guarantee with less incidental
// complexity.
func (p *Player) applyMovement() {
	if p.Dying {
		return
	}

	up := p.Flags.Has(FlagUp)
	down := p.Flags.Has(FlagDown)
	left := p.Flags.Has(FlagLeft)
	right := p.Flags.Has(FlagRight)

	p.Moving = false
	if left && !right {
		p.Moving = true
		p.Dir = true
	} else if right && !left {
		p.Moving = true
		p.Dir = false
	}

	var dir cmplx2d.Vec
	if up {
		dir -= complex(0, 1)
	}
	if down {
		dir += complex(0, 1)
	}
	if left {
		dir -= 1
	}
	if right {
		dir += 1
	}
	if dir == 0 {
		return
	}
	dir = cmplx2d.Normalize(dir)

	speed := p.BaseSpeed
	if p.Focus > 0 {
		speed /= p.FocusSpeedDivisor
	}

	p.Pos = cmplx2d.Clamp(p.Pos+dir*complex(speed, 0), p.Viewport.MinX, p.Viewport.MaxX, p.Viewport.MinY, p.Viewport.MaxY)
}

// finalizeDeath implements plr_realdeath: spawns the two power items
// via OnDeath, respawns at RespawnPos with a post-respawn invulnerability
// window, restores bombs to at least StartBombs, and consumes a life.
func (p *Player) finalizeDeath(frame int) {
	p.Dying = false

	if p.OnDeath != nil {
		p.OnDeath(p)
	}

	p.Pos = p.RespawnPos
	p.recoveryUntil = frame + DeathDelayFrames + RespawnInvulnFrames
	p.invulnerable = true

	if p.Bombs < StartBombs {
		p.Bombs = StartBombs
	}

	p.Lives--
}
