// Package sim implements §4.11's frame driver: the one place that
// knows the fixed per-frame order every other package's Update must run
// in, and the only place that wires subsystems together that otherwise
// avoid importing each other (player/enemy/projectile/laser/item).
package sim

import (
	"time"

	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/item"
	"github.com/taisei-project/core/internal/laser"
	"github.com/taisei-project/core/internal/metrics"
	"github.com/taisei-project/core/internal/player"
	"github.com/taisei-project/core/internal/projectile"
	"github.com/taisei-project/core/internal/rng"
	"github.com/taisei-project/core/internal/task"
	"github.com/taisei-project/core/internal/telemetry"
)

// Config gathers every fixed-capacity/viewport parameter the
// subsystem managers need at construction.
type Config struct {
	Seed uint64

	ProjectileCapacity int
	LaserCapacity      int
	EnemyCapacity      int
	ItemCapacity       int

	ProjectileViewport projectile.Viewport
	EnemyViewport      enemy.Viewport

	Player player.Player // copied as the initial player state

	ItemCollectRadius        float64
	ItemCollectRadiusFocused float64
}

// Sim owns the whole gameplay core for one stage run and drives the
// §4.11 per-frame order.
type Sim struct {
	Frame int

	Registry *entity.Registry
	Sched    *task.Scheduler
	RNG      *rng.Source

	Player      *player.Player
	Enemies     *enemy.Manager
	Projectiles *projectile.Manager
	Lasers      *laser.Manager
	Items       *item.Manager

	Boss *enemy.Boss

	itemCollectRadius        float64
	itemCollectRadiusFocused float64

	lastKeys player.InputFlags
}

// New constructs a Sim with a fresh entity registry, scheduler, PRNG,
// and one instance of each subsystem manager, and registers the player
// singleton the same way a pooled subsystem registers its entities.
func New(cfg Config) *Sim {
	reg := entity.NewRegistry(cfg.ProjectileCapacity + cfg.EnemyCapacity + cfg.ItemCapacity + 64)

	s := &Sim{
		Registry:                 reg,
		Sched:                    task.New(),
		RNG:                      rng.New(cfg.Seed),
		Projectiles:              projectile.NewManager(reg, cfg.ProjectileCapacity, cfg.ProjectileViewport),
		Lasers:                   laser.NewManager(reg, cfg.LaserCapacity),
		Enemies:                  enemy.NewManager(reg, cfg.EnemyCapacity, cfg.EnemyViewport),
		Items:                    item.NewManager(reg, cfg.ItemCapacity),
		itemCollectRadius:        cfg.ItemCollectRadius,
		itemCollectRadiusFocused: cfg.ItemCollectRadiusFocused,
	}

	p := cfg.Player
	s.Player = &p
	id := reg.NewID()
	s.Player.SetID(id)
	h := reg.Register(s.Player)
	s.Player.SetHandle(h)

	s.Player.OnDeath = func(pl *player.Player) {
		s.Items.Spawn(s.Frame, item.SpawnParams{Pos: pl.Position(), Type: item.TypePower, AutoCollect: false, PickupValue: item.PowerValue})
		s.Items.Spawn(s.Frame, item.SpawnParams{Pos: pl.Position(), Type: item.TypePower, AutoCollect: false, PickupValue: item.PowerValue})
	}
	s.Player.OnClearHazards = func(*player.Player) {
		s.Projectiles.ClearAll()
	}

	return s
}

// Step runs one simulation tick: the fixed §4.11 ten-step order.
func (s *Sim) Step(keys player.InputFlags) {
	start := time.Now()

	s.pollInput(keys)

	s.Player.Logic(s.Frame)

	s.Enemies.Update(s.Frame, s.Player)

	// Steps 4 and 7 (enemy/player projectile pass with collision, and
	// the particle pass without) collapse into one Update call: the
	// projectile manager's own collision classification already treats
	// TypeParticle/TypeFake as never colliding regardless of the
	// collision flag, so a single collision=true pass already produces
	// the same observable behavior both driver steps describe.
	s.Projectiles.Update(s.Frame, s.Player, s.enemyTargets(), true)

	s.Lasers.Update(s.Frame, s.Player)

	s.Items.Update(s.Frame, s.Player, s.itemRadius())

	if s.Boss != nil {
		s.Boss.UpdateAttack(s.Frame, s.Sched)
	}

	schedStart := time.Now()
	ran := s.Sched.Step()
	metrics.ObserveSchedulerPass(time.Since(schedStart).Seconds(), ran)

	s.Frame++

	metrics.ObserveFrameDuration(time.Since(start).Seconds())
	metrics.RecordLiveTasks(s.Sched.Count())
	metrics.RecordLiveEntities(metrics.ClassProjectile, s.Projectiles.LiveCount())
	metrics.RecordLiveEntities(metrics.ClassLaser, s.Lasers.LiveCount())
	metrics.RecordLiveEntities(metrics.ClassEnemy, s.Enemies.LiveCount())
	metrics.RecordLiveEntities(metrics.ClassItem, s.Items.LiveCount())
}

// Snapshot builds the spectator-facing view of the current frame, for
// internal/telemetry's hub to broadcast. It is never called from Step
// itself — the owner of both a Sim and a telemetry.Hub decides the
// broadcast cadence (typically slower than the simulation rate).
func (s *Sim) Snapshot() telemetry.Snapshot {
	snap := telemetry.Snapshot{
		Frame: s.Frame,
		Player: telemetry.PlayerSnapshot{
			X:     real(s.Player.Position()),
			Y:     imag(s.Player.Position()),
			Lives: s.Player.Lives,
			Bombs: s.Player.Bombs,
			Power: s.Player.Power,
			Graze: s.Player.GrazeCount(),
		},
		LiveProjectiles: s.Projectiles.LiveCount(),
		LiveLasers:      s.Lasers.LiveCount(),
		LiveEnemies:     s.Enemies.LiveCount(),
		LiveItems:       s.Items.LiveCount(),
	}

	if s.Boss != nil {
		attackName := ""
		if a := s.Boss.CurrentAttack(); a != nil {
			attackName = a.Name
		}
		snap.Boss = &telemetry.BossSnapshot{
			Name:       s.Boss.Name,
			HP:         s.Boss.HP,
			AttackName: attackName,
		}
	}

	return snap
}

// enemyTargets snapshots the live enemy/boss list as damageable targets
// for the player-projectile collision pass.
func (s *Sim) enemyTargets() []projectile.Target {
	live := s.Enemies.LiveTargets()
	out := make([]projectile.Target, len(live))
	for i, e := range live {
		out[i] = e
	}
	return out
}

// itemRadius widens the auto-collect radius while the player holds
// focus (§4.11 step 6).
func (s *Sim) itemRadius() float64 {
	if s.Player.Focus > 0 {
		return s.itemCollectRadiusFocused
	}
	return s.itemCollectRadius
}

// pollInput implements §4.11 step 1: translate the held-key bitfield
// into the player's edge-triggered Set* calls, diffing against last
// frame's snapshot to detect presses/releases (focus and bomb are
// edge-triggered in the original; the plain directional flags are
// level-triggered and already self-diff inside SetMoveFlag).
func (s *Sim) pollInput(keys player.InputFlags) {
	s.Player.SetMoveFlag(player.FlagUp, keys.Has(player.FlagUp))
	s.Player.SetMoveFlag(player.FlagDown, keys.Has(player.FlagDown))
	s.Player.SetMoveFlag(player.FlagLeft, keys.Has(player.FlagLeft))
	s.Player.SetMoveFlag(player.FlagRight, keys.Has(player.FlagRight))

	focusPressed := keys.Has(player.FlagFocus) && !s.lastKeys.Has(player.FlagFocus)
	focusReleased := !keys.Has(player.FlagFocus) && s.lastKeys.Has(player.FlagFocus)
	if focusPressed {
		s.Player.SetFocusPressed()
	} else if focusReleased {
		s.Player.SetFocusReleased()
	}

	s.Player.SetFire(keys.Has(player.FlagShot))

	bombPressed := keys.Has(player.FlagBomb) && !s.lastKeys.Has(player.FlagBomb)
	if bombPressed {
		s.Player.Bomb(s.Frame)
	}

	s.lastKeys = keys
}
