package scripting

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/item"
	"github.com/taisei-project/core/internal/laser"
	"github.com/taisei-project/core/internal/projectile"
)

// actionIsDestroy interprets a rule function's JS return value: the
// string "destroy" requests cleanup, anything else (including
// undefined) means "no action" — enemy.Action and projectile.Action are
// distinct Go types with identical ActionNone/ActionDestroy semantics, so
// the two wrapBody variants below each translate this same bool locally.
func actionIsDestroy(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	s, ok := v.Export().(string)
	return ok && s == "destroy"
}

func (b *Bindings) wrapProjectileRule(fn goja.Callable) projectile.Rule {
	return func(p *projectile.Projectile, age int) projectile.Action {
		res, err := fn(goja.Undefined(), b.vm.ToValue(age))
		if err != nil {
			corelog.Errorf("scripting: projectile rule error: %v", err)
			return projectile.ActionNone
		}
		if actionIsDestroy(res) {
			return projectile.ActionDestroy
		}
		return projectile.ActionNone
	}
}

func (b *Bindings) wrapEnemyLogicRule(fn goja.Callable, args goja.Value) enemy.LogicRule {
	return func(e *enemy.Enemy, age int) enemy.Action {
		res, err := fn(goja.Undefined(), b.vm.ToValue(age), args)
		if err != nil {
			corelog.Errorf("scripting: enemy logic rule error: %v", err)
			return enemy.ActionNone
		}
		if actionIsDestroy(res) {
			return enemy.ActionDestroy
		}
		return enemy.ActionNone
	}
}

func (b *Bindings) wrapEnemyVisualRule(fn goja.Callable, args goja.Value) enemy.VisualRule {
	return func(e *enemy.Enemy, age int, render bool) {
		if _, err := fn(goja.Undefined(), b.vm.ToValue(age), b.vm.ToValue(render), args); err != nil {
			corelog.Errorf("scripting: enemy visual rule error: %v", err)
		}
	}
}

// create_enemy(pos, hp, visual_rule, logic_rule, args): returns an
// entity handle; pushes onto the active enemy list (§6). An optional
// sixth `opts` object carries the §3 fields the trimmed five-argument
// signature has no room for (move, hit/hurt radius, color, layer, flags).
func (b *Bindings) createEnemy(call goja.FunctionCall) goja.Value {
	pos := vecValue(call.Argument(0))
	hp := call.Argument(1).ToFloat()
	visualFn, hasVisual := funcValue(call.Argument(2))
	logicFn, hasLogic := funcValue(call.Argument(3))
	args := call.Argument(4)
	opts := call.Argument(5)

	params := enemy.SpawnParams{
		Pos:        pos,
		HP:         hp,
		Move:       moveProp(opts, "move"),
		HitRadius:  numProp(opts, "hit_radius", 16),
		HurtRadius: numProp(opts, "hurt_radius", 0),
		Flags:      enemy.Flags(intProp(opts, "flags", 0)),
		Color:      colorProp(opts, "color"),
		Layer:      intProp(opts, "layer", 0),
	}
	if hasLogic {
		params.Logic = b.wrapEnemyLogicRule(logicFn, args)
	}
	if hasVisual {
		params.Visual = b.wrapEnemyVisualRule(visualFn, args)
	}

	h := b.enemies.Spawn(b.frame(), params)
	return b.vm.ToValue(h)
}

func projectileTypeFromString(s string) projectile.Type {
	switch s {
	case "player":
		return projectile.TypePlayer
	case "particle":
		return projectile.TypeParticle
	case "fake":
		return projectile.TypeFake
	default:
		return projectile.TypeEnemy
	}
}

func collisionFromParams(params goja.Value) projectile.Collision {
	if strProp(params, "shape", "circle") == "rect" {
		return projectile.Collision{
			Shape: projectile.ShapeRect,
			HalfW: numProp(params, "half_w", 4),
			HalfH: numProp(params, "half_h", 4),
		}
	}
	return projectile.Collision{Shape: projectile.ShapeCircle, Radius: numProp(params, "radius", 4)}
}

func (b *Bindings) projectileSpawnParams(params goja.Value) projectile.SpawnParams {
	p := projectile.SpawnParams{
		Pos:             vecProp(params, "pos"),
		Color:           colorProp(params, "color"),
		Move:            moveProp(params, "move"),
		Type:            projectileTypeFromString(strProp(params, "type", "enemy")),
		Flags:           projectile.Flags(intProp(params, "flags", 0)),
		Shader:          strProp(params, "shader", ""),
		Damage:          numProp(params, "damage", 0),
		Collision:       collisionFromParams(params),
		Layer:           intProp(params, "layer", 0),
		MaxViewportDist: numProp(params, "cull_margin", 64),
	}
	if fn, ok := funcProp(params, "rule"); ok {
		p.Rule = b.wrapProjectileRule(fn)
	}
	return p
}

// create_projectile(params): returns an entity handle (§6).
func (b *Bindings) createProjectile(call goja.FunctionCall) goja.Value {
	p := b.projectileSpawnParams(call.Argument(0))
	h := b.projectiles.Spawn(b.frame(), p)
	return b.vm.ToValue(h)
}

// create_particle(params): returns an entity handle (§6). A particle is
// a projectile forced to TypeParticle with collision suppressed — §4.7's
// classifyCollision already no-ops on TypeParticle, FlagNoCollision just
// skips the (otherwise wasted) distance check entirely.
func (b *Bindings) createParticle(call goja.FunctionCall) goja.Value {
	p := b.projectileSpawnParams(call.Argument(0))
	p.Type = projectile.TypeParticle
	p.Flags |= projectile.FlagNoCollision
	h := b.projectiles.Spawn(b.frame(), p)
	return b.vm.ToValue(h)
}

func (b *Bindings) posRuleFromParams(params goja.Value) laser.PosRule {
	if fn, ok := funcProp(params, "curve"); ok {
		return func(t float64) cmplx2d.Vec {
			res, err := fn(goja.Undefined(), b.vm.ToValue(t))
			if err != nil {
				corelog.Errorf("scripting: laser curve error: %v", err)
				return 0
			}
			return vecValue(res)
		}
	}
	origin := vecProp(params, "pos")
	vel := vecProp(params, "vel")
	return func(t float64) cmplx2d.Vec {
		return origin + complex(t, 0)*vel
	}
}

// create_laser(params): returns an entity handle (§6). params.curve, if
// present, is a JS function (t) => {x, y}; otherwise pos/vel describe a
// straight line, the common case for a laser's position rule.
func (b *Bindings) createLaser(call goja.FunctionCall) goja.Value {
	params := call.Argument(0)
	p := laser.SpawnParams{
		Pos: b.posRuleFromParams(params),
		Width: laser.WidthEnvelope{
			Width:    numProp(params, "width", 4),
			RampIn:   intProp(params, "ramp_in", 0),
			RampOut:  intProp(params, "ramp_out", 0),
			Lifetime: intProp(params, "lifetime", 60),
		},
		Color:  colorProp(params, "color"),
		Layer:  intProp(params, "layer", 0),
		Damage: numProp(params, "damage", 1),
	}
	h := b.lasers.Spawn(b.frame(), p)
	return b.vm.ToValue(h)
}

// defaultBossHP seeds a boss's underlying enemy HP pool. §6's
// create_boss(name, sprite, pos) carries no hp argument — each attack's
// hp_budget (boss_add_attack's "bonus" parameter, see bossAddAttack below) is
// tracked as a delta against this running pool rather than against a
// fresh per-attack allowance, so the pool only needs to be larger than
// any single stage's attacks could plausibly sum to.
const defaultBossHP = 1e7

// create_boss(name, sprite, pos): constructs the boss's underlying
// enemy and wraps it (§6).
func (b *Bindings) createBoss(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	sprite := call.Argument(1).String()
	pos := vecValue(call.Argument(2))

	h := b.enemies.Spawn(b.frame(), enemy.SpawnParams{
		Pos:       pos,
		HP:        defaultBossHP,
		HitRadius: 32,
		Layer:     0,
	})
	e, ok := b.enemies.Resolve(h)
	if !ok {
		corelog.Errorf("scripting: create_boss: spawned enemy vanished immediately")
		return goja.Undefined()
	}

	boss := enemy.NewBoss(name, sprite, e)
	return b.vm.ToValue(boss)
}

func bossFromValue(v goja.Value) *enemy.Boss {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	boss, _ := v.Export().(*enemy.Boss)
	return boss
}

func attackTypeFromString(s string) enemy.AttackType {
	switch s {
	case "spell":
		return enemy.AttackSpell
	case "survival_spell":
		return enemy.AttackSurvivalSpell
	case "extra_spell":
		return enemy.AttackExtraSpell
	case "move":
		return enemy.AttackMove
	default:
		return enemy.AttackNormal
	}
}

// boss_add_attack(boss, type, name, timeout, bonus, entry): appends an
// attack to boss's list (§6). `bonus` maps onto Attack.HPBudget: the
// amount of HP that must be shed during the attack (within `timeout`
// frames, §4.9) for its spell bonus to be eligible — it's the only HP
// threshold this call's parameter list carries, and it plays exactly the
// budget role Attack.HPBudget already implements.
func (b *Bindings) bossAddAttack(call goja.FunctionCall) goja.Value {
	boss := bossFromValue(call.Argument(0))
	if boss == nil {
		corelog.Errorf("scripting: boss_add_attack: argument is not a boss")
		return goja.Undefined()
	}
	typ := attackTypeFromString(call.Argument(1).String())
	name := call.Argument(2).String()
	timeout := int(call.Argument(3).ToInteger())
	bonus := call.Argument(4).ToFloat()
	entryFn, ok := funcValue(call.Argument(5))
	if !ok {
		corelog.Errorf("scripting: boss_add_attack: entry is not a function")
		return goja.Undefined()
	}

	entry := b.wrapEntry(entryFn, goja.Undefined())
	boss.AddAttack(enemy.NewAttack(name, typ, bonus, timeout, entry))
	return goja.Undefined()
}

// boss_start_attack(boss): begins the next attack in boss's list (§6).
func (b *Bindings) bossStartAttack(call goja.FunctionCall) goja.Value {
	boss := bossFromValue(call.Argument(0))
	if boss == nil {
		corelog.Errorf("scripting: boss_start_attack: argument is not a boss")
		return goja.Undefined()
	}
	boss.StartAttack(b.frame(), b.sched)
	return goja.Undefined()
}

// item creation isn't named in §6's external-interface list, but stage
// scripts still need a way to drop pickups outside of internal bonus-item
// hooks (e.g. a scripted "drop a power item here" moment); exposed as a
// small addition in the same idiom as create_projectile/create_particle,
// grounded on internal/item.SpawnParams rather than any distinct §6 entry.
func (b *Bindings) createItem(call goja.FunctionCall) goja.Value {
	params := call.Argument(0)
	typ := item.Type(intProp(params, "type", int(item.TypePoints)))
	p := item.SpawnParams{
		Pos:         vecProp(params, "pos"),
		Move:        moveProp(params, "move"),
		Type:        typ,
		PickupValue: numProp(params, "value", 1),
		AutoCollect: boolProp(params, "auto_collect", false),
	}
	h := b.items.Spawn(b.frame(), p)
	return b.vm.ToValue(h)
}
