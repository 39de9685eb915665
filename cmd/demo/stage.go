package main

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/scripting"
	"github.com/taisei-project/core/internal/sim"
)

// demoStageScript is a small §6 stage script exercising the bindings a
// real stage would use: a boss with one spell attack that loops firing
// bullet rings with a wait between rings, plus a couple of plain enemies.
// Go-side values the bindings hand back (the boss handle, subtask
// tasks) are only ever passed back into other binding calls here, never
// field-read from JS — several of the Go types behind them (Enemy,
// Projectile) carry a cmplx2d.Vec position, which goja's reflection
// cannot marshal, so scripts must treat boss/task values as opaque
// tokens rather than objects with readable fields.
const demoStageScript = `
function fire_ring(origin, n, speed) {
	for (var i = 0; i < n; i++) {
		var angle = (i / n) * Math.PI * 2;
		create_projectile({
			pos: origin,
			move: { vel: { x: Math.cos(angle) * speed, y: Math.sin(angle) * speed } },
			color: { r: 1.0, g: 0.35, b: 0.6, a: 1.0 },
			damage: 1,
			radius: 3,
		});
	}
}

function ring_attack() {
	var origin = { x: 0, y: -150 };
	while (true) {
		fire_ring(origin, 16, 1.6);
		wait(24);
	}
}

function fodder_logic(age, args) {
	if (age > 240) { return "destroy"; }
}

create_enemy({ x: -80, y: -100 }, 30, function() {}, fodder_logic, null);
create_enemy({ x: 80, y: -100 }, 30, function() {}, fodder_logic, null);

var boss = create_boss("demo-boss", "boss_sprite", { x: 0, y: -150 });
boss_add_attack(boss, "spell", "ring-spell", 1800, 8000, ring_attack);
boss_start_attack(boss);
`

// loadDemoStage installs the §6 bindings against s's managers/scheduler
// and runs demoStageScript once, the same load sequence a real stage
// driver would use for a compiled .js stage file. It also recovers the
// boss the script created (read back off the JS "boss" global) so the
// caller can wire it into sim.Sim.Boss — the scripting package spawns a
// boss's underlying enemy through the enemy manager same as any other
// enemy, but driving its attack timer via Sim.Step is the stage
// driver's job, not the bindings'.
func loadDemoStage(s *sim.Sim, onFinish func(outcome string)) (*goja.Runtime, *enemy.Boss, error) {
	vm := goja.New()
	b := scripting.New(vm, s.Sched, func() int { return s.Frame }, scripting.Managers{
		Enemies:     s.Enemies,
		Projectiles: s.Projectiles,
		Lasers:      s.Lasers,
		Items:       s.Items,
	}, onFinish)

	if err := b.Install(); err != nil {
		return nil, nil, err
	}
	if _, err := vm.RunString(demoStageScript); err != nil {
		return nil, nil, err
	}

	boss, _ := vm.Get("boss").Export().(*enemy.Boss)
	return vm, boss, nil
}
