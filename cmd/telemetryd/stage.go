package main

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/scripting"
	"github.com/taisei-project/core/internal/sim"
)

// headlessStageScript is the stage a telemetryd process simulates for
// spectators to watch: one boss looping a spread attack, no rendering
// concept since this process never opens a window. Shares
// cmd/demo/stage.go's opaque-handle discipline (Go values round-trip
// through JS but are never field-read from it).
const headlessStageScript = `
function spread_attack() {
	var origin = { x: 0, y: -150 };
	var n = 0;
	while (true) {
		for (var i = -2; i <= 2; i++) {
			create_projectile({
				pos: origin,
				move: { vel: { x: i * 0.6, y: 2.2 } },
				color: { r: 0.4, g: 0.7, b: 1.0, a: 1.0 },
				damage: 1,
				radius: 3,
			});
		}
		wait(18);
		n++;
		if (n > 500) { stage_finish("cleared"); return; }
	}
}

var boss = create_boss("telemetry-boss", "boss_sprite", { x: 0, y: -150 });
boss_add_attack(boss, "spell", "spread-spell", 0, 0, spread_attack);
boss_start_attack(boss);
`

func loadHeadlessStage(s *sim.Sim, onFinish func(outcome string)) (*enemy.Boss, error) {
	vm := goja.New()
	b := scripting.New(vm, s.Sched, func() int { return s.Frame }, scripting.Managers{
		Enemies:     s.Enemies,
		Projectiles: s.Projectiles,
		Lasers:      s.Lasers,
		Items:       s.Items,
	}, onFinish)

	if err := b.Install(); err != nil {
		return nil, err
	}
	if _, err := vm.RunString(headlessStageScript); err != nil {
		return nil, err
	}

	boss, _ := vm.Get("boss").Export().(*enemy.Boss)
	return boss, nil
}
