// Package scripting exposes §6's external interface — the function
// surface a stage script calls to drive the simulation — to a goja
// JavaScript runtime. Grounded on
// `r3e-network-service_layer/system/tee/script_engine.go`'s goja usage:
// one *goja.Runtime per isolated script, Go functions installed with
// vm.Set/vm.NewObject, JS entry points invoked through
// goja.AssertFunction.
//
// §4.4's "currently active task" is, at the Go level, an explicit
// parameter threaded through every task.Body (internal/task's own design
// note). A JS task body has no Go call site to receive that parameter
// through, so Bindings tracks it itself: immediately before calling into
// a JS entry function, it records the *task.Task that's about to run as
// current, and restores the previous value when the call returns. This
// is safe only because internal/task guarantees that exactly one task's
// code — and therefore at most one call into this runtime — executes at
// any instant (its scheduler rendezvous invariant); it does not
// contradict the explicit-parameter decision for Go task bodies, since
// that decision is about Go-to-Go threading and this is JS-glue with no
// Go caller in the loop.
package scripting

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/item"
	"github.com/taisei-project/core/internal/laser"
	"github.com/taisei-project/core/internal/projectile"
	"github.com/taisei-project/core/internal/task"
)

// Bindings wires one stage's managers into one goja.Runtime. A Bindings
// is single-use: construct one per stage run, call Install once, then
// discard it when the stage ends.
type Bindings struct {
	vm    *goja.Runtime
	sched *task.Scheduler
	frame func() int

	enemies     *enemy.Manager
	projectiles *projectile.Manager
	lasers      *laser.Manager
	items       *item.Manager

	current *task.Task

	onFinish func(outcome string)
}

// Managers gathers the subsystems a stage script is allowed to reach
// into, the Go analogue of §6's "active" enemy list / projectile pool /
// laser pool / item pool.
type Managers struct {
	Enemies     *enemy.Manager
	Projectiles *projectile.Manager
	Lasers      *laser.Manager
	Items       *item.Manager
}

// New constructs a Bindings. frame must return the current simulation
// frame number (used as each spawn call's birth frame); onFinish is
// called when the script invokes stage_finish.
func New(vm *goja.Runtime, sched *task.Scheduler, frame func() int, m Managers, onFinish func(outcome string)) *Bindings {
	return &Bindings{
		vm:          vm,
		sched:       sched,
		frame:       frame,
		enemies:     m.Enemies,
		projectiles: m.Projectiles,
		lasers:      m.Lasers,
		items:       m.Items,
		onFinish:    onFinish,
	}
}

// Install registers every §6 external-interface function as a global in
// the wrapped runtime.
func (b *Bindings) Install() error {
	sets := map[string]any{
		"invoke_task":         b.invokeTask,
		"invoke_subtask":      b.invokeSubtask,
		"invoke_task_delayed": b.invokeTaskDelayed,
		"invoke_task_when":    b.invokeTaskWhen,
		"wait":                b.wait,
		"yield_task":          b.yieldTask,
		"wait_event":          b.waitEvent,
		"create_enemy":        b.createEnemy,
		"create_projectile":   b.createProjectile,
		"create_particle":     b.createParticle,
		"create_laser":        b.createLaser,
		"create_item":         b.createItem,
		"create_boss":         b.createBoss,
		"boss_add_attack":     b.bossAddAttack,
		"boss_start_attack":   b.bossStartAttack,
		"stage_finish":        b.stageFinish,
	}
	for name, fn := range sets {
		if err := b.vm.Set(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// requireCurrent returns the task the runtime is presently executing as,
// logging rather than panicking if a script calls a task-relative
// function (invoke_subtask, wait, ...) outside of any task body — a
// scripting error, not a Go programming error, per §7's release-mode
// tolerance for caller mistakes at a scripting boundary.
func (b *Bindings) requireCurrent(fn string) *task.Task {
	if b.current == nil {
		corelog.Errorf("scripting: %s called with no active task", fn)
	}
	return b.current
}

// runAsCurrent makes t the active task for the duration of body, restoring
// whatever was active beforehand (supporting nested invoke_task calls
// made from within a running script entry).
func (b *Bindings) runAsCurrent(t *task.Task, body func()) {
	prev := b.current
	b.current = t
	defer func() { b.current = prev }()
	body()
}
