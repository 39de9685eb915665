package scripting

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/item"
	"github.com/taisei-project/core/internal/laser"
	"github.com/taisei-project/core/internal/projectile"
	"github.com/taisei-project/core/internal/task"
)

func newTestBindings(t *testing.T) (*Bindings, *goja.Runtime, *task.Scheduler) {
	t.Helper()

	reg := entity.NewRegistry(64)
	projViewport := projectile.Viewport{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100}
	enemyViewport := enemy.Viewport{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100}

	m := Managers{
		Enemies:     enemy.NewManager(reg, 16, enemyViewport),
		Projectiles: projectile.NewManager(reg, 16, projViewport),
		Lasers:      laser.NewManager(reg, 16),
		Items:       item.NewManager(reg, 16),
	}

	sched := task.New()
	vm := goja.New()
	frame := 0
	b := New(vm, sched, func() int { return frame }, m, nil)
	require.NoError(t, b.Install())
	return b, vm, sched
}

func TestInvokeTaskRunsEntryImmediatelyUpToFirstSuspension(t *testing.T) {
	_, vm, _ := newTestBindings(t)

	_, err := vm.RunString(`
		var ran = false;
		invoke_task(function(args) { ran = args; }, 42);
	`)
	require.NoError(t, err)

	assert.Equal(t, int64(42), vm.Get("ran").Export())
}

func TestWaitSuspendsAndResumesOnSchedulerStep(t *testing.T) {
	_, vm, sched := newTestBindings(t)

	_, err := vm.RunString(`
		var phase = 0;
		invoke_task(function() {
			phase = 1;
			wait(2);
			phase = 2;
		});
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vm.Get("phase").Export())

	sched.Step()
	assert.Equal(t, int64(1), vm.Get("phase").Export(), "still waiting after one step")

	sched.Step()
	assert.Equal(t, int64(2), vm.Get("phase").Export(), "resumes after its wait elapses")
}

func TestInvokeSubtaskRunsUnderCurrentTask(t *testing.T) {
	_, vm, _ := newTestBindings(t)

	_, err := vm.RunString(`
		var childRan = false;
		invoke_task(function() {
			invoke_subtask(function() { childRan = true; });
		});
	`)
	require.NoError(t, err)
	assert.True(t, vm.Get("childRan").ToBoolean())
}

func TestCreateProjectileSpawnsAndRuleDestroysNextFrame(t *testing.T) {
	b, vm, _ := newTestBindings(t)

	_, err := vm.RunString(`
		create_projectile({
			pos: {x: 0, y: 0},
			move: {vel: {x: 1, y: 0}},
			damage: 1,
			rule: function(age) {
				if (age >= 1) { return "destroy"; }
			},
		});
	`)
	require.NoError(t, err)
	assert.Equal(t, 1, b.projectiles.LiveCount())

	b.projectiles.Update(1, nil, nil, false)
	assert.Equal(t, 0, b.projectiles.LiveCount())
}

func TestCreateEnemyWithLogicAndVisualRules(t *testing.T) {
	b, vm, _ := newTestBindings(t)

	_, err := vm.RunString(`
		var visualCalls = 0;
		create_enemy({x: 0, y: 0}, 10, function(age, render, args) {
			visualCalls++;
		}, function(age, args) {
			return args === "die" ? "destroy" : undefined;
		}, "die");
	`)
	require.NoError(t, err)
	assert.Equal(t, 1, b.enemies.LiveCount())

	b.enemies.Update(1, nil)
	assert.Equal(t, 0, b.enemies.LiveCount(), "logic rule requested destroy via its args-carried condition")
}

func TestCreateBossAddAttackAndStartAttack(t *testing.T) {
	b, vm, sched := newTestBindings(t)

	_, err := vm.RunString(`
		var boss = create_boss("stage-boss", "boss_sprite", {x: 0, y: 0});
		var entered = false;
		boss_add_attack(boss, "spell", "attack-1", 600, 100, function() {
			entered = true;
		});
		boss_start_attack(boss);
	`)
	require.NoError(t, err)
	assert.True(t, vm.Get("entered").ToBoolean())
	assert.Equal(t, 1, b.enemies.LiveCount())
	_ = sched
}

func TestStageFinishInvokesCallbackWithOutcome(t *testing.T) {
	reg := entity.NewRegistry(8)
	m := Managers{
		Enemies:     enemy.NewManager(reg, 8, enemy.Viewport{MaxX: 100, MaxY: 100}),
		Projectiles: projectile.NewManager(reg, 8, projectile.Viewport{MaxX: 100, MaxY: 100}),
		Lasers:      laser.NewManager(reg, 8),
		Items:       item.NewManager(reg, 8),
	}
	sched := task.New()
	vm := goja.New()

	var got string
	b := New(vm, sched, func() int { return 0 }, m, func(outcome string) { got = outcome })
	require.NoError(t, b.Install())

	_, err := vm.RunString(`stage_finish("cleared");`)
	require.NoError(t, err)
	assert.Equal(t, "cleared", got)
}

func TestWaitOutsideTaskLogsRatherThanPanics(t *testing.T) {
	_, vm, _ := newTestBindings(t)

	assert.NotPanics(t, func() {
		_, err := vm.RunString(`wait(5);`)
		require.NoError(t, err)
	})
}
