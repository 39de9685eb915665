package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taisei-project/core/internal/task"
)

func newTestBoss(hp float64) *Boss {
	m, reg := newManager()
	h := m.Spawn(0, SpawnParams{HP: hp})
	e, _ := reg.Resolve(h)
	return NewBoss("Test Boss", "boss/test", e.(*Enemy))
}

func TestStartAttackSignalsStartedAndSpawnsEntryTask(t *testing.T) {
	b := newTestBoss(100)
	sched := task.New()

	var entryRan bool
	var started int
	a := NewAttack("intro", AttackMove, 0, 0, func(t *task.Task) { entryRan = true })
	a.Started.Subscribe(wakerFunc(func(any, bool) { started++ }))
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()

	assert.Equal(t, 1, started)
	assert.True(t, entryRan)
}

func TestAttackFinishesOnTimeout(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	var finished int
	a := NewAttack("survival", AttackSurvivalSpell, 10000, 600, func(t *task.Task) {
		for {
			t.Yield()
		}
	})
	a.Finished.Subscribe(wakerFunc(func(any, bool) { finished++ }))
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()

	b.UpdateAttack(599, sched)
	assert.Equal(t, 0, finished)

	b.UpdateAttack(600, sched)
	assert.Equal(t, 1, finished)
	assert.False(t, a.BonusAwarded())
}

func TestAttackFinishesWhenHPBudgetDepletedBeforeTimeout(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	a := NewAttack("spell", AttackSpell, 10000, 600, func(t *task.Task) {
		for {
			t.Yield()
		}
	})
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()

	b.Enemy.HP = 0
	b.UpdateAttack(100, sched)

	assert.True(t, a.finished)
	assert.True(t, a.BonusAwarded())
}

func TestPlayerFaultDisqualifiesBonusEvenWithinBudgetAndTime(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	a := NewAttack("spell", AttackSpell, 10000, 600, func(t *task.Task) {
		for {
			t.Yield()
		}
	})
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()

	a.NotePlayerFault()
	b.Enemy.HP = 0
	b.UpdateAttack(100, sched)

	assert.True(t, a.finished)
	assert.False(t, a.BonusAwarded())
}

func TestNormalAttackNeverAwardsBonus(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	a := NewAttack("normal", AttackNormal, 10000, 600, func(t *task.Task) {
		for {
			t.Yield()
		}
	})
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()

	b.Enemy.HP = 0
	b.UpdateAttack(100, sched)

	assert.True(t, a.finished)
	assert.False(t, a.BonusAwarded())
}

func TestAttackEntryTaskIsCanceledWhenAttackFinishes(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	a := NewAttack("spell", AttackSpell, 10000, 600, func(t *task.Task) {
		for {
			t.Yield()
		}
	})
	b.AddAttack(a)

	b.StartAttack(0, sched)
	sched.Step()
	assert.Equal(t, 1, sched.Count())

	b.UpdateAttack(600, sched)
	assert.Equal(t, 0, sched.Count())
}

func TestIsDefeatedOnceAdvancedPastLastAttack(t *testing.T) {
	b := newTestBoss(10000)
	sched := task.New()

	a := NewAttack("only", AttackMove, 0, 0, func(t *task.Task) {})
	b.AddAttack(a)
	assert.False(t, b.IsDefeated())

	b.StartAttack(0, sched)
	sched.Step()
	assert.False(t, b.IsDefeated(), "the only attack is still the current one")

	b.StartAttack(1, sched)
	assert.True(t, b.IsDefeated())
}
