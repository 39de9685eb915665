package enemy

import (
	"github.com/taisei-project/core/internal/event"
	"github.com/taisei-project/core/internal/task"
)

// AttackType classifies a boss attack (§3 Boss "attack").
type AttackType int

const (
	AttackMove AttackType = iota
	AttackNormal
	AttackSpell
	AttackSurvivalSpell
	AttackExtraSpell
)

// IsSpell reports whether a bonus can be awarded for this attack type.
func (t AttackType) IsSpell() bool {
	return t == AttackSpell || t == AttackSurvivalSpell || t == AttackExtraSpell
}

// Attack is one entry in a Boss's attack list (§3).
type Attack struct {
	Name      string
	Type      AttackType
	HPBudget  float64
	TimeLimit int
	Entry     task.Body

	Started  *event.Event
	Finished *event.Event

	startFrame    int
	hpAtStart     float64
	finished      bool
	playerFaulted bool // player died or bombed during this attack: disqualifies the spell bonus
	bonusAwarded  bool
}

// NewAttack constructs an attack with fresh Started/Finished events.
func NewAttack(name string, typ AttackType, hpBudget float64, timeLimit int, entry task.Body) *Attack {
	return &Attack{
		Name:      name,
		Type:      typ,
		HPBudget:  hpBudget,
		TimeLimit: timeLimit,
		Entry:     entry,
		Started:   event.New(),
		Finished:  event.New(),
	}
}

// NotePlayerFault marks that the player died or used a bomb during this
// attack, disqualifying the spell-card bonus even if the HP budget and
// time limit are both met.
func (a *Attack) NotePlayerFault() { a.playerFaulted = true }

// BonusAwarded reports whether this attack's completion earned its bonus.
func (a *Attack) BonusAwarded() bool { return a.bonusAwarded }

// Boss is the §3 Boss entity: a named enemy-like object with an HP pool,
// a list of attacks, and a cursor into that list.
type Boss struct {
	*Enemy

	Name    string
	Sprite  string
	Attacks []*Attack
	current int
	task    *task.Task
}

// NewBoss wraps an already-spawned enemy as a boss.
func NewBoss(name, sprite string, e *Enemy) *Boss {
	return &Boss{Enemy: e, Name: name, Sprite: sprite, current: -1}
}

// AddAttack appends an attack to the list (§6 boss_add_attack).
func (b *Boss) AddAttack(a *Attack) { b.Attacks = append(b.Attacks, a) }

// CurrentAttack returns the in-progress attack, or nil if none has
// started yet or all have completed.
func (b *Boss) CurrentAttack() *Attack {
	if b.current < 0 || b.current >= len(b.Attacks) {
		return nil
	}
	return b.Attacks[b.current]
}

// IsDefeated reports whether every attack has been advanced past.
func (b *Boss) IsDefeated() bool { return b.current >= len(b.Attacks) }

// StartAttack begins the next attack in the list (§6 boss_start_attack):
// records its start frame/HP, signals Started, and spawns its coroutine
// entry as a task on sched.
func (b *Boss) StartAttack(frame int, sched *task.Scheduler) {
	b.current++
	a := b.CurrentAttack()
	if a == nil {
		return
	}
	a.startFrame = frame
	a.hpAtStart = b.HP
	a.Started.Signal(nil)
	b.task = sched.InvokeTask(a.Entry)
}

// UpdateAttack implements the §4.9 boss attack driver: force-finishes
// the current attack when its time budget elapses, its HP threshold is
// crossed, or the boss is defeated outright, then awards the spell
// bonus if eligible. A spell bonus requires finishing within budget,
// within the time limit, and with no player death/bomb during the
// attack (per the attack's own playerFaulted marker).
func (b *Boss) UpdateAttack(frame int, sched *task.Scheduler) {
	a := b.CurrentAttack()
	if a == nil || a.finished {
		return
	}

	elapsed := frame - a.startFrame
	timedOut := a.TimeLimit > 0 && elapsed >= a.TimeLimit
	hpDepleted := a.HPBudget > 0 && a.hpAtStart-b.HP >= a.HPBudget
	defeated := b.HP <= 0

	if !timedOut && !hpDepleted && !defeated {
		return
	}

	a.finished = true
	if a.Type.IsSpell() && !a.playerFaulted && !timedOut && (hpDepleted || defeated) {
		a.bonusAwarded = true
	}
	if b.task != nil {
		sched.Cancel(b.task)
		b.task = nil
	}
	a.Finished.Signal(nil)
}
