// Package task implements §4.4/§4.5's cooperative task system: Task
// bodies that suspend at well-defined points (yield, wait(n), wait_event)
// and a Scheduler that resumes every live task exactly once per pass, in
// the order tasks were created.
//
// The original engine gets a stackful coroutine for free from its koishi
// fiber library; Go has no public fiber API, but every goroutine already
// owns a growable stack, so a Task is a goroutine synchronized with its
// scheduler by a pair of unbuffered channels acting as a rendezvous: the
// scheduler's resume send and the task's yielded send never proceed
// concurrently with each other, so only one Task body ever executes at a
// time, exactly like the fiber model (§5: "the simulation is logically
// single-threaded — no task ever observes another task's code running
// concurrently with its own").
//
// Cancellation unwinds the target's Go call stack with panic/recover
// using an unexported sentinel, which has the pleasant side effect of
// running the cancelled task's own `defer`s — a better cleanup story than
// the original's non-unwinding fiber cancellation, and one the spec's
// finalizer mechanism (§4.4) doesn't forbid.
package task

import "github.com/taisei-project/core/internal/event"

// Status is a Task's lifecycle state (§4.4).
type Status int

const (
	StatusSuspended Status = iota
	StatusRunning
	StatusDead
)

type msgKind int

const (
	msgSuspended msgKind = iota
	msgDead
)

type yieldMsg struct {
	kind msgKind
}

type cancelSentinelT struct{}

// cancelSentinel is panicked into a task's own goroutine to unwind it
// when the task is cancelled while suspended; run's recover distinguishes
// it from a genuine bug, which is re-panicked.
var cancelSentinel = cancelSentinelT{}

type wakePayload struct {
	value    any
	canceled bool
}

// Finalizer runs exactly once when a Task transitions to dead, whether by
// normal return or cancellation (§4.4).
type Finalizer func()

// Body is a task's entry point. It receives the Task it's running as,
// which is also how it reaches Yield/Wait/WaitEvent/InvokeSubtask: the
// spec's implicit "currently active task" becomes an explicit parameter,
// which is more idiomatic Go than a hidden global (§9 design note).
type Body func(t *Task)

// Task is one cooperatively-scheduled coroutine (§3 "Task").
type Task struct {
	id     ID
	sched  *Scheduler
	status Status

	parent   *Task
	subtasks []*Task

	finished  *event.Event
	finalizer Finalizer

	boundHandle    any
	resolveBound   func(h any) (any, bool)
	hasBoundEntity bool

	resume  chan any
	yielded chan yieldMsg

	isWaitingEvent bool
	waitingEvent   *event.Event
	waitToken      uint64

	pendingWake *wakePayload
}

// ID is a process-lifetime-unique task identity.
type ID uint64

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status { return t.status }

// IsDead reports whether the task has finished (normally or via cancellation).
func (t *Task) IsDead() bool { return t.status == StatusDead }

// Finished returns the event signaled exactly once, with no value, when
// this task transitions to dead (§4.4 "every task exposes a finished event").
func (t *Task) Finished() *event.Event { return t.finished }

// SetFinalizer installs the cleanup run on death. Only one finalizer is
// supported per task (matching §4.4's "a" finalizer, singular); a second
// call replaces the first.
func (t *Task) SetFinalizer(fn Finalizer) { t.finalizer = fn }

// BindToEntity ties this task's continued execution to an entity's
// lifetime (§4.4 bind_to_entity): at every future resumption point, if
// resolve(handle) reports the entity gone, the task is cancelled before
// its body observes the resumption.
func (t *Task) BindToEntity(handle any, resolve func(h any) (any, bool)) {
	t.boundHandle = handle
	t.resolveBound = resolve
	t.hasBoundEntity = true
}

// Wake implements event.Waiter: it stashes value/canceled for delivery on
// this task's next scheduler resume. It must not be called concurrently
// with the task itself running, which holds because only one task's code
// (or the scheduler's own driver) executes at any instant (§5).
func (t *Task) Wake(value any, canceled bool) {
	t.pendingWake = &wakePayload{value: value, canceled: canceled}
}

// suspend is the single primitive every blocking call funnels through: it
// reports "suspended" to the scheduler and blocks until resumed, then
// checks for cancellation or a dead bound entity before handing control
// back to the caller.
func (t *Task) suspend() any {
	t.yielded <- yieldMsg{kind: msgSuspended}
	payload := <-t.resume
	if payload == cancelSentinel {
		panic(cancelSentinel)
	}
	if t.hasBoundEntity {
		if _, live := t.resolveBound(t.boundHandle); !live {
			panic(cancelSentinel)
		}
	}
	return payload
}

// Yield suspends until the scheduler's next pass (§4.4 yield).
func (t *Task) Yield() {
	t.suspend()
}

// Wait suspends for n frames; Wait(0) is a no-op, Wait(1) is Yield
// (§4.4), implemented as the original's WAIT macro is: a loop of Yields.
func (t *Task) Wait(n int) {
	for i := 0; i < n; i++ {
		t.Yield()
	}
}

// WaitEvent subscribes to e and suspends until e fires (returning its
// signaled value) or is cancelled (returning canceled == true). Spurious
// scheduler resumes that deliver no real wake (every pass resumes every
// live task — §4.5) re-suspend transparently without the caller seeing
// them, matching the original's cotask_wait_event loop.
func (t *Task) WaitEvent(e *event.Event) (value any, canceled bool) {
	token := e.Subscribe(t)
	t.isWaitingEvent = true
	t.waitingEvent = e
	t.waitToken = token
	defer func() {
		t.isWaitingEvent = false
		t.waitingEvent = nil
	}()

	for {
		payload := t.suspend()
		if wp, ok := payload.(*wakePayload); ok {
			return wp.value, wp.canceled
		}
		// Resumed without a real wake (plain per-pass tick): still waiting.
	}
}

// InvokeSubtask spawns a child of t: cancelling t transitively cancels
// this child (and everything it spawns) before t's own finalizer runs
// (§4.4, §5).
func (t *Task) InvokeSubtask(fn Body) *Task {
	return t.sched.spawn(t, fn)
}

// InvokeTask spawns an independent sibling task on t's scheduler: it is
// not cancelled when t is (§4.4 invoke_task, called from task code).
func (t *Task) InvokeTask(fn Body) *Task {
	return t.sched.spawn(nil, fn)
}

// InvokeSubtaskDelayed spawns a subtask whose body first waits n frames.
func (t *Task) InvokeSubtaskDelayed(n int, fn Body) *Task {
	return t.sched.spawn(t, func(c *Task) { c.Wait(n); fn(c) })
}

// InvokeSubtaskWhen spawns a subtask that runs fn only once e fires,
// dying uneventfully (no fn call) if e is cancelled first.
func (t *Task) InvokeSubtaskWhen(e *event.Event, fn Body) *Task {
	return t.sched.spawn(t, func(c *Task) {
		_, canceled := c.WaitEvent(e)
		if canceled {
			return
		}
		fn(c)
	})
}
