package task

import "github.com/taisei-project/core/internal/event"

// Scheduler drives every task registered on it (§4.5). One Scheduler is
// owned by one simulation; Step is expected to be called once per
// simulated frame.
type Scheduler struct {
	tasks  []*Task
	nextID ID
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Count returns the number of tasks not yet dead.
func (s *Scheduler) Count() int {
	n := 0
	for _, t := range s.tasks {
		if t.status != StatusDead {
			n++
		}
	}
	return n
}

// InvokeTask spawns a new top-level task, used by non-task code bootstrapping
// the simulation (§4.4 "invoke_task called from outside any task").
func (s *Scheduler) InvokeTask(fn Body) *Task {
	return s.spawn(nil, fn)
}

// InvokeTaskDelayed spawns a top-level task whose body first waits n frames.
func (s *Scheduler) InvokeTaskDelayed(n int, fn Body) *Task {
	return s.spawn(nil, func(t *Task) { t.Wait(n); fn(t) })
}

// InvokeTaskWhen spawns a top-level task gated on an event (§4.4 invoke_task_when).
func (s *Scheduler) InvokeTaskWhen(e *event.Event, fn Body) *Task {
	return s.spawn(nil, func(t *Task) {
		_, canceled := t.WaitEvent(e)
		if canceled {
			return
		}
		fn(t)
	})
}

// spawn creates and runs a task's body up to its first suspension point
// (or straight to completion, if it never suspends) synchronously with
// the caller — matching the original's "a new task starts executing
// immediately and returns control to its creator at the first yield"
// (§4.4). Tasks created while Step is mid-pass are not part of that
// pass's snapshot, so they're naturally deferred to the following pass
// (§4.4 invariant (a)).
func (s *Scheduler) spawn(parent *Task, fn Body) *Task {
	s.nextID++
	t := &Task{
		id:      s.nextID,
		sched:   s,
		status:  StatusRunning,
		parent:  parent,
		finished: event.New(),
		resume:  make(chan any),
		yielded: make(chan yieldMsg),
	}
	s.tasks = append(s.tasks, t)
	if parent != nil {
		parent.subtasks = append(parent.subtasks, t)
	}

	go t.run(fn)
	msg := <-t.yielded
	if msg.kind == msgDead {
		s.finishTask(t)
	} else {
		t.status = StatusSuspended
	}
	return t
}

func (t *Task) run(fn Body) {
	defer func() {
		if r := recover(); r != nil {
			if r != cancelSentinel {
				panic(r)
			}
		}
		t.yielded <- yieldMsg{kind: msgDead}
	}()
	fn(t)
}

// Step resumes every task that was live at the moment Step was called,
// exactly once each, in the order they were created (§4.5 P5: "a single
// scheduler pass resumes every live task exactly once, in creation
// order"). Tasks created during this pass (by a task's own body invoking
// a new subtask/sibling) do not run until the following Step call.
func (s *Scheduler) Step() int {
	snapshot := make([]*Task, len(s.tasks))
	copy(snapshot, s.tasks)

	ran := 0
	for _, t := range snapshot {
		if t.status != StatusSuspended {
			continue
		}
		s.resumeOnce(t)
		ran++
	}
	s.reap()
	return ran
}

func (s *Scheduler) resumeOnce(t *Task) {
	t.status = StatusRunning
	var payload any
	if t.pendingWake != nil {
		payload = t.pendingWake
		t.pendingWake = nil
	}
	t.resume <- payload
	msg := <-t.yielded
	if msg.kind == msgDead {
		s.finishTask(t)
		return
	}
	t.status = StatusSuspended
}

// Cancel forcibly ends t: if t is suspended, its goroutine is unwound via
// the cancellation sentinel; cancellation is synchronous from the
// caller's perspective, so t is dead by the time Cancel returns (§4.4).
// Cancelling an already-dead task is a no-op.
func (s *Scheduler) Cancel(t *Task) {
	if t.status == StatusDead {
		return
	}
	t.status = StatusRunning
	t.resume <- cancelSentinel
	<-t.yielded // always msgDead: run's defer only ever sends that after recover
	s.finishTask(t)
}

// finishTask runs the §4.4 death sequence in order: unsubscribe from any
// pending event wait, signal finished, cancel subtasks (depth-first,
// reverse creation order — §5's cascade-ordering invariant), run the
// finalizer, then release bookkeeping (mark for reap).
func (s *Scheduler) finishTask(t *Task) {
	if t.status == StatusDead {
		return
	}
	t.status = StatusDead

	if t.isWaitingEvent && t.waitingEvent != nil {
		t.waitingEvent.Unsubscribe(t.waitToken)
		t.isWaitingEvent = false
	}

	t.finished.Signal(nil)

	for i := len(t.subtasks) - 1; i >= 0; i-- {
		child := t.subtasks[i]
		if child.status != StatusDead {
			s.Cancel(child)
		}
	}

	if t.finalizer != nil {
		fin := t.finalizer
		t.finalizer = nil
		fin()
	}
}

// reap drops dead tasks from the scheduler's live list. Their goroutines
// have already exited (run's defer sent msgDead as its last act).
func (s *Scheduler) reap() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.status != StatusDead {
			live = append(live, t)
		}
	}
	s.tasks = live
}
