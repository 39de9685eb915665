// Package event implements §4.3's CoEvent primitive: a single event with
// a subscriber list, signal-once and broadcast semantics, and
// cancellation. Events hold only weak references to their subscribers
// (the Waiter interface) per §9's cyclic-reference design note — an
// Event never prevents a Task from being collected, and a Task holds no
// reference back to the events it's waiting on beyond what it needs to
// unsubscribe on death.
package event

// Waiter is anything that can be woken by an Event. *task.Task is the
// only implementation in this codebase; the interface exists so this
// package has no dependency on the task package (avoiding an import
// cycle, since task necessarily depends on event).
type Waiter interface {
	// Wake marks the waiter ready to resume with value the next time its
	// owning scheduler resumes it. It must not block and must not itself
	// run the waiter — only the scheduler decides when code executes
	// (§4.5's single-pass-ordering contract).
	Wake(value any, canceled bool)
}

type subscription struct {
	token  uint64
	waiter Waiter
}

// Event is the §3/§4.3 CoEvent: subscriber list, a generation id that
// changes on Init/Cancel (invalidating stale subscription tokens), and a
// signaled counter.
type Event struct {
	id          uint64
	subs        []subscription
	nextToken   uint64
	numSignaled uint64
	canceled    bool
}

// New returns a freshly initialized event.
func New() *Event {
	e := &Event{}
	e.Init()
	return e
}

// Init (re-)establishes a fresh id with no subscribers (§4.3). Any
// subscription token handed out before this call becomes stale: a later
// Unsubscribe using it is a no-op, matching §4.3 invariant 3.
func (e *Event) Init() {
	e.id++
	e.subs = nil
	e.canceled = false
}

// ID returns the current generation id.
func (e *Event) ID() uint64 { return e.id }

// NumSignaled returns how many times Signal/SignalOnce have fired since Init.
func (e *Event) NumSignaled() uint64 { return e.numSignaled }

// Subscribe records w as waiting on e and returns a token for Unsubscribe.
// Subscribing to a canceled (not re-initialized) event is a programming
// error; callers (task.WaitEvent) are expected to check IsCanceled first.
func (e *Event) Subscribe(w Waiter) uint64 {
	e.nextToken++
	token := e.nextToken
	e.subs = append(e.subs, subscription{token: token, waiter: w})
	return token
}

// Unsubscribe removes the subscription identified by token, if still
// present. A stale or already-fired token is a safe no-op (§4.3 invariant 3).
func (e *Event) Unsubscribe(token uint64) {
	for i, s := range e.subs {
		if s.token == token {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// IsCanceled reports whether Cancel was called since the last Init.
func (e *Event) IsCanceled() bool { return e.canceled }

// Signal transfers every *current* subscriber to its ready state with
// value, then increments NumSignaled. Subscribers added during this
// dispatch (e.g. by a waiter's Wake re-subscribing synchronously, which
// cannot happen with *task.Task but could with a custom Waiter) are not
// woken by this call — invariant 1.
func (e *Event) Signal(value any) {
	cur := e.subs
	e.subs = nil
	e.numSignaled++
	for _, s := range cur {
		s.waiter.Wake(value, false)
	}
}

// SignalOnce behaves like Signal but has effect only on the first call
// since the last Init.
func (e *Event) SignalOnce(value any) {
	if e.numSignaled > 0 {
		return
	}
	e.Signal(value)
}

// Cancel wakes every current subscriber with the canceled marker, bumps
// the generation id, and forbids new subscriptions until Init is called
// again.
func (e *Event) Cancel() {
	cur := e.subs
	e.subs = nil
	e.id++
	e.canceled = true
	for _, s := range cur {
		s.waiter.Wake(nil, true)
	}
}

// SubscriberCount returns the number of tasks currently waiting, for
// diagnostics/metrics only.
func (e *Event) SubscriberCount() int { return len(e.subs) }
