package task

// WithArgs adapts a (*Task, A) body into a Body by capturing args in the
// closure at call time. Go's normal value-capture semantics give the
// original's "arguments are copied into task-owned storage before the
// body sees them" guarantee for free: args is copied into this closure's
// environment once, here, so a caller building a stack-local args struct
// and invoking a task with it is safe even though the caller's own frame
// may be gone by the time the task body runs (§4.4, replacing the
// original's TASK_ARGS macro machinery with a generic helper).
func WithArgs[A any](args A, fn func(t *Task, args A)) Body {
	return func(t *Task) { fn(t, args) }
}
