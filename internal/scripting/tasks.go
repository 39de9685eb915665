package scripting

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/event"
	"github.com/taisei-project/core/internal/task"
)

// wrapEntry adapts a JS function into a task.Body: while the body runs,
// the owning task becomes the Bindings' "current task" (see bindings.go's
// package doc), so invoke_subtask/wait/wait_event called from inside
// entry resolve against the right task without entry needing to thread
// one through explicitly, matching the ergonomics §6 describes.
func (b *Bindings) wrapEntry(entry goja.Callable, args goja.Value) task.Body {
	return func(t *task.Task) {
		b.runAsCurrent(t, func() {
			if _, err := entry(goja.Undefined(), args); err != nil {
				corelog.Errorf("scripting: task entry error: %v", err)
			}
		})
	}
}

func eventFromValue(v goja.Value) *event.Event {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	e, _ := v.Export().(*event.Event)
	return e
}

// invoke_task(entry, args): starts a task on the active scheduler (§6).
func (b *Bindings) invokeTask(call goja.FunctionCall) goja.Value {
	fn, ok := funcValue(call.Argument(0))
	if !ok {
		corelog.Errorf("scripting: invoke_task: entry is not a function")
		return goja.Undefined()
	}
	t := b.sched.InvokeTask(b.wrapEntry(fn, call.Argument(1)))
	return b.vm.ToValue(t)
}

// invoke_subtask(entry, args): as §4.4, owned by the currently running task.
func (b *Bindings) invokeSubtask(call goja.FunctionCall) goja.Value {
	cur := b.requireCurrent("invoke_subtask")
	if cur == nil {
		return goja.Undefined()
	}
	fn, ok := funcValue(call.Argument(0))
	if !ok {
		corelog.Errorf("scripting: invoke_subtask: entry is not a function")
		return goja.Undefined()
	}
	t := cur.InvokeSubtask(b.wrapEntry(fn, call.Argument(1)))
	return b.vm.ToValue(t)
}

// invoke_task_delayed(n, entry, args): spawns a task whose body waits n
// frames before entry runs (§4.4).
func (b *Bindings) invokeTaskDelayed(call goja.FunctionCall) goja.Value {
	n := int(call.Argument(0).ToInteger())
	fn, ok := funcValue(call.Argument(1))
	if !ok {
		corelog.Errorf("scripting: invoke_task_delayed: entry is not a function")
		return goja.Undefined()
	}
	t := b.sched.InvokeTaskDelayed(n, b.wrapEntry(fn, call.Argument(2)))
	return b.vm.ToValue(t)
}

// invoke_task_when(event, entry, args): spawns a task gated on event;
// cancellation of event cancels the task before entry runs (§4.4).
func (b *Bindings) invokeTaskWhen(call goja.FunctionCall) goja.Value {
	ev := eventFromValue(call.Argument(0))
	if ev == nil {
		corelog.Errorf("scripting: invoke_task_when: event argument is not an event")
		return goja.Undefined()
	}
	fn, ok := funcValue(call.Argument(1))
	if !ok {
		corelog.Errorf("scripting: invoke_task_when: entry is not a function")
		return goja.Undefined()
	}
	t := b.sched.InvokeTaskWhen(ev, b.wrapEntry(fn, call.Argument(2)))
	return b.vm.ToValue(t)
}

// wait(n): suspend the calling task for n frames (§4.4).
func (b *Bindings) wait(call goja.FunctionCall) goja.Value {
	cur := b.requireCurrent("wait")
	if cur == nil {
		return goja.Undefined()
	}
	cur.Wait(int(call.Argument(0).ToInteger()))
	return goja.Undefined()
}

// yield_task(): suspend for exactly one frame (§4.4's yield, named to
// avoid colliding with JS's reserved `yield` keyword inside generator
// bodies goja also supports).
func (b *Bindings) yieldTask(call goja.FunctionCall) goja.Value {
	cur := b.requireCurrent("yield_task")
	if cur == nil {
		return goja.Undefined()
	}
	cur.Yield()
	return goja.Undefined()
}

// wait_event(event): suspend until event signals or is canceled,
// returning {value, canceled} (§4.3 wait(event)).
func (b *Bindings) waitEvent(call goja.FunctionCall) goja.Value {
	cur := b.requireCurrent("wait_event")
	if cur == nil {
		return goja.Undefined()
	}
	ev := eventFromValue(call.Argument(0))
	if ev == nil {
		corelog.Errorf("scripting: wait_event: argument is not an event")
		return goja.Undefined()
	}
	value, canceled := cur.WaitEvent(ev)
	result := b.vm.NewObject()
	_ = result.Set("value", b.vm.ToValue(value))
	_ = result.Set("canceled", canceled)
	return result
}
