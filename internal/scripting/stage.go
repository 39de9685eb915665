package scripting

import "github.com/dop251/goja"

// stage_finish(outcome): signals the stage-main task to terminate (§6).
// outcome is passed through verbatim (typically "cleared", "failed", or
// "retry") to the onFinish callback the owning stage driver supplied to
// New — this package has no opinion on what the string means or what
// happens next, only that the script asked to stop.
func (b *Bindings) stageFinish(call goja.FunctionCall) goja.Value {
	outcome := call.Argument(0).String()
	if b.onFinish != nil {
		b.onFinish(outcome)
	}
	return goja.Undefined()
}
