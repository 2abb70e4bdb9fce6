//go:build js && wasm

// Package domhost adapts the browser's requestAnimationFrame and
// requestIdleCallback into a host.Config, for running the reconciler
// inside a WASM build. This is a direct generalization of the teacher's
// requestIdleCallback helper in fiber/fiber.go — same js.FuncOf/keep-alive
// idiom — now implementing the scheduler's host.Config interface instead
// of being wired straight into a single global work loop.
package domhost

import (
	"syscall/js"
	"time"

	"github.com/wm3445/react/host"
)

// Host is a host.Config backed directly by browser callback APIs.
type Host struct {
	// callbacks keeps js.Func values alive for as long as the Host is;
	// the teacher kept the same kind of slice (rafCallbacks,
	// eventCallbacks) at package scope for the same reason — a js.Func
	// that is garbage collected on the Go side before JS invokes it
	// panics.
	callbacks []js.Func
}

// New returns a Host ready to schedule work against the global browser
// window.
func New() *Host {
	return &Host{}
}

func (h *Host) ScheduleAnimationCallback(cb func()) {
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb()
		return nil
	})
	h.callbacks = append(h.callbacks, fn)
	js.Global().Call("requestAnimationFrame", fn)
}

func (h *Host) ScheduleDeferredCallback(cb func(host.Deadline)) {
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb(jsDeadline{args[0]})
		return nil
	})
	h.callbacks = append(h.callbacks, fn)
	js.Global().Call("requestIdleCallback", fn)
}

func (h *Host) UseSyncScheduling() bool {
	return false
}

// jsDeadline adapts the browser's IdleDeadline object to host.Deadline.
type jsDeadline struct {
	value js.Value
}

func (d jsDeadline) TimeRemaining() time.Duration {
	ms := d.value.Call("timeRemaining").Float()
	return time.Duration(ms * float64(time.Millisecond))
}
