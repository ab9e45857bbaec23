package core

import (
	"fmt"
	"strings"

	"github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/reconcile"
)

type slotKind int

const (
	slotState slotKind = iota
	slotRef
	slotMemo
	slotEffect
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "state"
	case slotRef:
		return "ref"
	case slotMemo:
		return "memo"
	case slotEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// slot is the storage behind one hook call.
type slot struct {
	kind   slotKind
	value  any
	deps   Deps
	effect *effectRecord
}

// Fiber is the persistent instance of a function component. It is keyed by
// the component's identity path and owns the component's hook slots.
type Fiber struct {
	id    string
	name  string
	root  *Root
	slots []*slot

	hookIndex int
	// hookCount is the number of hooks called by the last completed render,
	// or -1 before the first one.
	hookCount int
	mounted   bool
	pass      uint64
	born      uint64
}

func newFiber(root *Root, id, name string) *Fiber {
	return &Fiber{id: id, name: name, root: root, hookCount: -1, mounted: true}
}

// ID returns the identity path of the fiber.
func (f *Fiber) ID() string { return f.id }

// Name returns the display name of the component.
func (f *Fiber) Name() string { return f.name }

// Mounted reports whether the component is still part of the tree.
func (f *Fiber) Mounted() bool { return f.mounted }

// depth is the number of path segments, used to unmount children first.
func (f *Fiber) depth() int {
	return strings.Count(f.id, "/")
}

// nextSlot returns the slot for the next hook call, allocating it on the
// first render. Hook order and count must match previous renders.
func (f *Fiber) nextSlot(op string, kind slotKind) (*slot, bool) {
	i := f.hookIndex
	f.hookIndex++
	if i < len(f.slots) {
		s := f.slots[i]
		if s.kind != kind {
			panic(f.misuse(op, fmt.Sprintf("hook %d was %s in the previous render and is %s now; hooks must be called in the same order on every render", i, s.kind, kind)))
		}
		return s, false
	}
	if f.hookCount >= 0 {
		panic(f.misuse(op, fmt.Sprintf("rendered more hooks than the %d of the previous render", f.hookCount)))
	}
	s := &slot{kind: kind}
	f.slots = append(f.slots, s)
	return s, true
}

// beginRender resets the call-order index for an invocation.
func (f *Fiber) beginRender(pass uint64) {
	f.hookIndex = 0
	f.pass = pass
}

// endRender validates the hook count of a completed invocation.
func (f *Fiber) endRender() {
	if f.hookCount >= 0 && f.hookIndex != f.hookCount {
		errors.ReportMisuse(&errors.MisuseError{
			Op:        "core.render",
			Reason:    fmt.Sprintf("rendered %d hooks, previous render called %d", f.hookIndex, f.hookCount),
			Component: f.id,
		})
	}
	if f.hookCount < 0 {
		f.hookCount = f.hookIndex
	}
}

func (f *Fiber) misuse(op, reason string) *errors.MisuseError {
	err := &errors.MisuseError{Op: op, Reason: reason, Component: f.id}
	errors.ReportMisuse(err)
	return err
}

// Deps lists the values a memo or effect depends on. A nil Deps disables
// dependency tracking; an empty, non-nil Deps never changes.
type Deps []any

func depsChanged(prev, next Deps) bool {
	return !reconcile.SameSlice(prev, next)
}

// BuildContext is handed to a component for one invocation. Hooks accept
// it to find the component's fiber; using it after the component returned
// is rejected.
type BuildContext struct {
	fiber  *Fiber
	active bool
}

// ID returns the identity path of the rendering component.
func (ctx *BuildContext) ID() string {
	if ctx == nil || ctx.fiber == nil {
		return ""
	}
	return ctx.fiber.id
}

// Name returns the display name of the rendering component.
func (ctx *BuildContext) Name() string {
	if ctx == nil || ctx.fiber == nil {
		return ""
	}
	return ctx.fiber.name
}

// Dispatch schedules fn on the root's scheduler. Unlike hooks it may be
// called at any time, from any goroutine the scheduler supports.
func (ctx *BuildContext) Dispatch(fn func()) {
	if ctx == nil || ctx.fiber == nil {
		return
	}
	ctx.fiber.root.Dispatch(fn)
}

// use returns the fiber for a hook call or rejects the call.
func (ctx *BuildContext) use(op string) *Fiber {
	if ctx == nil || ctx.fiber == nil {
		err := &errors.MisuseError{Op: op, Reason: "called without a build context"}
		errors.ReportMisuse(err)
		panic(err)
	}
	if !ctx.active || !ctx.fiber.root.rendering {
		panic(ctx.fiber.misuse(op, "called outside an active render pass"))
	}
	return ctx.fiber
}
