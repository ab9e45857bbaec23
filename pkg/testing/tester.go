package testing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/reflow/pkg/core"
	reflowerrors "github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/markup"
	"github.com/go-drift/reflow/pkg/reconcile"
)

// ErrSettleTimeout is returned when PumpUntil exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpUntil timed out: condition never held")

// Tester renders components into an isolated root. Deferred work is held
// in a TaskQueue until Pump runs it, and every error reported while the
// tester is active is recorded instead of logged.
type Tester struct {
	queue     *core.TaskQueue
	container *host.Node
	root      *core.Root
	opts      []core.Option
	recorder  *ErrorRecorder
	prev      reflowerrors.ErrorHandler
}

// NewTester creates a tester. Call Cleanup when done, or use
// NewTesterWithT instead.
func NewTester(opts ...core.Option) *Tester {
	t := &Tester{
		queue:     core.NewTaskQueue(),
		container: host.NewContainer("root"),
		opts:      opts,
		recorder:  &ErrorRecorder{},
		prev:      reflowerrors.Handler(),
	}
	reflowerrors.SetHandler(t.recorder)
	return t
}

// NewTesterWithT creates a tester that cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and restores the previous error handler.
func (t *Tester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
	reflowerrors.SetHandler(t.prev)
}

// Render renders tree, reconciling against the previous call.
func (t *Tester) Render(tree core.Node) error {
	if t.root == nil {
		opts := append([]core.Option{core.WithScheduler(t.queue)}, t.opts...)
		t.root = core.NewRoot(t.container, opts...)
	}
	return t.root.Render(tree)
}

// Remount unmounts the current tree and renders tree from scratch.
func (t *Tester) Remount(tree core.Node) error {
	if t.root != nil {
		t.root.Unmount()
	}
	return t.Render(tree)
}

// Pump runs every queued task, including tasks they queue, and returns
// how many ran.
func (t *Tester) Pump() int {
	return t.queue.Drain()
}

// PumpUntil pumps until cond holds. Work delivered from other goroutines,
// such as fetch results, is picked up as it arrives.
func (t *Tester) PumpUntil(cond func() bool, timeout time.Duration) error {
	const interval = 2 * time.Millisecond
	deadline := time.Now().Add(timeout)
	for {
		t.Pump()
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrSettleTimeout
		}
		time.Sleep(interval)
	}
}

// Dispatch queues fn for the next Pump.
func (t *Tester) Dispatch(fn func()) {
	t.queue.Schedule(fn)
}

// Pending returns the number of queued tasks.
func (t *Tester) Pending() int {
	return t.queue.Len()
}

// Root returns the root, or nil before the first Render.
func (t *Tester) Root() *core.Root {
	return t.root
}

// Container returns the presentation container.
func (t *Tester) Container() *host.Node {
	return t.container
}

// Errors returns the recorder collecting reported errors.
func (t *Tester) Errors() *ErrorRecorder {
	return t.recorder
}

// Mutations returns the mutations of the last render pass.
func (t *Tester) Mutations() []reconcile.Mutation {
	if t.root == nil {
		return nil
	}
	return t.root.LastMutations()
}

// HTML serializes the presentation tree.
func (t *Tester) HTML() string {
	s, err := markup.HostString(t.container)
	if err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return s
}

// Find evaluates a finder against the presentation tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.container),
		finder: finder,
	}
}

// Tap dispatches a click on the first node matched by finder.
func (t *Tester) Tap(finder Finder) error {
	return t.Fire(finder, "click", nil)
}

// Fire dispatches an event on the first node matched by finder. It fails
// when nothing matches or no handler along the path received the event.
func (t *Tester) Fire(finder Finder, eventType string, payload any) error {
	n := t.Find(finder).FirstOrNil()
	if n == nil {
		return fmt.Errorf("fire %s: no node found: %s", eventType, finder.Description())
	}
	if !n.Dispatch(eventType, payload) {
		return fmt.Errorf("fire %s: no %s handler on %s or its ancestors", eventType, host.HandlerProp(eventType), finder.Description())
	}
	return nil
}
