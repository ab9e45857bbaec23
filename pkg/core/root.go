package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/reconcile"
)

// Stats counts the work a Root has done.
type Stats struct {
	Passes      int
	Commits     int
	Mutations   int
	EffectsRun  int
	CleanupsRun int
	Unmounts    int
}

// Root renders element trees into one presentation container. It owns the
// fiber arena, the effect queues and the cleanup registry for that tree.
//
// A Root is not safe for concurrent use. All calls, including state
// setters, must happen on the thread of control that drains its scheduler;
// other goroutines reach it through Dispatch.
type Root struct {
	container *host.Node
	opts      Options
	scheduler Scheduler

	tree      Node
	hasTree   bool
	committed []*reconcile.VNode
	mounted   bool

	fibers   map[string]*Fiber
	live     map[string]bool
	cleanups *cleanupRegistry

	effectQueue []*effectRecord
	layoutQueue []*effectRecord

	pass           uint64
	rendering      bool
	dirty          bool
	flushScheduled bool
	drainScheduled bool

	lastMutations []reconcile.Mutation
	stats         Stats
}

// NewRoot creates a root rendering into container.
func NewRoot(container *host.Node, opts ...Option) *Root {
	o := buildOptions(opts)
	return &Root{
		container: container,
		opts:      o,
		scheduler: o.Scheduler,
		fibers:    make(map[string]*Fiber),
		live:      make(map[string]bool),
		cleanups:  newCleanupRegistry(),
	}
}

// Container returns the presentation container.
func (r *Root) Container() *host.Node { return r.container }

// Scheduler returns the scheduler deferred work is posted to.
func (r *Root) Scheduler() Scheduler { return r.scheduler }

// Stats returns the work counters.
func (r *Root) Stats() Stats { return r.stats }

// LastMutations returns the mutations committed by the last render pass.
// The first pass builds the tree directly and reports none.
func (r *Root) LastMutations() []reconcile.Mutation { return r.lastMutations }

// Fiber returns the live fiber with the given identity path.
func (r *Root) Fiber(id string) *Fiber { return r.fibers[id] }

// FiberIDs returns the identity paths of all mounted components, sorted.
func (r *Root) FiberIDs() []string {
	ids := make([]string, 0, len(r.fibers))
	for id := range r.fibers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Render makes tree the root's element tree and renders it. The first call
// builds the presentation tree directly; later calls reconcile against the
// previously committed tree. Passive effects run on the next scheduler
// tick.
func (r *Root) Render(tree Node) error {
	if r.rendering {
		err := &errors.MisuseError{Op: "core.Root.Render", Reason: "called during a render pass"}
		errors.ReportMisuse(err)
		return err
	}
	r.tree = tree
	r.hasTree = true
	return r.flush()
}

// Update re-renders the last tree. It is idempotent: an unchanged tree
// with unchanged state commits no mutations.
func (r *Root) Update() error {
	if !r.hasTree {
		return errNothingRendered("core.Root.Update")
	}
	if r.rendering {
		r.dirty = true
		return nil
	}
	return r.flush()
}

// Dispatch schedules fn on the root's scheduler.
func (r *Root) Dispatch(fn func()) {
	r.scheduler.Schedule(fn)
}

// Unmount removes everything the root rendered, running every cleanup.
func (r *Root) Unmount() {
	if r.rendering {
		errors.ReportMisuse(&errors.MisuseError{Op: "core.Root.Unmount", Reason: "called during a render pass"})
		return
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	clear(r.live)
	muts := reconcile.Diff(r.container, r.committed, nil)
	if err := r.committer().Apply(muts); err != nil {
		r.reportCommit(err)
	}
	r.sweep()
	r.committed = nil
	r.mounted = false
	r.tree = Node{}
	r.hasTree = false
	r.effectQueue = nil
	r.layoutQueue = nil
	r.dirty = false
	r.cleanups.reset()
}

// markDirty records a state write. Outside a render pass it triggers a
// re-render, immediately with SyncUpdates and otherwise once per tick.
func (r *Root) markDirty(f *Fiber) {
	r.dirty = true
	if r.rendering || !r.hasTree {
		return
	}
	if r.opts.SyncUpdates {
		if err := r.flush(); err != nil {
			reportRender(err)
		}
		return
	}
	if r.flushScheduled {
		return
	}
	r.flushScheduled = true
	r.scheduler.Schedule(func() {
		r.flushScheduled = false
		if !r.dirty || !r.hasTree || r.rendering {
			return
		}
		if err := r.flush(); err != nil {
			reportRender(err)
		}
	})
}

// flush renders until no state write is pending, then defers the passive
// effects of the commit.
func (r *Root) flush() error {
	// Effects of the previous commit never interleave with a render.
	r.drainEffects()

	passes := 0
	for {
		if err := r.renderPass(&passes); err != nil {
			r.dirty = false
			return err
		}
		if !r.dirty {
			break
		}
	}
	r.scheduleDrain()
	return nil
}

// renderPass resolves the tree, commits it and runs layout effects. State
// written while resolving restarts the resolution before anything is
// committed; passes counts resolutions against MaxRenderPasses.
func (r *Root) renderPass(passes *int) error {
	r.rendering = true
	defer func() { r.rendering = false }()

	first := r.pass + 1
	mark := len(r.effectQueue)
	layoutMark := len(r.layoutQueue)

	var next []*reconcile.VNode
	for {
		if *passes >= r.opts.MaxRenderPasses {
			r.rollback(first, mark, layoutMark)
			return &errors.RuntimeError{
				Op:   "core.Root.render",
				Kind: errors.KindRender,
				Err:  fmt.Errorf("state kept changing during rendering after %d passes", *passes),
			}
		}
		*passes++
		r.dirty = false
		r.pass++
		r.stats.Passes++
		clear(r.live)

		rv := &resolver{root: r, pass: r.pass}
		var err error
		next, err = rv.children([]Node{r.tree}, "", "", nil)
		if err != nil {
			r.rollback(first, mark, layoutMark)
			return err
		}
		if !r.dirty {
			break
		}
	}

	c := r.committer()
	var err error
	if !r.mounted {
		err = c.Mount(r.container, next)
		r.lastMutations = nil
		r.mounted = true
	} else {
		muts := reconcile.Diff(r.container, r.committed, next)
		err = c.Apply(muts)
		r.lastMutations = muts
		r.stats.Mutations += len(muts)
	}
	if err != nil {
		return r.reportCommit(err)
	}
	r.committed = next
	r.stats.Commits++
	r.sweep()
	r.drainLayoutEffects()
	return nil
}

// rollback discards the effects queued by passes that failed to resolve
// and the fibers they created. Those effects never ran, so the fibers own
// no cleanups.
func (r *Root) rollback(first uint64, mark, layoutMark int) {
	r.dropEffects(mark, layoutMark)
	for id, f := range r.fibers {
		if f.born >= first {
			delete(r.fibers, id)
		}
	}
}

// dropEffects unqueues the effects registered after the given queue
// lengths.
func (r *Root) dropEffects(mark, layoutMark int) {
	for _, rec := range r.effectQueue[mark:] {
		rec.queued = false
	}
	for _, rec := range r.layoutQueue[layoutMark:] {
		rec.queued = false
	}
	r.effectQueue = r.effectQueue[:mark]
	r.layoutQueue = r.layoutQueue[:layoutMark]
}

func (r *Root) committer() *reconcile.Committer {
	return &reconcile.Committer{
		OnCreate: func(n *host.Node, v *reconcile.VNode) {
			r.cleanups.setOwner(n, v.Owner)
		},
		OnRemove: r.teardown,
	}
}

func (r *Root) reportCommit(err error) error {
	rerr := &errors.RuntimeError{Op: "core.commit", Kind: errors.KindRender, Err: err, StackTrace: errors.CaptureStack()}
	errors.Report(rerr)
	return rerr
}

// teardown walks a detached presentation subtree children first and
// unmounts the components that owned its nodes and are no longer live.
func (r *Root) teardown(n *host.Node) {
	for _, c := range n.Children() {
		r.teardown(c)
	}
	id, ok := r.cleanups.owner(n)
	r.cleanups.forget(n)
	if ok && !r.live[id] {
		r.unmountFiber(id)
	}
}

// sweep unmounts every fiber the last pass did not render, deepest first.
func (r *Root) sweep() {
	var dead []*Fiber
	for id, f := range r.fibers {
		if !r.live[id] {
			dead = append(dead, f)
		}
	}
	slices.SortFunc(dead, func(a, b *Fiber) int {
		if d := b.depth() - a.depth(); d != 0 {
			return d
		}
		return strings.Compare(a.id, b.id)
	})
	for _, f := range dead {
		r.unmountFiber(f.id)
	}
}

// unmountFiber runs every cleanup the component registered and drops its
// slots.
func (r *Root) unmountFiber(id string) {
	f := r.fibers[id]
	if f == nil || !f.mounted {
		return
	}
	f.mounted = false
	delete(r.fibers, id)
	r.stats.Unmounts++
	for _, cleanup := range r.cleanups.takeAll(id) {
		r.runCleanup(id, cleanup)
	}
	for _, s := range f.slots {
		if s.effect != nil {
			s.effect.queued = false
		}
	}
	f.slots = nil
}

func errNothingRendered(op string) *errors.RuntimeError {
	return &errors.RuntimeError{Op: op, Kind: errors.KindRender, Err: fmt.Errorf("nothing has been rendered")}
}

func reportRender(err error) {
	if rerr, ok := err.(*errors.RuntimeError); ok {
		errors.Report(rerr)
		return
	}
	errors.Report(&errors.RuntimeError{Op: "core.render", Kind: errors.KindRender, Err: err})
}
