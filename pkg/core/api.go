package core

import (
	"sync"

	"github.com/go-drift/reflow/pkg/host"
)

// DefaultQueue is the scheduler of roots created without WithScheduler.
// Hosts without their own frame loop pump it with RunPending.
var DefaultQueue = NewTaskQueue()

var (
	rootsMu  sync.Mutex
	roots    = map[*host.Node]*Root{}
	lastRoot *Root
)

// RunPending drains DefaultQueue: deferred effects and batched re-renders.
// It returns the number of tasks run.
func RunPending() int {
	return DefaultQueue.Drain()
}

// Render renders tree into container, reusing the root already attached to
// container. Subsequent calls reconcile against the previous render.
func Render(tree Node, container *host.Node, opts ...Option) error {
	rootsMu.Lock()
	r := roots[container]
	if r == nil {
		r = NewRoot(container, opts...)
		roots[container] = r
	}
	lastRoot = r
	rootsMu.Unlock()
	return r.Render(tree)
}

// Update re-renders the tree most recently passed to Render.
func Update() error {
	rootsMu.Lock()
	r := lastRoot
	rootsMu.Unlock()
	if r == nil {
		return errNothingRendered("core.Update")
	}
	return r.Update()
}

// RootFor returns the root attached to container, or nil.
func RootFor(container *host.Node) *Root {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	return roots[container]
}

// Reset unmounts every root created by Render and discards the tasks still
// queued on DefaultQueue.
func Reset() {
	rootsMu.Lock()
	all := make([]*Root, 0, len(roots))
	for _, r := range roots {
		all = append(all, r)
	}
	clear(roots)
	lastRoot = nil
	rootsMu.Unlock()

	for _, r := range all {
		r.Unmount()
	}
	DefaultQueue.Clear()
}
