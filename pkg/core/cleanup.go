package core

import (
	"slices"

	"github.com/go-drift/reflow/pkg/host"
)

// cleanupRegistry owns effect teardowns per component and remembers which
// component yielded each presentation node. Every cleanup is handed out at
// most once: take and takeAll remove what they return.
type cleanupRegistry struct {
	entries map[string]map[int]func()
	owners  map[*host.Node]string
}

func newCleanupRegistry() *cleanupRegistry {
	return &cleanupRegistry{
		entries: make(map[string]map[int]func()),
		owners:  make(map[*host.Node]string),
	}
}

func (r *cleanupRegistry) add(id string, slotIndex int, fn func()) {
	set := r.entries[id]
	if set == nil {
		set = make(map[int]func())
		r.entries[id] = set
	}
	set[slotIndex] = fn
}

func (r *cleanupRegistry) take(id string, slotIndex int) func() {
	set := r.entries[id]
	fn, ok := set[slotIndex]
	if !ok {
		return nil
	}
	delete(set, slotIndex)
	if len(set) == 0 {
		delete(r.entries, id)
	}
	return fn
}

// takeAll removes every cleanup of a component, in slot order.
func (r *cleanupRegistry) takeAll(id string) []func() {
	set := r.entries[id]
	if len(set) == 0 {
		delete(r.entries, id)
		return nil
	}
	indices := make([]int, 0, len(set))
	for i := range set {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	out := make([]func(), 0, len(indices))
	for _, i := range indices {
		out = append(out, set[i])
	}
	delete(r.entries, id)
	return out
}

func (r *cleanupRegistry) pending(id string) int {
	return len(r.entries[id])
}

func (r *cleanupRegistry) setOwner(n *host.Node, id string) {
	if id == "" {
		return
	}
	r.owners[n] = id
}

func (r *cleanupRegistry) owner(n *host.Node) (string, bool) {
	id, ok := r.owners[n]
	return id, ok
}

func (r *cleanupRegistry) forget(n *host.Node) {
	delete(r.owners, n)
}

func (r *cleanupRegistry) reset() {
	clear(r.entries)
	clear(r.owners)
}
