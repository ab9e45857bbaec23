package reconcile

import (
	"slices"
	"sort"

	"github.com/go-drift/reflow/pkg/host"
)

// Diff compares the committed children of container with their next
// version and returns the mutations that transform one into the other.
//
// Diff never writes to the presentation tree. The only side effect is that
// every VNode in next that reuses an old node inherits its Host binding, so
// that next can serve as the old tree of the following pass once the
// mutations are committed.
func Diff(container *host.Node, old, next []*VNode) []Mutation {
	d := &differ{}
	d.children(container, old, next)
	return d.out
}

// DiffProps returns the properties that must be set (added or changed by
// identity) and the sorted names that must be removed.
func DiffProps(old, next map[string]any) (set map[string]any, remove []string) {
	for k, v := range next {
		prev, ok := old[k]
		if ok && Same(prev, v) {
			continue
		}
		if set == nil {
			set = make(map[string]any)
		}
		set[k] = v
	}
	for k := range old {
		if _, ok := next[k]; !ok {
			remove = append(remove, k)
		}
	}
	sort.Strings(remove)
	return set, remove
}

type differ struct {
	out []Mutation
}

func (d *differ) emit(m Mutation) {
	d.out = append(d.out, m)
}

// match pairs each new child with the old child it reuses, or nil.
func match(old, next []*VNode) (pairs []*VNode, used []bool) {
	pairs = make([]*VNode, len(next))
	used = make([]bool, len(old))

	keyed := make(map[string]int)
	for j, o := range old {
		if o.Key == "" {
			continue
		}
		if _, dup := keyed[o.Key]; !dup {
			keyed[o.Key] = j
		}
	}
	for i, n := range next {
		if n.Key == "" {
			continue
		}
		if j, ok := keyed[n.Key]; ok && !used[j] && SameType(old[j], n) {
			pairs[i] = old[j]
			used[j] = true
		}
	}
	for i, n := range next {
		if pairs[i] != nil || n.Key != "" || i >= len(old) {
			continue
		}
		if o := old[i]; !used[i] && o.Key == "" && SameType(o, n) {
			pairs[i] = o
			used[i] = true
		}
	}
	return pairs, used
}

func (d *differ) children(container *host.Node, old, next []*VNode) {
	pairs, used := match(old, next)

	// live mirrors the container's children as the mutations so far leave
	// them, so placements carry the index they will land at.
	live := make([]*VNode, 0, len(old))
	for j, o := range old {
		if used[j] {
			live = append(live, o)
			continue
		}
		d.emit(Mutation{Kind: Deletion, Container: container, Target: o.Host, Node: o, Index: j})
	}

	for i, n := range next {
		o := pairs[i]
		if o == nil {
			d.emit(Mutation{Kind: Placement, Container: container, Node: n, Index: i})
			live = slices.Insert(live, i, n)
			continue
		}
		n.Host = o.Host
		if live[i] != o {
			d.emit(Mutation{Kind: Placement, Container: container, Target: o.Host, Node: n, Index: i})
			from := slices.Index(live, o)
			live = slices.Delete(live, from, from+1)
			live = slices.Insert(live, i, o)
		}
		d.update(container, o, n)
	}
}

func (d *differ) update(container *host.Node, o, n *VNode) {
	if n.Kind == KindText {
		if o.Text != n.Text {
			d.emit(Mutation{Kind: Update, Container: container, Target: o.Host, Node: n, Text: n.Text, HasText: true})
		}
		return
	}
	set, remove := DiffProps(o.Props, n.Props)
	if len(set) > 0 || len(remove) > 0 {
		d.emit(Mutation{Kind: Update, Container: container, Target: o.Host, Node: n, PropsToSet: set, PropsToRemove: remove})
	}
	d.children(o.Host, o.Children, n.Children)
}
