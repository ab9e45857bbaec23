package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-drift/reflow/pkg/host"
)

// MutationKind identifies a mutation operation.
type MutationKind int

const (
	// Placement inserts a node at Index in Container. When Node.Host is
	// already bound the existing presentation node is moved.
	Placement MutationKind = iota
	// Update changes the properties or text of Target.
	Update
	// Deletion removes Target from Container.
	Deletion
)

func (k MutationKind) String() string {
	switch k {
	case Placement:
		return "placement"
	case Update:
		return "update"
	case Deletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// Mutation is a single operation in a diff result.
type Mutation struct {
	Kind      MutationKind
	Container *host.Node
	// Target is the existing presentation node the mutation applies to.
	// It is nil for the placement of a new node.
	Target *host.Node
	// Node is the new VNode for placements and updates, and the removed
	// VNode for deletions.
	Node          *VNode
	Index         int
	PropsToSet    map[string]any
	PropsToRemove []string
	Text          string
	HasText       bool
}

// IsMove reports whether a placement relocates an existing node.
func (m Mutation) IsMove() bool {
	return m.Kind == Placement && m.Target != nil
}

// Summary returns a one-line description suitable for logs and tables.
func (m Mutation) Summary() string {
	switch m.Kind {
	case Placement:
		verb := "insert"
		if m.IsMove() {
			verb = "move"
		}
		return fmt.Sprintf("%s %s at %d", verb, m.Node, m.Index)
	case Deletion:
		return fmt.Sprintf("remove %s", m.Node)
	case Update:
		var parts []string
		if m.HasText {
			parts = append(parts, fmt.Sprintf("text=%q", m.Text))
		}
		keys := make([]string, 0, len(m.PropsToSet))
		for k := range m.PropsToSet {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := m.PropsToSet[k]
			if host.IsHandlerProp(k) {
				v = "<handler>"
			}
			parts = append(parts, fmt.Sprintf("+%s=%v", k, v))
		}
		for _, k := range m.PropsToRemove {
			parts = append(parts, "-"+k)
		}
		return strings.Join(parts, " ")
	}
	return m.Kind.String()
}

// Counts returns the number of placements, updates and deletions in muts.
func Counts(muts []Mutation) (placements, updates, deletions int) {
	for _, m := range muts {
		switch m.Kind {
		case Placement:
			placements++
		case Update:
			updates++
		case Deletion:
			deletions++
		}
	}
	return placements, updates, deletions
}
