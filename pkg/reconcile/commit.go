package reconcile

import (
	"fmt"

	"github.com/go-drift/reflow/pkg/host"
)

// Committer applies mutations to a presentation tree.
type Committer struct {
	// OnCreate is called for every presentation node built for a VNode,
	// parents before children.
	OnCreate func(n *host.Node, v *VNode)
	// OnRemove is called once per deleted subtree, after it is detached.
	OnRemove func(n *host.Node)
}

// Build creates the presentation subtree for v and binds every VNode in it
// to its new node.
func (c *Committer) Build(v *VNode) *host.Node {
	var n *host.Node
	if v.Kind == KindText {
		n = host.NewText(v.Text)
	} else {
		n = host.NewElement(v.Tag)
		for k, val := range v.Props {
			n.SetProp(k, val)
		}
	}
	v.Host = n
	if c.OnCreate != nil {
		c.OnCreate(n, v)
	}
	for _, child := range v.Children {
		// Fresh element nodes cannot form cycles; Append cannot fail here.
		_ = n.Append(c.Build(child))
	}
	return n
}

// Mount builds roots and appends them to container.
func (c *Committer) Mount(container *host.Node, roots []*VNode) error {
	for _, v := range roots {
		if err := container.Append(c.Build(v)); err != nil {
			return err
		}
	}
	return nil
}

// Apply commits muts in order.
func (c *Committer) Apply(muts []Mutation) error {
	for i, m := range muts {
		if err := c.apply(m); err != nil {
			return fmt.Errorf("reconcile: mutation %d (%s): %w", i, m.Kind, err)
		}
	}
	return nil
}

func (c *Committer) apply(m Mutation) error {
	switch m.Kind {
	case Placement:
		if m.Container == nil {
			return fmt.Errorf("placement without container")
		}
		n := m.Target
		if n == nil {
			n = c.Build(m.Node)
		}
		return m.Container.InsertAt(m.Index, n)
	case Update:
		if m.Target == nil {
			return fmt.Errorf("update without target")
		}
		if m.HasText {
			m.Target.SetText(m.Text)
		}
		for k, v := range m.PropsToSet {
			m.Target.SetProp(k, v)
		}
		for _, k := range m.PropsToRemove {
			m.Target.RemoveProp(k)
		}
		return nil
	case Deletion:
		if m.Target == nil {
			return fmt.Errorf("deletion without target")
		}
		parent := m.Target.Parent()
		if parent != nil {
			parent.Remove(m.Target)
		}
		if c.OnRemove != nil {
			c.OnRemove(m.Target)
		}
		return nil
	}
	return fmt.Errorf("unknown mutation kind %d", m.Kind)
}
