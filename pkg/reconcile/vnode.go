package reconcile

import (
	"fmt"
	"strings"

	"github.com/go-drift/reflow/pkg/host"
)

// Kind distinguishes resolved nodes.
type Kind int

const (
	// KindElement is a host element with properties and children.
	KindElement Kind = iota
	// KindText is a text leaf.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// VNode is one node of a resolved tree.
type VNode struct {
	Kind     Kind
	Tag      string
	Text     string
	Key      string
	Props    map[string]any
	Children []*VNode
	// Owner is the identity of the component that yielded this node, or
	// empty when it was written directly in the root tree.
	Owner string
	// Host is the presentation node bound to this VNode once committed.
	Host *host.Node
}

// Element returns an element VNode.
func Element(tag string, props map[string]any, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

// Text returns a text VNode.
func Text(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// WithKey sets the key and returns v.
func (v *VNode) WithKey(key string) *VNode {
	v.Key = key
	return v
}

// WithOwner sets the owner on v and every descendant that has none.
func (v *VNode) WithOwner(owner string) *VNode {
	if v.Owner == "" {
		v.Owner = owner
	}
	for _, c := range v.Children {
		c.WithOwner(owner)
	}
	return v
}

// SameType reports whether b can reuse the presentation node of a.
func SameType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Owner != b.Owner {
		return false
	}
	return a.Kind == KindText || a.Tag == b.Tag
}

func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v *VNode) write(sb *strings.Builder) {
	if v.Kind == KindText {
		fmt.Fprintf(sb, "%q", v.Text)
		return
	}
	sb.WriteString(v.Tag)
	if v.Key != "" {
		fmt.Fprintf(sb, "#%s", v.Key)
	}
	if len(v.Children) == 0 {
		return
	}
	sb.WriteString("[")
	for i, c := range v.Children {
		if i > 0 {
			sb.WriteString(" ")
		}
		c.write(sb)
	}
	sb.WriteString("]")
}
