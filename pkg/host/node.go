package host

import (
	"fmt"
	"slices"
	"strings"
)

// NodeType identifies the kind of presentation node.
type NodeType int

const (
	// ContainerNode is a mount point owned by the application.
	ContainerNode NodeType = iota
	// ElementNode is a tagged node with properties and children.
	ElementNode
	// TextNode holds text content and has no children.
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case ContainerNode:
		return "container"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Node is a live presentation node.
type Node struct {
	typ      NodeType
	tag      string
	text     string
	props    map[string]any
	parent   *Node
	children []*Node
}

// NewContainer creates a container node. The name is informational and is
// reported by Tag.
func NewContainer(name string) *Node {
	return &Node{typ: ContainerNode, tag: name}
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{typ: ElementNode, tag: tag}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{typ: TextNode, text: text}
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag, or the container name.
func (n *Node) Tag() string { return n.tag }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// SetText replaces the content of a text node.
func (n *Node) SetText(text string) {
	n.text = text
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IndexOf returns the position of child, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// InsertAt places child so that it ends up at index i. A child that already
// has a parent is detached first, which makes InsertAt a move when the child
// is already in this node. Out-of-range indices are clamped.
func (n *Node) InsertAt(i int, child *Node) error {
	if child == nil {
		return fmt.Errorf("host: insert nil child into %s", n.describe())
	}
	if n.typ == TextNode {
		return fmt.Errorf("host: text node cannot have children")
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("host: inserting %s would create a cycle", child.describe())
		}
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = slices.Insert(n.children, i, child)
	child.parent = n
	return nil
}

// Append adds child as the last child.
func (n *Node) Append(child *Node) error {
	return n.InsertAt(len(n.children), child)
}

// Remove detaches child. It reports whether child was a child of n.
func (n *Node) Remove(child *Node) bool {
	i := n.IndexOf(child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// RemoveAll detaches every child.
func (n *Node) RemoveAll() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Prop returns a property value.
func (n *Node) Prop(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// SetProp sets a property value.
func (n *Node) SetProp(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = value
}

// RemoveProp deletes a property.
func (n *Node) RemoveProp(key string) {
	delete(n.props, key)
}

// PropKeys returns the property names in sorted order.
func (n *Node) PropKeys() []string {
	keys := make([]string, 0, len(n.props))
	for k := range n.props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// TextContent concatenates the text of every descendant text node.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.text
	}
	var sb strings.Builder
	n.walk(func(c *Node) bool {
		if c.typ == TextNode {
			sb.WriteString(c.text)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from visit skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	n.walk(visit)
}

func (n *Node) walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.children {
		c.walk(visit)
	}
}

// String returns a compact debug representation.
func (n *Node) String() string {
	var sb strings.Builder
	n.debug(&sb)
	return sb.String()
}

func (n *Node) debug(sb *strings.Builder) {
	switch n.typ {
	case TextNode:
		fmt.Fprintf(sb, "%q", n.text)
		return
	case ContainerNode:
		sb.WriteString("#")
		sb.WriteString(n.tag)
	default:
		sb.WriteString(n.tag)
	}
	for _, k := range n.PropKeys() {
		v := n.props[k]
		if isHandler(v) {
			continue
		}
		fmt.Fprintf(sb, " %s=%v", k, v)
	}
	if len(n.children) == 0 {
		return
	}
	sb.WriteString("[")
	for i, c := range n.children {
		if i > 0 {
			sb.WriteString(" ")
		}
		c.debug(sb)
	}
	sb.WriteString("]")
}

func (n *Node) describe() string {
	switch n.typ {
	case TextNode:
		return fmt.Sprintf("text %q", n.text)
	default:
		return fmt.Sprintf("%s <%s>", n.typ, n.tag)
	}
}
