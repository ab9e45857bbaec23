package core

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-drift/reflow/pkg/errors"
)

// Kind identifies the variant of an element Node.
type Kind int

const (
	// KindEmpty is the zero Node. It renders nothing.
	KindEmpty Kind = iota
	// KindHost is a presentation element such as "div".
	KindHost
	// KindComponent is a function component.
	KindComponent
	// KindFragment groups children without an intervening host node.
	KindFragment
	// KindText is a text leaf.
	KindText
	// KindInvalid is an element that could not be constructed. Rendering a
	// tree that contains one fails.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindHost:
		return "host"
	case KindComponent:
		return "component"
	case KindFragment:
		return "fragment"
	case KindText:
		return "text"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Reserved property names.
const (
	KeyProp      = "key"
	ChildrenProp = "children"
)

// Component is a function component. It is called on every render pass
// with a BuildContext that is valid only for the duration of the call.
type Component func(ctx *BuildContext, props Props) Node

// FragmentType is the type of the Fragment marker.
type FragmentType struct{}

// Fragment is passed to CreateElement to group children without a host
// node.
var Fragment = FragmentType{}

// Props is the property bag of an element.
type Props map[string]any

// Get returns the value of a property, or nil.
func (p Props) Get(key string) any {
	return p[key]
}

// String returns a string property, or "" when absent or not a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Children returns the children passed to a component element.
func (p Props) Children() []Node {
	c, _ := p[ChildrenProp].([]Node)
	return c
}

// Node is an immutable element-tree node. A new tree is built on every
// render pass.
type Node struct {
	kind      Kind
	tag       string
	component Component
	name      string
	props     Props
	children  []Node
	text      string
	key       string
	err       error
}

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.kind }

// Tag returns the host tag of a host node.
func (n Node) Tag() string { return n.tag }

// Name returns the display name of a component node, the tag of a host
// node, or a marker for other kinds.
func (n Node) Name() string {
	switch n.kind {
	case KindComponent:
		return n.name
	case KindHost:
		return n.tag
	case KindFragment:
		return "#fragment"
	case KindText:
		return "#text"
	}
	return "#" + n.kind.String()
}

// Component returns the function of a component node.
func (n Node) Component() Component { return n.component }

// Props returns the property bag. It must not be modified.
func (n Node) Props() Props { return n.props }

// Children returns the children of a host or fragment node, or the
// children passed to a component node.
func (n Node) Children() []Node {
	if n.kind == KindComponent {
		return n.props.Children()
	}
	return n.children
}

// Text returns the content of a text node.
func (n Node) Text() string { return n.text }

// Key returns the explicit identity key, or "".
func (n Node) Key() string { return n.key }

// Err returns the construction error of an invalid node.
func (n Node) Err() error { return n.err }

// IsEmpty reports whether n renders nothing.
func (n Node) IsEmpty() bool { return n.kind == KindEmpty }

// CreateElement builds an element node. typ is a host tag string, a
// Component, or Fragment. Children may be Nodes, strings, numbers,
// fmt.Stringers or slices of those, which are flattened one level; nil,
// booleans and empty Nodes are dropped. A "key" property becomes the
// element key.
func CreateElement(typ any, props Props, children ...any) Node {
	n := Node{}
	switch t := typ.(type) {
	case string:
		if t == "" {
			return invalid("core.CreateElement", "empty host tag")
		}
		n.kind = KindHost
		n.tag = t
	case Component:
		if t == nil {
			return invalid("core.CreateElement", "nil component")
		}
		n.kind = KindComponent
		n.component = t
		n.name = componentName(t)
	case func(*BuildContext, Props) Node:
		if t == nil {
			return invalid("core.CreateElement", "nil component")
		}
		n.kind = KindComponent
		n.component = t
		n.name = componentName(t)
	case FragmentType:
		n.kind = KindFragment
	case nil:
		return invalid("core.CreateElement", "element type is nil")
	default:
		return invalid("core.CreateElement", fmt.Sprintf("unsupported element type %T", typ))
	}

	var own Props
	if len(props) > 0 {
		own = make(Props, len(props))
		for k, v := range props {
			if k == KeyProp {
				if v != nil {
					n.key = fmt.Sprint(v)
				}
				continue
			}
			own[k] = v
		}
	}

	kids := normalizeChildren(children, 0)
	if n.kind == KindComponent {
		if len(kids) > 0 {
			if own == nil {
				own = make(Props, 1)
			}
			own[ChildrenProp] = kids
		}
	} else {
		n.children = kids
	}
	n.props = own
	return n
}

// H is shorthand for CreateElement with a host tag.
func H(tag string, props Props, children ...any) Node {
	return CreateElement(tag, props, children...)
}

// Text returns a text node.
func Text(s string) Node {
	return Node{kind: KindText, text: s}
}

// Group returns a fragment of children.
func Group(children ...any) Node {
	return CreateElement(Fragment, nil, children...)
}

func normalizeChildren(children []any, depth int) []Node {
	var out []Node
	for _, c := range children {
		out = appendChild(out, c, depth)
	}
	return out
}

func appendChild(out []Node, c any, depth int) []Node {
	switch v := c.(type) {
	case nil, bool:
		return out
	case Node:
		if v.kind == KindEmpty {
			return out
		}
		return append(out, v)
	case *Node:
		if v == nil {
			return out
		}
		return appendChild(out, *v, depth)
	case string:
		return append(out, Text(v))
	case []Node:
		if depth > 0 {
			return append(out, Node{kind: KindFragment, children: normalizeChildren(toAny(v), depth+1)})
		}
		for _, item := range v {
			out = appendChild(out, item, depth+1)
		}
		return out
	case []string:
		for _, s := range v {
			out = append(out, Text(s))
		}
		return out
	case []any:
		if depth > 0 {
			return append(out, Node{kind: KindFragment, children: normalizeChildren(v, depth+1)})
		}
		for _, item := range v {
			out = appendChild(out, item, depth+1)
		}
		return out
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return append(out, Text(fmt.Sprint(v)))
	case fmt.Stringer:
		return append(out, Text(v.String()))
	}
	return append(out, invalid("core.CreateElement", fmt.Sprintf("unsupported child type %T", c)))
}

func toAny(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func invalid(op, reason string) Node {
	misuse := &errors.MisuseError{Op: op, Reason: reason}
	errors.ReportMisuse(misuse)
	return Node{kind: KindInvalid, err: misuse}
}

// componentName derives a display name from the function symbol:
// "example.com/app/ui.Counter" becomes "Counter" and closures keep their
// enclosing function, e.g. "App.func1".
func componentName(fn any) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "Component"
	}
	return name
}
