package markup

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/reconcile"
)

// attrNames maps property names to the attribute they serialize as.
var attrNames = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// FromVNodes converts resolved VNodes to HTML nodes.
func FromVNodes(vs []*reconcile.VNode) []*html.Node {
	out := make([]*html.Node, 0, len(vs))
	for _, v := range vs {
		if v == nil {
			continue
		}
		out = append(out, fromVNode(v))
	}
	return out
}

func fromVNode(v *reconcile.VNode) *html.Node {
	if v.Kind == reconcile.KindText {
		return &html.Node{Type: html.TextNode, Data: v.Text}
	}
	n := element(v.Tag, v.Props)
	for _, c := range v.Children {
		n.AppendChild(fromVNode(c))
	}
	return n
}

// FromHost converts a presentation node to HTML nodes. A container
// contributes its children only.
func FromHost(n *host.Node) []*html.Node {
	switch n.Type() {
	case host.ContainerNode:
		out := make([]*html.Node, 0, n.ChildCount())
		for _, c := range n.Children() {
			out = append(out, fromHost(c))
		}
		return out
	default:
		return []*html.Node{fromHost(n)}
	}
}

func fromHost(n *host.Node) *html.Node {
	if n.Type() == host.TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text()}
	}
	props := make(map[string]any, len(n.PropKeys()))
	for _, k := range n.PropKeys() {
		props[k], _ = n.Prop(k)
	}
	out := element(n.Tag(), props)
	for _, c := range n.Children() {
		out.AppendChild(fromHost(c))
	}
	return out
}

func element(tag string, props map[string]any) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		val, ok := attrValue(props[k])
		if !ok {
			continue
		}
		name := k
		if alias, ok := attrNames[k]; ok {
			name = alias
		}
		n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
	}
	return n
}

// attrValue formats a property value. Nil, false and handlers are omitted;
// true becomes an empty boolean attribute; string maps become inline style
// declarations.
func attrValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	case map[string]string:
		return style(v), true
	case map[string]any:
		m := make(map[string]string, len(v))
		for k, x := range v {
			m[k] = fmt.Sprint(x)
		}
		return style(m), true
	case fmt.Stringer:
		return v.String(), true
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "", false
	}
	return fmt.Sprint(v), true
}

func style(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(m[k])
		sb.WriteString(";")
	}
	return sb.String()
}

// Render writes nodes to w.
func Render(w io.Writer, nodes []*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("markup: render <%s>: %w", n.Data, err)
		}
	}
	return nil
}

// String serializes resolved VNodes.
func String(vs []*reconcile.VNode) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, FromVNodes(vs)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HostString serializes a presentation subtree.
func HostString(n *host.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, FromHost(n)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Pretty indents serialized markup for display.
func Pretty(s string) string {
	return gohtml.Format(s)
}
