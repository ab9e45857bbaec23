package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/reflow/pkg/host"
)

// Finder locates nodes in the presentation tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *host.Node) []*host.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*host.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *host.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *host.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *host.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*host.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Texts returns the text content of every match.
func (r FinderResult) Texts() []string {
	out := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.TextContent()
	}
	return out
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

type predicateFinder struct {
	match func(*host.Node) bool
	desc  string
}

func (f predicateFinder) Evaluate(root *host.Node) []*host.Node {
	if root == nil {
		return nil
	}
	return root.FindAll(f.match)
}

func (f predicateFinder) Description() string { return f.desc }

// ByTag finds elements with the given tag.
func ByTag(tag string) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("ByTag(%q)", tag),
		match: func(n *host.Node) bool {
			return n.Type() == host.ElementNode && n.Tag() == tag
		},
	}
}

// ByText finds the innermost elements whose text content equals text.
func ByText(text string) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("ByText(%q)", text),
		match: func(n *host.Node) bool {
			if n.Type() != host.ElementNode || n.TextContent() != text {
				return false
			}
			for _, c := range n.Children() {
				if c.Type() == host.ElementNode && c.TextContent() == text {
					return false
				}
			}
			return true
		},
	}
}

// ByTextContaining finds elements whose own text children contain substr.
func ByTextContaining(substr string) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("ByTextContaining(%q)", substr),
		match: func(n *host.Node) bool {
			if n.Type() != host.ElementNode {
				return false
			}
			for _, c := range n.Children() {
				if c.Type() == host.TextNode && strings.Contains(c.Text(), substr) {
					return true
				}
			}
			return false
		},
	}
}

// ByID finds elements whose "id" property equals id.
func ByID(id string) Finder {
	return ByProp("id", id)
}

// ByProp finds elements whose property key equals value.
func ByProp(key string, value any) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("ByProp(%q, %v)", key, value),
		match: func(n *host.Node) bool {
			v, ok := n.Prop(key)
			return ok && n.Type() == host.ElementNode && v == value
		},
	}
}

// ByPredicate finds nodes matching a custom function.
func ByPredicate(desc string, match func(*host.Node) bool) Finder {
	return predicateFinder{desc: desc, match: match}
}
