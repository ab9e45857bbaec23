package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/reconcile"
)

// resolver expands an element tree into presentation-shaped VNodes for one
// render pass: components are invoked against their fibers and fragments
// are flattened.
type resolver struct {
	root *Root
	pass uint64
}

// segment names a child position in an identity path: the key when there
// is one, otherwise the index, followed by the element type.
func segment(index int, n Node, key string) string {
	if key != "" {
		return "@" + key + ":" + n.Name()
	}
	return strconv.Itoa(index) + ":" + n.Name()
}

// children resolves siblings. Duplicate keys fall back to positional
// identity and are reported.
func (rv *resolver) children(nodes []Node, path, owner string, out []*reconcile.VNode) ([]*reconcile.VNode, error) {
	var seen map[string]bool
	for i, child := range nodes {
		key := child.key
		if key != "" {
			if seen == nil {
				seen = make(map[string]bool)
			}
			if seen[key] {
				errors.ReportMisuse(&errors.MisuseError{
					Op:        "core.render",
					Reason:    fmt.Sprintf("duplicate key %q among siblings", key),
					Component: owner,
				})
				key = ""
			}
			seen[child.key] = true
		}
		var err error
		out, err = rv.node(child, path+"/"+segment(i, child, key), owner, key, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// node resolves n, appending the VNodes it yields to out. key is the
// effective key of n, inherited by the top-level nodes a component or
// fragment yields.
func (rv *resolver) node(n Node, path, owner, key string, out []*reconcile.VNode) ([]*reconcile.VNode, error) {
	switch n.kind {
	case KindEmpty:
		return out, nil
	case KindText:
		return append(out, &reconcile.VNode{Kind: reconcile.KindText, Text: n.text, Key: key, Owner: owner}), nil
	case KindHost:
		v := &reconcile.VNode{Kind: reconcile.KindElement, Tag: n.tag, Key: key, Props: n.props, Owner: owner}
		kids, err := rv.children(n.children, path, owner, nil)
		if err != nil {
			return nil, err
		}
		v.Children = kids
		return append(out, v), nil
	case KindFragment:
		start := len(out)
		out, err := rv.children(n.children, path, owner, out)
		if err != nil {
			return nil, err
		}
		inheritKey(out[start:], key)
		return out, nil
	case KindComponent:
		built := rv.invoke(n, path)
		start := len(out)
		out, err := rv.node(built, path+"/"+segment(0, built, ""), path, "", out)
		if err != nil {
			return nil, err
		}
		inheritKey(out[start:], key)
		return out, nil
	case KindInvalid:
		return nil, &errors.RuntimeError{
			Op:         "core.render",
			Kind:       errors.KindReconcile,
			Component:  owner,
			Err:        fmt.Errorf("invalid element at %s: %w", path, n.err),
			StackTrace: errors.CaptureStack(),
		}
	}
	return nil, &errors.RuntimeError{
		Op:        "core.render",
		Kind:      errors.KindReconcile,
		Component: owner,
		Err:       fmt.Errorf("malformed element at %s: unknown kind %d", path, n.kind),
	}
}

func inheritKey(vs []*reconcile.VNode, key string) {
	if key == "" {
		return
	}
	for i, v := range vs {
		switch {
		case v.Key != "":
			v.Key = key + "/" + v.Key
		case len(vs) == 1:
			v.Key = key
		default:
			v.Key = key + "/" + strconv.Itoa(i)
		}
	}
}

// invoke renders a component against the fiber at id, creating the fiber
// on first use.
func (rv *resolver) invoke(n Node, id string) Node {
	r := rv.root
	f := r.fibers[id]
	if f == nil {
		f = newFiber(r, id, n.name)
		f.born = rv.pass
		r.fibers[id] = f
	}
	r.live[id] = true
	f.beginRender(rv.pass)

	mark, layoutMark := len(r.effectQueue), len(r.layoutQueue)
	ctx := &BuildContext{fiber: f, active: true}
	built, ok := rv.safeBuild(f, func() Node {
		return n.component(ctx, n.props)
	})
	ctx.active = false
	if ok {
		f.endRender()
	} else {
		// A failed invocation commits none of its effects.
		r.dropEffects(mark, layoutMark)
	}
	return built
}

// safeBuild executes a component with panic recovery. A panic is reported
// as a BuildError and the component renders the error element instead.
func (rv *resolver) safeBuild(f *Fiber, buildFn func() Node) (Node, bool) {
	var built Node
	var buildErr *errors.BuildError

	func() {
		defer func() {
			if r := recover(); r != nil {
				buildErr = &errors.BuildError{
					Component:  f.name,
					Identity:   f.id,
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = buildFn()
	}()

	if buildErr == nil {
		return built, true
	}
	if _, misuse := buildErr.Recovered.(*errors.MisuseError); !misuse {
		errors.ReportBuildError(buildErr)
	}
	if builder := GetErrorElementBuilder(); builder != nil {
		return builder(buildErr), false
	}
	return Node{}, false
}
