package core

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/host"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// recordingHandler captures everything reported to the error handler.
type recordingHandler struct {
	runtime []*errors.RuntimeError
	panics  []*errors.PanicError
	builds  []*errors.BuildError
}

func (h *recordingHandler) HandleError(err *errors.RuntimeError)   { h.runtime = append(h.runtime, err) }
func (h *recordingHandler) HandlePanic(err *errors.PanicError)     { h.panics = append(h.panics, err) }
func (h *recordingHandler) HandleBuildError(err *errors.BuildError) { h.builds = append(h.builds, err) }

func (h *recordingHandler) misuses() []*errors.MisuseError {
	var out []*errors.MisuseError
	for _, err := range h.runtime {
		var m *errors.MisuseError
		if stderrors.As(err, &m) {
			out = append(out, m)
		}
	}
	return out
}

func captureErrors(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func newTestRoot(t *testing.T, opts ...Option) (*Root, *TaskQueue) {
	t.Helper()
	q := NewTaskQueue()
	r := NewRoot(host.NewContainer("app"), append([]Option{WithScheduler(q)}, opts...)...)
	t.Cleanup(r.Unmount)
	return r, q
}

func newContainer() *host.Node {
	return host.NewContainer("app")
}

func mustRender(t *testing.T, r *Root, tree Node) {
	t.Helper()
	if err := r.Render(tree); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

// recoverMisuse runs fn and returns the MisuseError it panicked with.
func recoverMisuse(fn func()) (err *errors.MisuseError) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(*errors.MisuseError)
		}
	}()
	fn()
	return nil
}

func item(ctx *BuildContext, props Props) Node {
	label, _ := UseState(ctx, props.String("label"))
	return H("li", nil, label)
}

func itemList(keys ...string) Node {
	items := make([]Node, 0, len(keys))
	for _, k := range keys {
		items = append(items, CreateElement(item, Props{"key": k, "label": k}))
	}
	return H("ul", nil, items)
}

func texts(nodes []*host.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TextContent()
	}
	return out
}
