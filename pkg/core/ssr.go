package core

import (
	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/markup"
)

// RenderToString renders tree to HTML without committing it anywhere.
// Components run once against a throwaway root; effects are never run and
// state writes made while rendering are ignored.
func RenderToString(tree Node) (string, error) {
	r := NewRoot(host.NewContainer("ssr"), WithScheduler(SchedulerFunc(func(func()) {})))
	r.rendering = true
	r.pass = 1
	rv := &resolver{root: r, pass: r.pass}
	vs, err := rv.children([]Node{tree}, "", "", nil)
	r.rendering = false
	if err != nil {
		return "", err
	}
	return markup.String(vs)
}
