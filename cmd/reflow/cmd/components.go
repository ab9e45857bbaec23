package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/treefile"
)

// components are the components tree files may reference by name.
var components = treefile.Registry{
	"Counter":  Counter,
	"TodoList": TodoList,
}

func newContainer(cfg *config.Config) *host.Node {
	return host.NewContainer(cfg.App.Container)
}

// Counter renders a count with increment and decrement buttons. The
// "start" prop sets the initial count and "label" its caption.
func Counter(ctx *core.BuildContext, props core.Props) core.Node {
	start, _ := props.Get("start").(int)
	count, set := core.UseState(ctx, start)
	id := core.UseID(ctx)
	label := props.String("label")
	if label == "" {
		label = "Count"
	}
	return core.H("div", core.Props{"className": "counter", "id": id},
		core.H("span", core.Props{"className": "label"}, label, ": "),
		core.H("span", core.Props{"className": "value"}, count),
		core.H("button", core.Props{
			"id":      id + "-dec",
			"onClick": func() { set.Update(func(n int) int { return n - 1 }) },
		}, "-"),
		core.H("button", core.Props{
			"id":      id + "-inc",
			"onClick": func() { set.Update(func(n int) int { return n + 1 }) },
		}, "+"),
	)
}

// TodoList renders the comma-separated "items" prop as a keyed list whose
// entries can be toggled done and removed.
func TodoList(ctx *core.BuildContext, props core.Props) core.Node {
	initial := splitItems(props.String("items"))
	items, ops := core.UseArray(ctx, initial)
	done, setDone := core.UseState(ctx, map[string]bool{})

	rows := make([]core.Node, 0, len(items))
	for i, it := range items {
		i, it := i, it
		class := "todo"
		if done[it] {
			class += " done"
		}
		rows = append(rows, core.H("li", core.Props{
			"key":       it,
			"className": class,
			"onClick": func() {
				setDone.Update(func(m map[string]bool) map[string]bool {
					next := make(map[string]bool, len(m)+1)
					for k, v := range m {
						next[k] = v
					}
					next[it] = !next[it]
					return next
				})
			},
		}, it, core.H("button", core.Props{
			"onClick": func(e *host.Event) {
				e.StopPropagation()
				ops.RemoveAt(i)
			},
		}, "x")))
	}
	return core.H("section", nil,
		core.H("h2", nil, fmt.Sprintf("%d items", len(items))),
		core.H("ul", nil, rows),
	)
}

func splitItems(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
