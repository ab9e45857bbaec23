// Package core implements the component runtime: element construction,
// hooks, effects and the render pipeline that commits element trees to a
// presentation tree.
//
// # Elements
//
// An element tree is built from Nodes. H creates host elements, components
// are plain functions, and CreateElement accepts either:
//
//	func Greeting(ctx *core.BuildContext, props core.Props) core.Node {
//	    return core.H("p", nil, "Hello, ", props.String("name"))
//	}
//
//	tree := core.CreateElement(Greeting, core.Props{"name": "Ada"})
//
// # Hooks
//
// Components keep state across renders through hooks. Hooks take the
// BuildContext handed to the component and must be called in the same order
// on every render:
//
//	count, setCount := core.UseState(ctx, 0)
//	core.UseEffect(ctx, func() func() {
//	    tick := time.NewTicker(time.Second)
//	    go func() { ... }()
//	    return tick.Stop
//	}, core.Deps{})
//
// Hook state lives in a Fiber keyed by the component's identity path, the
// chain of child positions (or keys) and element types from the root. A
// component that keeps its path keeps its state.
//
// # Rendering
//
// A Root renders into a host container. The first render builds the
// presentation tree; later renders diff the new tree against the last one
// with package reconcile and apply the minimal mutations.
//
//	root := core.NewRoot(host.NewContainer("app"))
//	if err := root.Render(tree); err != nil { ... }
//
// State setters do not render immediately. They mark the root dirty and
// schedule one flush on the root's Scheduler, so several writes in the same
// tick produce a single render. Passive effects also run on the scheduler,
// after the commit. WithSyncUpdates switches to rendering on every write.
//
// # Threading
//
// A Root and everything it renders belong to one thread of control, the one
// draining its Scheduler. Other goroutines hand work to it with Dispatch.
package core
