package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAtMovesExistingChild(t *testing.T) {
	root := NewContainer("app")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	require.NoError(t, root.Append(a))
	require.NoError(t, root.Append(b))
	require.NoError(t, root.Append(c))

	require.NoError(t, root.InsertAt(0, c))

	assert.Equal(t, []*Node{c, a, b}, root.Children())
	assert.Same(t, root, c.Parent())
}

func TestInsertAtReparents(t *testing.T) {
	left, right := NewElement("left"), NewElement("right")
	child := NewText("x")
	require.NoError(t, left.Append(child))

	require.NoError(t, right.InsertAt(5, child))

	assert.Zero(t, left.ChildCount())
	assert.Equal(t, 0, right.IndexOf(child))
	assert.Same(t, right, child.Parent())
}

func TestInsertAtRejectsCycles(t *testing.T) {
	outer, inner := NewElement("outer"), NewElement("inner")
	require.NoError(t, outer.Append(inner))

	assert.Error(t, inner.InsertAt(0, outer))
	assert.Error(t, outer.InsertAt(0, outer))
	assert.Error(t, NewText("t").Append(NewText("u")))
}

func TestRemove(t *testing.T) {
	root := NewContainer("app")
	a := NewElement("a")
	require.NoError(t, root.Append(a))

	assert.True(t, root.Remove(a))
	assert.False(t, root.Remove(a))
	assert.Nil(t, a.Parent())
}

func TestPropsAndText(t *testing.T) {
	el := NewElement("input")
	el.SetProp("value", "x")
	el.SetProp("id", "name")
	el.RemoveProp("value")

	_, ok := el.Prop("value")
	assert.False(t, ok)
	assert.Equal(t, []string{"id"}, el.PropKeys())

	txt := NewText("old")
	txt.SetText("new")
	assert.Equal(t, "new", txt.Text())
}

func TestQueries(t *testing.T) {
	root := NewContainer("app")
	list := NewElement("ul")
	list.SetProp("id", "items")
	require.NoError(t, root.Append(list))
	for _, s := range []string{"one", "two"} {
		li := NewElement("li")
		require.NoError(t, li.Append(NewText(s)))
		require.NoError(t, list.Append(li))
	}

	assert.Same(t, list, root.ByID("items"))
	assert.Len(t, root.ByTag("li"), 2)
	assert.Equal(t, "onetwo", root.TextContent())
	assert.Equal(t, "two", root.ByText("two").TextContent())
	assert.Equal(t, `#app[ul id=items[li["one"] li["two"]]]`, root.String())
}

func TestDispatchBubbles(t *testing.T) {
	root := NewContainer("app")
	outer := NewElement("div")
	button := NewElement("button")
	require.NoError(t, root.Append(outer))
	require.NoError(t, outer.Append(button))

	var order []string
	button.SetProp("onClick", func() { order = append(order, "button") })
	outer.SetProp("onClick", func(e *Event) {
		order = append(order, "outer")
		assert.Same(t, button, e.Target)
		assert.Equal(t, "payload", e.Payload)
		e.StopPropagation()
	})
	root.SetProp("onClick", func() { order = append(order, "root") })

	assert.True(t, button.Dispatch("click", "payload"))
	assert.Equal(t, []string{"button", "outer"}, order)
	assert.False(t, button.Dispatch("input", nil))
}

func TestHandlerProp(t *testing.T) {
	assert.Equal(t, "onClick", HandlerProp("click"))
	assert.True(t, IsHandlerProp("onChange"))
	assert.False(t, IsHandlerProp("once"))
	assert.False(t, IsHandlerProp("on"))
}
