package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/reconcile"
)

func TestStringVNodes(t *testing.T) {
	tree := []*reconcile.VNode{
		reconcile.Element("ul", map[string]any{"id": "items", "className": "list"},
			reconcile.Element("li", nil, reconcile.Text("one")),
			reconcile.Element("li", map[string]any{"data-n": 2}, reconcile.Text("a < b")),
		),
		reconcile.Text("tail"),
	}
	got, err := String(tree)
	require.NoError(t, err)
	assert.Equal(t, `<ul class="list" id="items"><li>one</li><li data-n="2">a &lt; b</li></ul>tail`, got)
}

func TestAttributeValues(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{"handler omitted", map[string]any{"onClick": func() {}}, `<button></button>`},
		{"nil omitted", map[string]any{"title": nil}, `<button></button>`},
		{"false omitted", map[string]any{"disabled": false}, `<button></button>`},
		{"true is empty", map[string]any{"disabled": true}, `<button disabled=""></button>`},
		{"style map", map[string]any{"style": map[string]any{"width": "2px", "color": "red"}}, `<button style="color: red; width: 2px;"></button>`},
		{"quoted", map[string]any{"title": `say "hi"`}, `<button title="say &#34;hi&#34;"></button>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String([]*reconcile.VNode{reconcile.Element("button", tt.props)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVoidElements(t *testing.T) {
	got, err := String([]*reconcile.VNode{reconcile.Element("br", nil)})
	require.NoError(t, err)
	assert.Equal(t, `<br/>`, got)

	_, err = String([]*reconcile.VNode{reconcile.Element("br", nil, reconcile.Text("x"))})
	assert.Error(t, err)
}

func TestHostString(t *testing.T) {
	root := host.NewContainer("app")
	p := host.NewElement("p")
	p.SetProp("htmlFor", "name")
	p.SetProp("onClick", func() {})
	require.NoError(t, p.Append(host.NewText("hello")))
	require.NoError(t, root.Append(p))

	got, err := HostString(root)
	require.NoError(t, err)
	assert.Equal(t, `<p for="name">hello</p>`, got)

	got, err = HostString(p)
	require.NoError(t, err)
	assert.Equal(t, `<p for="name">hello</p>`, got)
}

func TestRoundTrip(t *testing.T) {
	tree := []*reconcile.VNode{
		reconcile.Element("div", map[string]any{"id": "root"},
			reconcile.Element("span", nil, reconcile.Text("x & y")),
			reconcile.Element("input", map[string]any{"checked": true}),
		),
	}
	out, err := String(tree)
	require.NoError(t, err)

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(out), body)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	div := nodes[0]
	assert.Equal(t, "div", div.Data)
	assert.Equal(t, []html.Attribute{{Key: "id", Val: "root"}}, div.Attr)
	span := div.FirstChild
	require.NotNil(t, span)
	assert.Equal(t, "x & y", span.FirstChild.Data)
	input := span.NextSibling
	require.NotNil(t, input)
	assert.Equal(t, atom.Input, input.DataAtom)
	assert.Equal(t, "checked", input.Attr[0].Key)
}

func TestPretty(t *testing.T) {
	got := Pretty(`<div><p>a</p></div>`)
	assert.Contains(t, got, "\n")
	assert.Contains(t, got, "<p>")
}
