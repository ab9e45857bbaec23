package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
)

const counterTree = `
tag: main
children:
  - component: Counter
    props: {start: 3, label: Hits}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.AddCommand(newRenderCmd(), newDiffCmd())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRenderCmd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tree.yaml", counterTree)

	out, _, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="label">Hits: </span>`)
	assert.Contains(t, out, `<span class="value">3</span>`)
	assert.Contains(t, out, "<button")
	assert.NotContains(t, out, "onClick")
}

func TestRenderCmd_UnknownComponent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tree.yaml", "component: Missing\n")

	_, _, err := execute(t, "render", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown component "Missing"`)
}

func TestRenderCmd_UsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", counterTree)
	cfgPath := writeFile(t, dir, config.FileName, "schema: v1\napp:\n  container: app\n")

	out, _, err := execute(t, "--config", cfgPath, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Hits")

	_, _, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "render", path)
	assert.Error(t, err)
}

func TestDiffCmd_KeyedMove(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.yaml", `
tag: ul
children:
  - {tag: li, key: a, text: A}
  - {tag: li, key: b, text: B}
`)
	newPath := writeFile(t, dir, "new.yaml", `
tag: ul
children:
  - {tag: li, key: b, text: B}
  - {tag: li, key: a, text: A}
`)

	out, _, err := execute(t, "diff", oldPath, newPath, "--html")
	require.NoError(t, err)
	lower := strings.ToLower(out)
	assert.Contains(t, lower, "move")
	assert.Contains(t, lower, "1 placed, 0 updated, 0 removed")
	assert.Contains(t, out, "<ul><li>B</li><li>A</li></ul>")
}

func TestDiffCmd_NoChanges(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tree.yaml", "tag: p\ntext: same\n")

	out, _, err := execute(t, "diff", path, path)
	require.NoError(t, err)
	assert.Equal(t, "no mutations\n", out)
}

// syncBuffer is written by the watch loop and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", "tag: p\ntext: one\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out, errOut syncBuffer
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, config.Default(), path, &out, &errOut, func() { close(ready) })
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
	assert.Contains(t, out.String(), "== render 1")
	assert.Contains(t, out.String(), "<p>one</p>")

	writeFile(t, dir, "tree.yaml", "tag: p\ntext: two\n")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "<p>two</p>")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "== render 2")

	writeFile(t, dir, "tree.yaml", "tag: [broken\n")
	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "reload:")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "tree.yaml")
	err := watch(context.Background(), config.Default(), path, &bytes.Buffer{}, &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *demoModel, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func counterValue(t *testing.T, m *demoModel) string {
	t.Helper()
	values := m.root.Container().ByProp("className", "value")
	require.Len(t, values, 1)
	return values[0].TextContent()
}

func TestDemoModel_ClicksFocusedButton(t *testing.T) {
	m, err := newDemoModel(config.Default(), demoTree())
	require.NoError(t, err)
	t.Cleanup(m.root.Unmount)

	// Focus order: decrement, increment, then each todo item and its remove
	// button.
	require.Len(t, m.targets(), 8)

	press(m, "tab", "enter")
	assert.Equal(t, "1", counterValue(t, m))

	press(m, "shift+tab", "enter", "enter")
	assert.Equal(t, "-1", counterValue(t, m))

	press(m, "shift+tab")
	assert.Equal(t, 7, m.focus)
	press(m, "tab")
	assert.Equal(t, 0, m.focus)
}

func TestDemoModel_RemovesTodo(t *testing.T) {
	m, err := newDemoModel(config.Default(), demoTree())
	require.NoError(t, err)
	t.Cleanup(m.root.Unmount)

	press(m, "tab", "tab", "tab", "enter")
	heading := m.root.Container().ByTag("h2")
	require.Len(t, heading, 1)
	assert.Equal(t, "2 items", heading[0].TextContent())
	assert.Len(t, m.targets(), 6)
	assert.Equal(t, 1, m.clicks)

	view := m.View()
	assert.Contains(t, view, "test")
	assert.NotContains(t, view, "write")
}

func TestDemoModel_TogglesDone(t *testing.T) {
	m, err := newDemoModel(config.Default(), demoTree())
	require.NoError(t, err)
	t.Cleanup(m.root.Unmount)

	press(m, "tab", "tab", "enter")
	done := m.root.Container().ByProp("className", "todo done")
	require.Len(t, done, 1)
	assert.Equal(t, "writex", done[0].TextContent())
}

func TestDemoModel_Quit(t *testing.T) {
	m, err := newDemoModel(config.Default(), core.H("p", nil, "hi"))
	require.NoError(t, err)
	t.Cleanup(m.root.Unmount)

	assert.Contains(t, m.View(), "hi")
	press(m, "enter")
	assert.Equal(t, 0, m.clicks)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
