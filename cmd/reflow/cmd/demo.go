package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/reflow/pkg/config"
	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/host"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [FILE]",
		Short: "Run a tree interactively in the terminal",
		Long: `Mount a tree in a terminal host. Without FILE a counter and a todo list
are shown.

Keys: tab/shift+tab or arrows move the focus between buttons and list
items, enter or space clicks, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ErrOrStderr())
			if err != nil {
				return err
			}
			tree := demoTree()
			if len(args) == 1 {
				if tree, err = loadTree(args[0]); err != nil {
					return err
				}
			}
			model, err := newDemoModel(cfg, tree)
			if err != nil {
				return err
			}
			defer model.root.Unmount()
			program := tea.NewProgram(model, tea.WithOutput(c.OutOrStdout()), tea.WithInput(c.InOrStdin()))
			_, err = program.Run()
			return err
		},
	}
}

func demoTree() core.Node {
	return core.H("main", nil,
		core.H("h1", nil, "reflow demo"),
		core.CreateElement(Counter, core.Props{"label": "Clicks"}),
		core.CreateElement(TodoList, core.Props{"items": "write, test, ship"}),
	)
}

var (
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// demoModel hosts a root in a bubbletea program. Key presses become click
// events on the focused node; the task queue is drained after each one so
// the view always shows a settled tree.
type demoModel struct {
	root     *core.Root
	queue    *core.TaskQueue
	focus    int
	clicks   int
	quitting bool
}

func newDemoModel(cfg *config.Config, tree core.Node) (*demoModel, error) {
	queue := core.NewTaskQueue()
	root := newRoot(cfg, queue)
	if err := root.Render(tree); err != nil {
		return nil, err
	}
	queue.Drain()
	return &demoModel{root: root, queue: queue}, nil
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit
	case "tab", "down", "right", "j":
		m.moveFocus(1)
	case "shift+tab", "up", "left", "k":
		m.moveFocus(-1)
	case "enter", " ":
		m.click()
	}
	return m, nil
}

// targets lists the clickable nodes in document order.
func (m *demoModel) targets() []*host.Node {
	prop := host.HandlerProp("click")
	return m.root.Container().FindAll(func(n *host.Node) bool {
		_, ok := n.Prop(prop)
		return ok
	})
}

func (m *demoModel) moveFocus(delta int) {
	n := len(m.targets())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

func (m *demoModel) click() {
	targets := m.targets()
	if len(targets) == 0 {
		return
	}
	m.focus = min(m.focus, len(targets)-1)
	if targets[m.focus].Dispatch("click", nil) {
		m.clicks++
	}
	m.queue.Drain()
	if n := len(m.targets()); m.focus >= n && n > 0 {
		m.focus = n - 1
	}
}

func (m *demoModel) View() string {
	if m.quitting {
		return ""
	}
	var focused *host.Node
	if targets := m.targets(); len(targets) > 0 {
		focused = targets[min(m.focus, len(targets)-1)]
	}
	var sb strings.Builder
	for _, c := range m.root.Container().Children() {
		writeOutline(&sb, c, 0, focused)
	}
	stats := m.root.Stats()
	sb.WriteString(helpStyle.Render(fmt.Sprintf(
		"tab: focus  enter: click  q: quit    clicks %d  commits %d  mutations %d",
		m.clicks, stats.Commits, stats.Mutations)))
	sb.WriteString("\n")
	return sb.String()
}

// writeOutline draws an element on one line with its direct text, then its
// child elements indented below it.
func writeOutline(sb *strings.Builder, n *host.Node, depth int, focused *host.Node) {
	if n.Type() == host.TextNode {
		return
	}
	var text strings.Builder
	for _, c := range n.Children() {
		if c.Type() == host.TextNode {
			text.WriteString(c.Text())
		}
	}
	label := text.String()
	class, _ := n.Prop("className")
	switch {
	case n == focused:
		label = focusStyle.Render(" " + label + " ")
	case n.Tag() == "button":
		label = buttonStyle.Render("[" + label + "]")
	case strings.HasPrefix(n.Tag(), "h"):
		label = headingStyle.Render(label)
	case strings.Contains(fmt.Sprint(class), "done"):
		label = doneStyle.Render(label)
	default:
		label = textStyle.Render(label)
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(tagStyle.Render("<" + n.Tag() + ">"))
	if text.Len() > 0 {
		sb.WriteString(" ")
		sb.WriteString(label)
	}
	sb.WriteString("\n")
	for _, c := range n.Children() {
		writeOutline(sb, c, depth+1, focused)
	}
}
