package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirscan/internal/scan"
)

type status int

const (
	statusLoading status = iota
	statusReady
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type model struct {
	path         string
	opts         scan.Options
	initialDepth int
	sp           spinner.Model

	st   status
	root *scan.LazyNode
	err  error

	// list view (custom rendering, not using bubbles/list)
	cursor    int
	collapsed map[*scan.LazyNode]bool
	expanding map[*scan.LazyNode]bool

	// terminal size
	termW int
	termH int
}

func newModel(path string, opts scan.Options, initialDepth int) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		path:         path,
		opts:         opts,
		initialDepth: initialDepth,
		sp:           sp,
		st:           statusLoading,
		collapsed:    map[*scan.LazyNode]bool{},
		expanding:    map[*scan.LazyNode]bool{},
	}
}

// Run opens the interactive browser rooted at path.
func Run(path string, opts scan.Options, initialDepth int) error {
	p := tea.NewProgram(newModel(path, opts, initialDepth), tea.WithAltScreen())
	_, err := p.Run()

	return err
}

// messages
type builtMsg struct {
	root *scan.LazyNode
	err  error
}

type expandedMsg struct {
	node *scan.LazyNode
	err  error
}

func buildCmd(path string, opts scan.Options, initialDepth int) tea.Cmd {
	return func() tea.Msg {
		root, err := scan.LazyTree(context.Background(), path, opts, initialDepth)
		if err == nil && root == nil {
			err = fmt.Errorf("path %q was skipped by the configured filters", path)
		}

		return builtMsg{root: root, err: err}
	}
}

func expandCmd(node *scan.LazyNode, opts scan.Options) tea.Cmd {
	return func() tea.Msg {
		return expandedMsg{node: node, err: node.Expand(context.Background(), opts)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, buildCmd(m.path, m.opts, m.initialDepth))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		return m, nil

	case builtMsg:
		m.st = statusReady
		m.root = msg.root
		m.err = msg.err
		return m, nil

	case expandedMsg:
		delete(m.expanding, msg.node)
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case "enter", " ", "right", "l":
		rows := m.rows()
		if m.cursor >= len(rows) {
			return m, nil
		}

		node := rows[m.cursor]
		if node.Kind != scan.KindDir {
			return m, nil
		}

		if !node.Loaded {
			if m.expanding[node] {
				return m, nil
			}

			m.expanding[node] = true

			return m, expandCmd(node, m.opts)
		}

		m.collapsed[node] = !m.collapsed[node]

	case "left", "h":
		rows := m.rows()
		if m.cursor < len(rows) {
			if node := rows[m.cursor]; node.Kind == scan.KindDir && node.Loaded {
				m.collapsed[node] = true
			}
		}
	}

	return m, nil
}

// rows flattens the visible part of the lazy tree in display order.
func (m model) rows() []*scan.LazyNode {
	if m.root == nil {
		return nil
	}

	var out []*scan.LazyNode

	var push func(n *scan.LazyNode)
	push = func(n *scan.LazyNode) {
		out = append(out, n)

		if n.Kind != scan.KindDir || !n.Loaded || m.collapsed[n] {
			return
		}

		for _, child := range n.Children {
			push(child)
		}
	}

	push(m.root)

	return out
}

func (m model) marker(n *scan.LazyNode) string {
	switch {
	case n.Kind == scan.KindSymlink:
		return "@ "
	case n.Kind != scan.KindDir:
		return "  "
	case m.expanding[n]:
		return m.sp.View()
	case !n.Loaded, m.collapsed[n]:
		return "▸ "
	default:
		return "▾ "
	}
}

func (m model) detail(n *scan.LazyNode) string {
	switch n.Kind {
	case scan.KindDir:
		switch {
		case n.Loaded:
			return fmt.Sprintf("%d items", len(n.Children))
		case n.HasChildren == scan.ChildrenAbsent:
			return "empty"
		case n.HasChildren == scan.ChildrenPresent:
			return "…"
		default:
			return ""
		}
	default:
		return humanize.IBytes(uint64(n.Size)) //nolint:gosec // Size is non-negative
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("dirscan — "+m.path) + "\n\n")

	if m.st == statusLoading {
		b.WriteString(m.sp.View() + " scanning…\n")

		return b.String()
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	}

	rows := m.rows()

	height := m.termH - 5
	if height < 1 {
		height = len(rows)
	}

	// keep cursor in the window
	offset := 0

	if m.cursor >= offset+height {
		offset = m.cursor - height + 1
	}

	end := offset + height
	if end > len(rows) {
		end = len(rows)
	}

	for i := offset; i < end; i++ {
		node := rows[i]
		indent := strings.Repeat("  ", node.Depth)
		line := fmt.Sprintf("%s%s%s  %s", indent, m.marker(node), node.Name, dimStyle.Render(m.detail(node)))

		if i == m.cursor {
			line = selectedStyle.Render(fmt.Sprintf("%s%s%s  %s", indent, m.marker(node), node.Name, m.detail(node)))
		}

		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("enter: expand/collapse  ↑/↓: move  q: quit") + "\n")

	return b.String()
}
