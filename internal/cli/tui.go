package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/seed/pkg/core/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive layout tree browser
// =============================================================================

// inspectRow is a visible line of the tree browser.
type inspectRow struct {
	node        *layout.Node
	depth       int
	hasChildren bool
}

// InspectModel is the bubbletea model for browsing a layout tree.
type InspectModel struct {
	Title  string
	Tree   *layout.Tree
	Cursor int
	Height int
	Offset int

	collapsed map[layout.NodeID]bool
	rows      []inspectRow
}

// NewInspectModel creates a browser over t with every node expanded.
func NewInspectModel(title string, t *layout.Tree) InspectModel {
	m := InspectModel{
		Title:     title,
		Tree:      t,
		Height:    15,
		collapsed: make(map[layout.NodeID]bool),
	}
	m.rows = m.flatten()
	return m
}

// flatten lists the visible nodes in preorder, skipping the descendants
// of collapsed nodes.
func (m InspectModel) flatten() []inspectRow {
	var rows []inspectRow
	var visit func(id layout.NodeID, depth int)
	visit = func(id layout.NodeID, depth int) {
		n := m.Tree.Node(id)
		if n == nil {
			return
		}
		rows = append(rows, inspectRow{node: n, depth: depth, hasChildren: len(n.Children) > 0})
		if m.collapsed[id] {
			return
		}
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	for _, root := range m.Tree.Roots() {
		visit(root, 0)
	}
	return rows
}

// Selected returns the node under the cursor, or nil for an empty tree.
func (m InspectModel) Selected() *layout.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].node
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.rows) - 1)
		case "enter", " ":
			if n := m.Selected(); n != nil && len(n.Children) > 0 {
				m.setCollapsed(n.ID, !m.collapsed[n.ID])
			}
		case "left", "h":
			n := m.Selected()
			switch {
			case n == nil:
			case len(n.Children) > 0 && !m.collapsed[n.ID]:
				m.setCollapsed(n.ID, true)
			case n.Parent != 0:
				m.moveTo(m.rowOf(n.Parent))
			}
		case "right", "l":
			if n := m.Selected(); n != nil && m.collapsed[n.ID] {
				m.setCollapsed(n.ID, false)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the header, the table border and the detail panel.
		m.Height = max(msg.Height-14, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m *InspectModel) setCollapsed(id layout.NodeID, collapsed bool) {
	if collapsed {
		m.collapsed[id] = true
	} else {
		delete(m.collapsed, id)
	}
	m.rows = m.flatten()
	m.moveTo(m.rowOf(id))
}

func (m *InspectModel) rowOf(id layout.NodeID) int {
	for i, r := range m.rows {
		if r.node.ID == id {
			return i
		}
	}
	return m.Cursor
}

// moveTo sets the cursor, clamped to the rows, and scrolls it into view.
func (m *InspectModel) moveTo(i int) {
	m.Cursor = max(min(i, len(m.rows)-1), 0)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  ←/→ collapse/expand  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty layout)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if r.hasChildren {
			marker = "▾ "
			if m.collapsed[r.node.ID] {
				marker = "▸ "
			}
		}
		bounds := r.node.Bounds
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.depth) + marker + nodeLabel(r.node),
			string(r.node.Kind),
			formatFloat(bounds.X),
			formatFloat(bounds.Y),
			formatFloat(bounds.Width),
			formatFloat(bounds.Height),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Element", "Kind", "X", "Y", "Width", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Align(lipgloss.Right)
			}
			n := m.rows[idx].node
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case !n.Visible:
				return base.Foreground(colorDim)
			case col == 2:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// detail renders the properties of the selected node.
func (m InspectModel) detail() string {
	n := m.Selected()
	if n == nil {
		return ""
	}
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(key))
		b.WriteString(" ")
		b.WriteString(listNormalStyle.Render(value))
		b.WriteString("\n")
	}
	b.WriteString(listSelectedStyle.Render("  " + nodeLabel(n)))
	b.WriteString("\n")
	abs := n.AbsoluteBounds
	line("absolute", fmt.Sprintf("%s, %s  %s × %s",
		formatFloat(abs.X), formatFloat(abs.Y), formatFloat(abs.Width), formatFloat(abs.Height)))
	line("children", fmt.Sprintf("%d", len(n.Children)))
	line("opacity", formatFloat(n.Opacity))
	line("visible", fmt.Sprintf("%t", n.Visible))
	line("clips", fmt.Sprintf("%t", n.ClipsChildren))
	return b.String()
}

// nodeLabel names a node by element name, falling back to its id.
func nodeLabel(n *layout.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("#%d", n.ID)
}
