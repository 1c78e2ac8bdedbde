package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/render"
)

var (
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	browseErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// browseItem is one visible line. owner is the section whose expansion
// inserted it, or -1 for top-level lines.
type browseItem struct {
	line  render.Line
	depth int
	owner int
}

// BrowseModel is the bubbletea model for the section browser. The top level
// of the document is shown first; enter on a heading splices in the expanded
// section body, and enter again collapses it.
type BrowseModel struct {
	ctx      context.Context
	file     *cache.RenderedFile
	res      *render.Result
	mode     render.Mode
	items    []browseItem
	expanded map[int]bool
	Cursor   int
	Offset   int
	Height   int
	err      error
}

// NewBrowseModel renders f in mode and shows the top-level lines.
func NewBrowseModel(ctx context.Context, f *cache.RenderedFile, mode render.Mode, showDoc bool) BrowseModel {
	res := f.RenderMode(ctx, mode, showDoc, false)
	m := BrowseModel{
		ctx:      ctx,
		file:     f,
		res:      res,
		mode:     mode,
		expanded: map[int]bool{},
		Height:   20,
	}
	for _, root := range res.Roots {
		m.items = append(m.items, browseItem{line: root.Line, owner: -1})
	}
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "enter", "right", "left", "l", "h":
			m.toggle()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-5, 5)
		m.move(0)
	}
	return m, nil
}

func (m *BrowseModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.items)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// toggle expands or collapses the section under the cursor.
func (m *BrowseModel) toggle() {
	if m.Cursor >= len(m.items) {
		return
	}
	it := m.items[m.Cursor]
	if it.line.Section == nil || it.owner != -1 {
		return
	}
	id := *it.line.Section
	m.err = nil

	if m.expanded[id] {
		end := m.Cursor + 1
		for end < len(m.items) && m.items[end].owner == id {
			end++
		}
		m.items = slices.Delete(m.items, m.Cursor+1, end)
		delete(m.expanded, id)
		return
	}

	lines, err := m.file.GetCodeLineSectionOf(m.ctx, m.res, id)
	if err != nil {
		m.err = err
		return
	}
	body := make([]browseItem, len(lines))
	for i, l := range lines {
		body[i] = browseItem{line: l, depth: max(levelOf(l.Class), 1), owner: id}
	}
	m.items = slices.Insert(m.items, m.Cursor+1, body...)
	m.expanded[id] = true
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.items))
	for i := m.Offset; i < end; i++ {
		it := m.items[i]
		marker := "  "
		if it.line.Section != nil && it.owner == -1 {
			marker = "▸ "
			if m.expanded[*it.line.Section] {
				marker = "▾ "
			}
		}
		if i == m.Cursor {
			marker = browseCursorStyle.Render(marker)
		}
		b.WriteString(marker)
		b.WriteString(termLine(it.line, m.mode, it.depth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(browseErrStyle.Render(m.err.Error()))
	} else {
		b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.items))))
	}
	return b.String()
}

func (m BrowseModel) title() string {
	doc := m.file.Document()
	if doc.PackageName != "" {
		return doc.PackageName
	}
	if doc.Name != "" {
		return doc.Name
	}
	return appName
}

func (c *CLI) browseCommand() *cobra.Command {
	opts := renderFlags{mode: "text", sections: true}

	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse a document interactively, expanding sections on demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts := c.options(cmd, args[0], &opts)
			f, err := runner.Open(ctx, popts)
			if err != nil {
				return err
			}

			model := NewBrowseModel(ctx, f, popts.RenderMode(), popts.ShowDocumentation)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}
