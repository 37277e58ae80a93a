package detail

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Underline(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)
)

// Field is one labelled line of a record sheet.
type Field struct {
	Label string
	Value string
}

// Section is a heading followed by free text lines.
type Section struct {
	Heading string
	Lines   []string
}

// Model shows a read-only record sheet in a scrolling viewport.
type Model struct {
	viewport viewport.Model
	Title    string
	Fields   []Field
	Sections []Section
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// Show replaces the sheet and scrolls back to the top.
func (m *Model) Show(title string, fields []Field, sections []Section) {
	m.Title = title
	m.Fields = fields
	m.Sections = sections
	m.Render()
	m.viewport.GotoTop()
}

func (m *Model) Render() {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(titleStyle.Render(m.Title) + "\n\n")
	}
	for _, f := range m.Fields {
		if f.Value == "" {
			continue
		}
		b.WriteString(labelStyle.Render(f.Label) + " " + valueStyle.Render(f.Value) + "\n")
	}
	for _, s := range m.Sections {
		b.WriteString(headingStyle.Render(s.Heading) + "\n")
		if len(s.Lines) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, line := range s.Lines {
			b.WriteString("  " + line + "\n")
		}
	}
	m.viewport.SetContent(b.String())
}

// Content returns the rendered sheet without viewport clipping.
func (m Model) Content() string {
	var b strings.Builder
	for _, f := range m.Fields {
		if f.Value != "" {
			b.WriteString(f.Label + ": " + f.Value + "\n")
		}
	}
	for _, s := range m.Sections {
		b.WriteString(s.Heading + "\n")
		for _, line := range s.Lines {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
