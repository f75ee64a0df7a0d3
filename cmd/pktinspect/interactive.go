package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cmdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

const listWidth = 40

type interactiveModel struct {
	source   string
	entries  []entry
	visible  []int // indexes into entries that match the filter
	filter   textinput.Model
	detail   viewport.Model
	selected int
	height   int
}

func newInteractiveModel(source string, entries []entry) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter by command"
	ti.Prompt = "/ "
	ti.Width = listWidth - 4

	m := &interactiveModel{
		source:  source,
		entries: entries,
		filter:  ti,
		detail:  viewport.New(60, 20),
		height:  24,
	}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.detail.Width = max(msg.Width-listWidth-4, 20)
		m.detail.Height = max(msg.Height-6, 5)
		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter":
				m.filter.Blur()
				return m, nil
			case "esc":
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			return m, m.filter.Focus()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.showSelected()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.showSelected()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.title()), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = min(m.selected, max(len(m.visible)-1, 0))
	m.showSelected()
}

func (m *interactiveModel) current() (entry, bool) {
	if len(m.visible) == 0 {
		return entry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

func (m *interactiveModel) showSelected() {
	e, ok := m.current()
	if !ok {
		m.detail.SetContent("no packets match")
		return
	}
	m.detail.SetContent(e.detail())
	m.detail.GotoTop()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Packet Inspector"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	list := m.renderList()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detailStyle.Render(m.detail.View())))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • pgup/pgdn scroll • q quit"))
	return b.String()
}

func (m *interactiveModel) renderList() string {
	rows := max(m.height-6, 1)
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}

	var lines []string
	for i := start; i < len(m.visible) && i < start+rows; i++ {
		e := m.entries[m.visible[i]]
		title := truncate(e.title(), listWidth-2)
		switch {
		case i == m.selected:
			lines = append(lines, selectedStyle.Render("> "+title))
		case e.err != nil:
			lines = append(lines, "  "+errorStyle.Render(title))
		default:
			lines = append(lines, "  "+cmdStyle.Render(title))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, helpStyle.Render("  (empty)"))
	}
	return lipgloss.NewStyle().Width(listWidth).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runInteractive(source string, entries []entry) error {
	p := tea.NewProgram(newInteractiveModel(source, entries), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive: %w", err)
	}
	return nil
}
