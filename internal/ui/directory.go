package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/service"
)

type (
	directoryLoadedMsg struct{}
	openCreateMsg      struct{}
)

type directoryPage struct {
	screen    *service.Directory
	search    textinput.Model
	searching bool
	cursor    int
}

func newDirectoryPage(screen *service.Directory) directoryPage {
	search := newInput("Search by name, ID or department...", 64)
	search.Prompt = "Search: "
	return directoryPage{screen: screen, search: search}
}

// newInput builds a text input with a static cursor so that focus changes
// emit no blink commands.
func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (p directoryPage) load(ctx context.Context) tea.Cmd {
	screen := p.screen
	return func() tea.Msg {
		screen.Load(ctx)
		return directoryLoadedMsg{}
	}
}

func (p *directoryPage) clampCursor() {
	n := len(p.screen.Filtered())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (m Model) updateDirectory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.directory

	if d.searching {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Submit) {
			d.search.Blur()
			d.searching = false
			return m, nil
		}
		var cmd tea.Cmd
		d.search, cmd = d.search.Update(msg)
		d.screen.SetSearch(d.search.Value())
		d.clampCursor()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Search):
		d.searching = true
		return m, d.search.Focus()
	case key.Matches(msg, m.keys.Back):
		if d.search.Value() != "" {
			d.search.SetValue("")
			d.screen.SetSearch("")
			d.clampCursor()
		}
	case key.Matches(msg, m.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		d.cursor++
		d.clampCursor()
	case key.Matches(msg, m.keys.NewEmployee):
		d.screen.RequestCreate()
	case key.Matches(msg, m.keys.Attendance):
		return m.openAttendance()
	case key.Matches(msg, m.keys.Reload):
		if !d.screen.View().Loading() {
			return m, d.load(m.deps.Context)
		}
	}
	return m, nil
}

func (m Model) viewDirectory() string {
	s := m.styles
	d := m.directory
	v := d.screen.View()

	var b strings.Builder
	b.WriteString(s.title.Render("Employee Directory"))
	b.WriteString("\n")
	b.WriteString(s.subtitle.Render(fmt.Sprintf("Manage your team members (%d total)", v.Total)))
	b.WriteString("\n\n")
	b.WriteString(d.search.View())
	b.WriteString("\n\n")

	switch {
	case v.Loading():
		b.WriteString(s.faint.Render("Loading employees..."))
	case len(v.Employees) == 0:
		b.WriteString(s.faint.Render("No employees found"))
		if v.Err != nil {
			b.WriteString("\n")
			b.WriteString(s.err.Render("Could not load employees: " + domain.MessageOf(v.Err, v.Err.Error())))
		}
	default:
		b.WriteString(s.faint.Render(directoryRow("EMPLOYEE", "ID", "EMAIL", "DEPARTMENT")))
		for i, e := range v.Employees {
			b.WriteString("\n")
			row := directoryRow(e.FullName, e.EmployeeID, e.Email, e.Department)
			if i == d.cursor {
				b.WriteString(s.selected.Render(row))
			} else {
				b.WriteString(s.normal.Render(row))
			}
		}
	}
	return b.String()
}

func directoryRow(name, id, email, dept string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(name, 24), cell(id, 12), cell(email, 30), cell(dept, 12))
}
