package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/service"
)

type (
	attendanceReadyMsg struct {
		board *service.AttendanceBoard
	}
	markDoneMsg struct {
		board *service.AttendanceBoard
		key   domain.Key
		err   error
	}
	historyLoadedMsg struct {
		board   *service.AttendanceBoard
		key     domain.Key
		records []domain.AttendanceRecord
		err     error
	}
)

type historyPanel struct {
	employee domain.Employee
	loading  bool
	records  []domain.AttendanceRecord
	err      error
}

type attendancePage struct {
	board   *service.AttendanceBoard
	cursor  int
	alert   string
	history *historyPanel
}

func (p *attendancePage) clampCursor() {
	n := len(p.board.Rows())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p attendancePage) selected() (service.AttendanceRow, bool) {
	rows := p.board.Rows()
	if p.cursor < 0 || p.cursor >= len(rows) {
		return service.AttendanceRow{}, false
	}
	return rows[p.cursor], true
}

func (p attendancePage) mark(ctx context.Context, status domain.AttendanceStatus) tea.Cmd {
	row, ok := p.selected()
	if !ok || !row.CanMark() {
		return nil
	}
	board, id := p.board, row.Employee.ID
	return func() tea.Msg {
		return markDoneMsg{board: board, key: id, err: board.Mark(ctx, id, status)}
	}
}

func (p *attendancePage) loadHistory(ctx context.Context) tea.Cmd {
	row, ok := p.selected()
	if !ok {
		return nil
	}
	p.history = &historyPanel{employee: row.Employee, loading: true}
	board, id := p.board, row.Employee.ID
	return func() tea.Msg {
		records, err := board.History(ctx, id)
		return historyLoadedMsg{board: board, key: id, records: records, err: err}
	}
}

// openAttendance builds a fresh board, which pins today's date.
func (m Model) openAttendance() (tea.Model, tea.Cmd) {
	m.closeAttendance()
	board := service.NewAttendanceBoard(
		m.deps.Store.Employees(),
		m.deps.Store.Attendance(),
		m.deps.Lock,
		m.deps.Clock,
		m.deps.Location,
		m.deps.Log,
	)
	m.attendance = attendancePage{board: board}
	m.page = pageAttendance

	ctx := m.deps.Context
	return m, func() tea.Msg {
		board.Init(ctx)
		return attendanceReadyMsg{board: board}
	}
}

func (m *Model) closeAttendance() {
	if m.attendance.board != nil {
		m.attendance.board.Close()
		m.attendance = attendancePage{}
	}
}

func (m Model) updateAttendance(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.attendance

	if a.alert != "" {
		if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Back) {
			a.alert = ""
		}
		return m, nil
	}
	if a.history != nil {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.History) {
			a.history = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		m.closeAttendance()
		m.page = pageDirectory
	case key.Matches(msg, m.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		a.cursor++
		a.clampCursor()
	case key.Matches(msg, m.keys.Present):
		return m, a.mark(m.deps.Context, domain.StatusPresent)
	case key.Matches(msg, m.keys.Absent):
		return m, a.mark(m.deps.Context, domain.StatusAbsent)
	case key.Matches(msg, m.keys.History):
		return m, a.loadHistory(m.deps.Context)
	}
	return m, nil
}

func (m Model) handleMarkDone(msg markDoneMsg) (tea.Model, tea.Cmd) {
	if msg.board != m.attendance.board || msg.err == nil {
		return m, nil
	}
	switch {
	case errors.Is(msg.err, domain.ErrMarkFailed):
		m.attendance.alert = service.MarkFailedMessage
	case errors.Is(msg.err, domain.ErrScreenClosed):
	default:
		m.deps.Log.Debug().Err(msg.err).Str("employee", string(msg.key)).Msg("mark ignored")
	}
	return m, nil
}

func (m Model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	h := m.attendance.history
	if msg.board != m.attendance.board || h == nil || h.employee.ID != msg.key {
		return m, nil
	}
	m.attendance.history = &historyPanel{
		employee: h.employee,
		records:  msg.records,
		err:      msg.err,
	}
	return m, nil
}

func (m Model) viewAttendance() string {
	s := m.styles
	a := m.attendance
	v := a.board.View()

	var b strings.Builder
	b.WriteString(s.title.Render("Attendance Manager"))
	b.WriteString("\n")
	b.WriteString(s.subtitle.Render("Mark daily attendance for " + v.Date))
	b.WriteString("\n\n")

	if v.EmployeesErr != nil {
		b.WriteString(s.err.Render("Could not load employees: " + domain.MessageOf(v.EmployeesErr, v.EmployeesErr.Error())))
		b.WriteString("\n")
	}
	if v.AttendanceErr != nil {
		b.WriteString(s.err.Render("Could not load today's attendance: " + domain.MessageOf(v.AttendanceErr, v.AttendanceErr.Error())))
		b.WriteString("\n")
	}

	switch {
	case v.Loading:
		b.WriteString(s.faint.Render("Loading attendance..."))
	case len(v.Rows) == 0:
		b.WriteString(s.faint.Render("No employees found to track attendance."))
	default:
		for i, row := range v.Rows {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.viewAttendanceRow(row, i == a.cursor))
		}
	}

	if a.history != nil {
		b.WriteString("\n\n")
		b.WriteString(m.viewHistory(*a.history))
	}
	if a.alert != "" {
		b.WriteString("\n\n")
		b.WriteString(s.alert.Render(s.err.Render(a.alert) + "\n" + s.faint.Render("enter: OK")))
	}
	return b.String()
}

func (m Model) viewAttendanceRow(row service.AttendanceRow, selected bool) string {
	s := m.styles
	e := row.Employee
	who := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(e.FullName, 24), cell(e.EmployeeID, 12), cell(e.Department, 12))
	if selected {
		who = s.selected.Render(who)
	} else {
		who = s.normal.Render(who)
	}

	var status string
	switch row.State {
	case service.RowMarked:
		status = m.statusBadge(row.Record.Status)
	case service.RowMarking:
		status = s.pending.Render("Marking...")
	default:
		status = s.faint.Render("Not Marked")
		if selected {
			status += s.help.Render("  p Present · a Absent")
		}
	}
	return who + "  " + status
}

func (m Model) statusBadge(status domain.AttendanceStatus) string {
	switch status {
	case domain.StatusPresent:
		return m.styles.present.Render(string(status))
	case domain.StatusAbsent:
		return m.styles.absent.Render(string(status))
	default:
		return m.styles.faint.Render(string(status))
	}
}

func (m Model) viewHistory(h historyPanel) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.title.Render("History: " + h.employee.FullName))
	switch {
	case h.loading:
		b.WriteString("\n" + s.faint.Render("Loading history..."))
	case h.err != nil:
		b.WriteString("\n" + s.err.Render("Could not load history: "+domain.MessageOf(h.err, h.err.Error())))
	case len(h.records) == 0:
		b.WriteString("\n" + s.faint.Render("No attendance recorded."))
	default:
		for _, r := range h.records {
			b.WriteString(fmt.Sprintf("\n%s  %s", r.Date, m.statusBadge(r.Status)))
		}
	}
	return s.box.Render(b.String())
}
