// Package ui renders the employee directory, the employee creation form and
// the attendance board in the terminal. Built on bubbletea, it holds no
// screen state of its own: each page wraps a screen from the service package,
// maps key presses to its operations and renders its snapshots.
//
// Screen operations that reach the store run as tea.Cmds. Callbacks that
// fire outside the event loop (the directory's add button, the creation
// redirect) are delivered back through a [Sender].
package ui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/core/service"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

// Sender delivers a message into the running event loop.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSender forwards messages to a tea.Program bound after construction,
// since the program needs the model before it exists. Messages sent before
// SetProgram are dropped.
type ProgramSender struct {
	mu      sync.Mutex
	program *tea.Program
}

// SetProgram binds the program messages are forwarded to.
func (s *ProgramSender) SetProgram(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

// Send forwards msg without blocking the caller. Program.Send blocks until
// the event loop accepts the message, and callers may hold screen locks.
func (s *ProgramSender) Send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

// Deps are the collaborators the UI needs.
type Deps struct {
	// Context bounds every store call the UI issues.
	Context  context.Context
	Store    ports.Store
	// Lock is optional. Nil guards marks within this process only.
	Lock     ports.MarkLock
	Clock    clock.Clock
	Location *time.Location
	Log      zerolog.Logger
	Sender   Sender
}

type page int

const (
	pageDirectory page = iota
	pageCreate
	pageAttendance
)

func (p page) String() string {
	switch p {
	case pageDirectory:
		return "Directory"
	case pageCreate:
		return "Add Employee"
	case pageAttendance:
		return "Attendance"
	default:
		return "unknown"
	}
}

// Model is the root bubbletea model.
type Model struct {
	deps   Deps
	keys   KeyMap
	styles styles
	page   page
	width  int
	height int

	directory  directoryPage
	create     createPage
	attendance attendancePage
}

// NewModel builds the root model with the directory as the landing page.
// The directory screen lives as long as the model.
func NewModel(deps Deps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	sender := deps.Sender
	directory := service.NewDirectory(deps.Store.Employees(), func() {
		notify(sender, openCreateMsg{})
	}, deps.Log)

	return Model{
		deps:      deps,
		keys:      DefaultKeyMap,
		styles:    newStyles(DefaultTheme),
		page:      pageDirectory,
		directory: newDirectoryPage(directory),
	}
}

func notify(s Sender, msg tea.Msg) {
	if s != nil {
		s.Send(msg)
	}
}

// Init loads the directory.
func (m Model) Init() tea.Cmd {
	return m.directory.load(m.deps.Context)
}

// Update routes messages to the active page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		switch m.page {
		case pageCreate:
			return m.updateCreate(msg)
		case pageAttendance:
			return m.updateAttendance(msg)
		default:
			return m.updateDirectory(msg)
		}

	case directoryLoadedMsg:
		m.directory.clampCursor()
		return m, nil

	case openCreateMsg:
		return m.openCreate()

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case employeeCreatedMsg:
		return m.handleEmployeeCreated(msg)

	case attendanceReadyMsg:
		if msg.board == m.attendance.board {
			m.attendance.clampCursor()
		}
		return m, nil

	case markDoneMsg:
		return m.handleMarkDone(msg)

	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.closeCreate()
	m.closeAttendance()
	m.directory.screen.Close()
	return m, tea.Quit
}

// View renders the navigation bar, the active page and its key help.
func (m Model) View() string {
	var body string
	switch m.page {
	case pageCreate:
		body = m.viewCreate()
	case pageAttendance:
		body = m.viewAttendance()
	default:
		body = m.viewDirectory()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewNav(),
		"",
		body,
		"",
		m.viewHelp(),
	)
}

func (m Model) viewNav() string {
	brand := m.styles.title.Render("HRMS Lite")
	tabs := []page{pageDirectory, pageAttendance}
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, brand+"  ")
	for _, p := range tabs {
		active := m.page == p || (p == pageDirectory && m.page == pageCreate)
		if active {
			parts = append(parts, m.styles.navOn.Render(p.String()))
		} else {
			parts = append(parts, m.styles.navOff.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewHelp() string {
	var bindings []key.Binding
	switch m.page {
	case pageCreate:
		bindings = []key.Binding{m.keys.NextField, m.keys.PrevField, m.keys.PrevDept, m.keys.NextDept, m.keys.Submit, m.keys.Back}
	case pageAttendance:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Present, m.keys.Absent, m.keys.History, m.keys.Back, m.keys.Quit}
	default:
		if m.directory.searching {
			bindings = []key.Binding{m.keys.Submit, m.keys.Back}
		} else {
			bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Search, m.keys.NewEmployee, m.keys.Attendance, m.keys.Reload, m.keys.Quit}
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " · "))
}
