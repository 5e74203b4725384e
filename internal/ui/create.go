package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/service"
)

type (
	submitDoneMsg struct {
		screen *service.EmployeeCreation
		err    error
	}
	employeeCreatedMsg struct {
		screen   *service.EmployeeCreation
		employee domain.Employee
	}
)

// Form fields in focus order. The department is a selector, not a text input.
const (
	fieldEmployeeID = iota
	fieldFullName
	fieldEmail
	fieldDepartment
	fieldCount
)

var fieldLabels = [fieldCount]string{"Employee ID", "Full Name", "Email Address", "Department"}

type createPage struct {
	screen *service.EmployeeCreation
	inputs [fieldDepartment]textinput.Model
	dept   int // index into deptOptions
	focus  int
}

// deptOptions puts the unselected placeholder ahead of the departments.
var deptOptions = func() []string {
	opts := []string{""}
	for _, d := range domain.Departments {
		opts = append(opts, string(d))
	}
	return opts
}()

func newCreatePage(screen *service.EmployeeCreation) createPage {
	p := createPage{screen: screen}
	p.inputs[fieldEmployeeID] = newInput("EMP-1001", 32)
	p.inputs[fieldFullName] = newInput("John Doe", 80)
	p.inputs[fieldEmail] = newInput("john.doe@company.com", 120)
	return p
}

func (p *createPage) focusField(i int) tea.Cmd {
	p.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for f := range p.inputs {
		if f == p.focus {
			cmd = p.inputs[f].Focus()
		} else {
			p.inputs[f].Blur()
		}
	}
	return cmd
}

func (p createPage) form() service.EmployeeForm {
	return service.EmployeeForm{
		EmployeeID: strings.TrimSpace(p.inputs[fieldEmployeeID].Value()),
		FullName:   strings.TrimSpace(p.inputs[fieldFullName].Value()),
		Email:      strings.TrimSpace(p.inputs[fieldEmail].Value()),
		Department: deptOptions[p.dept],
	}
}

// sync pushes the inputs into the screen. Edits after creation are refused by
// the screen and simply not applied.
func (p createPage) sync() {
	_ = p.screen.SetForm(p.form())
}

func (p createPage) submit(ctx context.Context) tea.Cmd {
	screen := p.screen
	return func() tea.Msg {
		return submitDoneMsg{screen: screen, err: screen.Submit(ctx)}
	}
}

func (m Model) openCreate() (tea.Model, tea.Cmd) {
	if m.page == pageCreate {
		return m, nil
	}
	m.closeAttendance()

	sender := m.deps.Sender
	var screen *service.EmployeeCreation
	screen = service.NewEmployeeCreation(m.deps.Store.Employees(), m.deps.Clock, func(e domain.Employee) {
		notify(sender, employeeCreatedMsg{screen: screen, employee: e})
	}, m.deps.Log)

	m.create = newCreatePage(screen)
	m.page = pageCreate
	return m, m.create.focusField(fieldEmployeeID)
}

func (m *Model) closeCreate() {
	if m.create.screen != nil {
		m.create.screen.Close()
		m.create = createPage{}
	}
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.create
	v := c.screen.View()

	switch {
	case key.Matches(msg, m.keys.Back):
		// Leaving early still shows a created employee in the directory.
		if v.Created != nil {
			m.directory.screen.Apply(*v.Created)
		}
		m.closeCreate()
		m.page = pageDirectory
		return m, nil
	case v.Success || v.Loading:
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		c.sync()
		return m, c.submit(m.deps.Context)
	case key.Matches(msg, m.keys.NextField):
		return m, c.focusField(c.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, c.focusField(c.focus - 1)
	case c.focus == fieldDepartment:
		switch {
		case key.Matches(msg, m.keys.NextDept):
			c.dept = (c.dept + 1) % len(deptOptions)
		case key.Matches(msg, m.keys.PrevDept):
			c.dept = (c.dept - 1 + len(deptOptions)) % len(deptOptions)
		}
		c.sync()
		return m, nil
	}

	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	c.sync()
	return m, cmd
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.create.screen {
		return m, nil
	}
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, domain.ErrSubmitInFlight), errors.Is(msg.err, domain.ErrScreenClosed):
	default:
		m.deps.Log.Debug().Err(msg.err).Msg("employee form rejected")
	}
	return m, nil
}

func (m Model) handleEmployeeCreated(msg employeeCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.create.screen {
		return m, nil
	}
	m.directory.screen.Apply(msg.employee)
	m.closeCreate()
	m.page = pageDirectory
	m.directory.clampCursor()
	return m, nil
}

func (m Model) viewCreate() string {
	s := m.styles
	c := m.create
	v := c.screen.View()

	var b strings.Builder
	b.WriteString(s.title.Render("Add New Employee"))
	b.WriteString("\n")
	b.WriteString(s.subtitle.Render("Add a new member to the organization"))
	b.WriteString("\n\n")

	if v.Success && v.Created != nil {
		b.WriteString(s.success.Render("Successfully Added!"))
		b.WriteString("\n")
		b.WriteString(s.normal.Render(v.Created.FullName + " has been added to the directory."))
		b.WriteString("\n")
		b.WriteString(s.faint.Render("Redirecting..."))
		return b.String()
	}

	for f := 0; f < fieldCount; f++ {
		label := s.label
		if f == c.focus {
			label = s.focused
		}
		b.WriteString(label.Render(fieldLabels[f]))
		if f == fieldDepartment {
			b.WriteString(m.viewDepartment())
		} else {
			b.WriteString(c.inputs[f].View())
		}
		b.WriteString("\n")
	}

	if v.Error != "" {
		b.WriteString("\n")
		b.WriteString(s.err.Render(v.Error))
	}
	b.WriteString("\n")
	if v.Loading {
		b.WriteString(s.pending.Render("Saving..."))
	} else {
		b.WriteString(s.faint.Render("enter: Create Employee"))
	}
	return b.String()
}

func (m Model) viewDepartment() string {
	name := deptOptions[m.create.dept]
	if name == "" {
		name = m.styles.faint.Render("Select Dept")
	}
	if m.create.focus == fieldDepartment {
		return "‹ " + name + " ›"
	}
	return "  " + name
}
