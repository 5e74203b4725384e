package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/service"
	"github.com/hrmslite/hrms/internal/infrastructure/db/memory"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

type fixture struct {
	model  Model
	store  *memory.Store
	clock  *clock.FakeClock
	sender chanSender
	ada    domain.Employee
	ben    domain.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	store := memory.New(clk)
	ctx := context.Background()

	ada, err := store.Employees().Insert(ctx, domain.NewEmployee{
		EmployeeID: "EMP-1", FullName: "Ada Lovelace", Email: "ada@example.com", Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	clk.Advance(time.Minute)
	ben, err := store.Employees().Insert(ctx, domain.NewEmployee{
		EmployeeID: "EMP-2", FullName: "Ben Carter", Email: "ben@example.com", Department: "Design",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	sender := make(chanSender, 8)
	m := NewModel(Deps{
		Context:  ctx,
		Store:    store,
		Clock:    clk,
		Location: time.UTC,
		Log:      zerolog.Nop(),
		Sender:   sender,
	})
	f := &fixture{model: m, store: store, clock: clk, sender: sender, ada: *ada, ben: *ben}
	f.run(t, m.Init())
	return f
}

// run executes cmd synchronously and feeds its messages back into the model
// until no command remains.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			f.run(t, c)
		}
	default:
		f.update(t, msg)
	}
}

func (f *fixture) update(t *testing.T, msg tea.Msg) {
	t.Helper()
	updated, cmd := f.model.Update(msg)
	f.model = updated.(Model)
	f.run(t, cmd)
}

func (f *fixture) press(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		f.update(t, k)
	}
}

func (f *fixture) receive(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-f.sender:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message sent to the program")
		return nil
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestModel_DirectoryListsNewestFirst(t *testing.T) {
	f := newFixture(t)

	view := f.model.View()
	if !strings.Contains(view, "Manage your team members (2 total)") {
		t.Fatalf("missing total in view:\n%s", view)
	}
	ada, ben := strings.Index(view, "Ada Lovelace"), strings.Index(view, "Ben Carter")
	if ada < 0 || ben < 0 {
		t.Fatalf("employees missing from view:\n%s", view)
	}
	if ben > ada {
		t.Error("expected the newest employee first")
	}
}

func TestModel_DirectorySearch(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("/"), runes("design"))
	if !f.model.directory.searching {
		t.Fatal("expected search mode")
	}
	view := f.model.View()
	if !strings.Contains(view, "Ben Carter") || strings.Contains(view, "Ada Lovelace") {
		t.Fatalf("search did not filter:\n%s", view)
	}

	f.press(t, enter)
	if f.model.directory.searching {
		t.Error("enter should leave search mode")
	}
	if got := f.model.directory.screen.View().SearchTerm; got != "design" {
		t.Errorf("search term = %q, want design", got)
	}

	f.press(t, runes("/"), runes("zzz"), esc)
	if !strings.Contains(f.model.View(), "No employees found") {
		t.Error("expected the empty state for a search with no match")
	}

	// esc outside search mode clears the term.
	f.press(t, esc)
	if got := f.model.directory.screen.View().SearchTerm; got != "" {
		t.Errorf("search term = %q after clear", got)
	}
}

func TestModel_DirectoryLoadFailure(t *testing.T) {
	f := newFixture(t)
	if err := f.store.Close(context.Background()); err != nil {
		t.Fatalf("close store: %v", err)
	}

	f.press(t, runes("r"))
	view := f.model.View()
	if !strings.Contains(view, "No employees found") || !strings.Contains(view, "Could not load employees") {
		t.Fatalf("expected failure state:\n%s", view)
	}
}

func TestModel_CreateEmployeeRedirects(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("n"))
	f.update(t, f.receive(t))
	if f.model.page != pageCreate {
		t.Fatalf("page = %v, want create", f.model.page)
	}

	f.press(t,
		runes("EMP-3"), tab,
		runes("Cleo Park"), tab,
		runes("cleo@example.com"), tab,
		right, right, right, // Design
	)
	if got := f.model.create.form(); got.Department != "Design" || got.FullName != "Cleo Park" {
		t.Fatalf("form = %+v", got)
	}

	f.press(t, enter)
	if !strings.Contains(f.model.View(), "Successfully Added!") {
		t.Fatalf("expected success banner:\n%s", f.model.View())
	}

	// Keys are ignored while the banner shows.
	f.press(t, runes("x"))
	if f.model.page != pageCreate {
		t.Fatal("left the form before the redirect")
	}

	f.clock.Advance(service.SuccessDisplayDelay)
	f.update(t, f.receive(t))

	if f.model.page != pageDirectory {
		t.Fatalf("page = %v, want directory", f.model.page)
	}
	if f.model.create.screen != nil {
		t.Error("creation screen not released")
	}
	v := f.model.directory.screen.View()
	if v.Total != 3 || v.Employees[0].FullName != "Cleo Park" {
		t.Errorf("directory = %+v, want Cleo Park first of 3", v.Employees)
	}
}

func TestModel_CreateShowsValidationError(t *testing.T) {
	f := newFixture(t)
	f.press(t, runes("n"))
	f.update(t, f.receive(t))

	f.press(t, enter)
	view := f.model.View()
	if !strings.Contains(view, "employee_id is required") {
		t.Fatalf("expected validation message:\n%s", view)
	}
	if f.model.page != pageCreate {
		t.Error("form closed on validation failure")
	}
}

func TestModel_CreateDuplicateShowsStoreMessage(t *testing.T) {
	f := newFixture(t)
	f.press(t, runes("n"))
	f.update(t, f.receive(t))

	f.press(t,
		runes("EMP-1"), tab,
		runes("Someone Else"), tab,
		runes("someone@example.com"), tab,
		right,
		enter,
	)
	v := f.model.create.screen.View()
	if v.Success || v.Error == "" {
		t.Fatalf("expected a conflict error, got %+v", v)
	}
	if got := f.model.create.inputs[fieldEmployeeID].Value(); got != "EMP-1" {
		t.Errorf("form was cleared: employee id = %q", got)
	}

	f.press(t, esc)
	if f.model.page != pageDirectory || f.model.directory.screen.View().Total != 2 {
		t.Error("esc should return to an unchanged directory")
	}
}

func TestModel_MarkAttendance(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("a"))
	if f.model.page != pageAttendance {
		t.Fatalf("page = %v, want attendance", f.model.page)
	}
	view := f.model.View()
	if !strings.Contains(view, "Mark daily attendance for 2026-10-16") || !strings.Contains(view, "Not Marked") {
		t.Fatalf("unexpected attendance view:\n%s", view)
	}

	f.press(t, runes("p"))
	rec, ok := f.model.attendance.board.Record(f.ada.ID)
	if !ok || rec.Status != domain.StatusPresent {
		t.Fatalf("record = %+v, %v", rec, ok)
	}

	f.press(t, down, runes("a"))
	rec, ok = f.model.attendance.board.Record(f.ben.ID)
	if !ok || rec.Status != domain.StatusAbsent {
		t.Fatalf("record = %+v, %v", rec, ok)
	}

	// Marked rows offer no actions.
	f.press(t, runes("p"))
	if rec, _ := f.model.attendance.board.Record(f.ben.ID); rec.Status != domain.StatusAbsent {
		t.Error("marked row changed status")
	}
	if f.model.attendance.alert != "" {
		t.Errorf("unexpected alert %q", f.model.attendance.alert)
	}
}

func TestModel_MarkConflictShowsAlert(t *testing.T) {
	f := newFixture(t)
	f.press(t, runes("a"))

	// Another client marks Ada after the board loaded.
	_, err := f.store.Attendance().Insert(context.Background(), domain.NewAttendance{
		EmployeeID: f.ada.ID, Date: "2026-10-16", Status: domain.StatusPresent,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	f.press(t, runes("a"))
	if f.model.attendance.alert != service.MarkFailedMessage {
		t.Fatalf("alert = %q", f.model.attendance.alert)
	}
	if !strings.Contains(f.model.View(), service.MarkFailedMessage) {
		t.Error("alert not rendered")
	}
	if _, ok := f.model.attendance.board.Record(f.ada.ID); ok {
		t.Error("failed mark changed local state")
	}

	// The alert swallows keys until dismissed.
	f.press(t, esc)
	if f.model.page != pageAttendance || f.model.attendance.alert != "" {
		t.Fatal("esc should only dismiss the alert")
	}
}

func TestModel_AttendanceHistory(t *testing.T) {
	f := newFixture(t)
	f.press(t, runes("a"), runes("p"), runes("h"))

	h := f.model.attendance.history
	if h == nil || h.loading || len(h.records) != 1 {
		t.Fatalf("history = %+v", h)
	}
	if !strings.Contains(f.model.View(), "History: Ada Lovelace") {
		t.Errorf("history not rendered:\n%s", f.model.View())
	}

	f.press(t, runes("h"))
	if f.model.attendance.history != nil {
		t.Error("h should close the history panel")
	}
}

func TestModel_LeavingAttendanceClosesBoard(t *testing.T) {
	f := newFixture(t)
	f.press(t, runes("a"))
	board := f.model.attendance.board

	f.press(t, esc)
	if f.model.page != pageDirectory || f.model.attendance.board != nil {
		t.Fatal("expected to return to the directory")
	}
	if err := board.Mark(context.Background(), f.ada.ID, domain.StatusPresent); err == nil {
		t.Error("closed board accepted a mark")
	}
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.model.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
