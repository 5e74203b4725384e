package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

func newStore() (*Store, *clock.FakeClock) {
	clk := clock.Fake(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	return New(clk), clk
}

func mustInsertEmployee(t *testing.T, s *Store, id, email string) *domain.Employee {
	t.Helper()
	e, err := s.Employees().Insert(context.Background(), domain.NewEmployee{
		EmployeeID: id, FullName: "Name " + id, Email: email, Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
	return e
}

func TestEmployees_InsertAssignsKeyAndTimestamp(t *testing.T) {
	s, _ := newStore()
	e := mustInsertEmployee(t, s, "EMP-1", "a@x.io")

	if e.ID != "1" {
		t.Errorf("expected key 1, got %q", e.ID)
	}
	if !e.CreatedAt.Equal(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created_at %v", e.CreatedAt)
	}
}

func TestEmployees_UniqueConstraints(t *testing.T) {
	s, _ := newStore()
	mustInsertEmployee(t, s, "EMP-1", "a@x.io")

	tests := []struct {
		name string
		in   domain.NewEmployee
	}{
		{"same business id", domain.NewEmployee{EmployeeID: "EMP-1", FullName: "B", Email: "b@x.io", Department: "HR"}},
		{"same email", domain.NewEmployee{EmployeeID: "EMP-2", FullName: "B", Email: "a@x.io", Department: "HR"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Employees().Insert(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("expected conflict, got %v", err)
			}
			if domain.MessageOf(err, "") == "" {
				t.Error("conflict should carry the store message")
			}
		})
	}

	all, _ := s.Employees().List(context.Background(), ports.Query{})
	if len(all) != 1 {
		t.Errorf("conflicts must not add records, have %d", len(all))
	}
}

func TestEmployees_ListOrderedNewestFirst(t *testing.T) {
	s, clk := newStore()
	mustInsertEmployee(t, s, "EMP-1", "a@x.io")
	clk.Advance(time.Minute)
	mustInsertEmployee(t, s, "EMP-2", "b@x.io")
	// Same timestamp as EMP-2: later insert still sorts first.
	mustInsertEmployee(t, s, "EMP-3", "c@x.io")

	got, err := s.Employees().List(context.Background(), ports.Query{}.OrderBy(ports.FieldCreatedAt, true))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"EMP-3", "EMP-2", "EMP-1"}
	for i, e := range got {
		if e.EmployeeID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], e.EmployeeID)
		}
	}
}

func TestList_UnknownColumn(t *testing.T) {
	s, _ := newStore()
	_, err := s.Employees().List(context.Background(), ports.Query{}.Eq("salary", "1"))
	var se *domain.StoreError
	if !errors.As(err, &se) || se.Code != codeUndefinedColumn {
		t.Fatalf("expected undefined column error, got %v", err)
	}
}

func TestAttendance_OnePerEmployeePerDay(t *testing.T) {
	s, _ := newStore()
	e := mustInsertEmployee(t, s, "EMP-1", "a@x.io")
	ctx := context.Background()

	first, err := s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: e.ID, Date: "2026-10-16", Status: domain.StatusPresent})
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}

	_, err = s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: e.ID, Date: "2026-10-16", Status: domain.StatusAbsent})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	today, _ := s.Attendance().List(ctx, ports.Query{}.Eq(ports.FieldDate, "2026-10-16"))
	if len(today) != 1 || today[0].ID != first.ID || today[0].Status != domain.StatusPresent {
		t.Errorf("duplicate must not overwrite: %+v", today)
	}

	if _, err := s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: e.ID, Date: "2026-10-17", Status: domain.StatusAbsent}); err != nil {
		t.Errorf("next day should be accepted: %v", err)
	}
}

func TestAttendance_InsertRejections(t *testing.T) {
	s, _ := newStore()
	e := mustInsertEmployee(t, s, "EMP-1", "a@x.io")
	ctx := context.Background()

	_, err := s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: e.ID, Date: "2026-10-16", Status: "Late"})
	if !errors.Is(err, domain.ErrStoreFailure) {
		t.Errorf("expected check violation, got %v", err)
	}

	_, err = s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: "99", Date: "2026-10-16", Status: domain.StatusPresent})
	var se *domain.StoreError
	if !errors.As(err, &se) || se.Code != codeForeignKeyViolation {
		t.Errorf("expected foreign key violation, got %v", err)
	}
}

func TestAttendance_HistoryByEmployee(t *testing.T) {
	s, _ := newStore()
	a := mustInsertEmployee(t, s, "EMP-1", "a@x.io")
	b := mustInsertEmployee(t, s, "EMP-2", "b@x.io")
	ctx := context.Background()

	for _, in := range []domain.NewAttendance{
		{EmployeeID: a.ID, Date: "2026-10-14", Status: domain.StatusPresent},
		{EmployeeID: a.ID, Date: "2026-10-16", Status: domain.StatusAbsent},
		{EmployeeID: b.ID, Date: "2026-10-16", Status: domain.StatusPresent},
		{EmployeeID: a.ID, Date: "2026-10-15", Status: domain.StatusPresent},
	} {
		if _, err := s.Attendance().Insert(ctx, in); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.Attendance().List(ctx, ports.Query{}.Eq(ports.FieldEmployeeID, string(a.ID)).OrderBy(ports.FieldDate, true))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2026-10-16", "2026-10-15", "2026-10-14"}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Date != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i].Date)
		}
	}
}

func TestStore_Closed(t *testing.T) {
	s, _ := newStore()
	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	_ = s.Close(ctx)
	if err := s.Ping(ctx); err == nil {
		t.Error("ping should fail after close")
	}
	if _, err := s.Employees().List(ctx, ports.Query{}); err == nil {
		t.Error("list should fail after close")
	}
}
