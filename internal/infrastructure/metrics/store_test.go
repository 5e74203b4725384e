package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/infrastructure/db/memory"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

func TestInstrumentStore_CountsResults(t *testing.T) {
	s := InstrumentStore(memory.New(clock.Fake(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	ok := StoreRequestsTotal.WithLabelValues("employees", "insert", "ok")
	conflict := StoreRequestsTotal.WithLabelValues("employees", "insert", "conflict")
	created := EmployeesCreatedTotal.WithLabelValues("Design")
	okBefore, conflictBefore, createdBefore := testutil.ToFloat64(ok), testutil.ToFloat64(conflict), testutil.ToFloat64(created)

	in := domain.NewEmployee{EmployeeID: "EMP-M1", FullName: "M", Email: "m1@x.io", Department: "Design"}
	e, err := s.Employees().Insert(ctx, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Employees().Insert(ctx, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("ok inserts: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(conflict) - conflictBefore; got != 1 {
		t.Errorf("conflicts: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(created) - createdBefore; got != 1 {
		t.Errorf("created: expected 1, got %v", got)
	}

	marked := AttendanceMarkedTotal.WithLabelValues("Absent")
	markedBefore := testutil.ToFloat64(marked)
	if _, err := s.Attendance().Insert(ctx, domain.NewAttendance{EmployeeID: e.ID, Date: "2026-10-16", Status: domain.StatusAbsent}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if got := testutil.ToFloat64(marked) - markedBefore; got != 1 {
		t.Errorf("marked: expected 1, got %v", got)
	}

	list := StoreRequestsTotal.WithLabelValues("attendance", "list", "ok")
	listBefore := testutil.ToFloat64(list)
	if _, err := s.Attendance().List(ctx, ports.Query{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := testutil.ToFloat64(list) - listBefore; got != 1 {
		t.Errorf("list: expected 1, got %v", got)
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&domain.StoreError{Kind: domain.ErrConflict}, "conflict"},
		{&domain.StoreError{Kind: domain.ErrUnauthorized}, "unauthorized"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range tests {
		if got := result(tc.err); got != tc.want {
			t.Errorf("result(%v): expected %s, got %s", tc.err, tc.want, got)
		}
	}
}

type fixedLock struct {
	ok  bool
	err error
}

func (l fixedLock) TryLock(context.Context, string) (bool, error) { return l.ok, l.err }
func (l fixedLock) Unlock(context.Context, string) error          { return nil }

func TestInstrumentMarkLock(t *testing.T) {
	for _, tc := range []struct {
		lock  fixedLock
		label string
	}{
		{fixedLock{ok: true}, "acquired"},
		{fixedLock{ok: false}, "held"},
		{fixedLock{err: errors.New("down")}, "error"},
	} {
		c := MarkLockTotal.WithLabelValues(tc.label)
		before := testutil.ToFloat64(c)
		_, _ = InstrumentMarkLock(tc.lock).TryLock(context.Background(), "k")
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("%s: expected 1, got %v", tc.label, got)
		}
	}
}
