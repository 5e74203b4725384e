package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

// Store decorates a ports.Store with request counters and latency histograms.
type Store struct {
	next       ports.Store
	employees  employees
	attendance attendance
}

var _ ports.Store = (*Store)(nil)

func InstrumentStore(next ports.Store) *Store {
	return &Store{
		next:       next,
		employees:  employees{next: next.Employees()},
		attendance: attendance{next: next.Attendance()},
	}
}

func (s *Store) Employees() ports.EmployeeRepository    { return s.employees }
func (s *Store) Attendance() ports.AttendanceRepository { return s.attendance }
func (s *Store) Ping(ctx context.Context) error         { return s.next.Ping(ctx) }
func (s *Store) Close(ctx context.Context) error        { return s.next.Close(ctx) }

type employees struct{ next ports.EmployeeRepository }

func (r employees) List(ctx context.Context, q ports.Query) ([]domain.Employee, error) {
	defer observe(ports.CollectionEmployees, "list", time.Now())
	out, err := r.next.List(ctx, q)
	count(ports.CollectionEmployees, "list", err)
	return out, err
}

func (r employees) Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	defer observe(ports.CollectionEmployees, "insert", time.Now())
	e, err := r.next.Insert(ctx, in)
	count(ports.CollectionEmployees, "insert", err)
	if err == nil {
		EmployeesCreatedTotal.WithLabelValues(in.Department).Inc()
	}
	return e, err
}

type attendance struct{ next ports.AttendanceRepository }

func (r attendance) List(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error) {
	defer observe(ports.CollectionAttendance, "list", time.Now())
	out, err := r.next.List(ctx, q)
	count(ports.CollectionAttendance, "list", err)
	return out, err
}

func (r attendance) Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error) {
	defer observe(ports.CollectionAttendance, "insert", time.Now())
	rec, err := r.next.Insert(ctx, in)
	count(ports.CollectionAttendance, "insert", err)
	if err == nil {
		AttendanceMarkedTotal.WithLabelValues(string(in.Status)).Inc()
	}
	return rec, err
}

func observe(collection, op string, start time.Time) {
	StoreRequestDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

func count(collection, op string, err error) {
	StoreRequestsTotal.WithLabelValues(collection, op, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// MarkLock decorates a ports.MarkLock with MarkLockTotal.
type MarkLock struct {
	next ports.MarkLock
}

var _ ports.MarkLock = (*MarkLock)(nil)

func InstrumentMarkLock(next ports.MarkLock) *MarkLock {
	return &MarkLock{next: next}
}

func (l *MarkLock) TryLock(ctx context.Context, key string) (bool, error) {
	ok, err := l.next.TryLock(ctx, key)
	switch {
	case err != nil:
		MarkLockTotal.WithLabelValues("error").Inc()
	case ok:
		MarkLockTotal.WithLabelValues("acquired").Inc()
	default:
		MarkLockTotal.WithLabelValues("held").Inc()
	}
	return ok, err
}

func (l *MarkLock) Unlock(ctx context.Context, key string) error {
	return l.next.Unlock(ctx, key)
}
