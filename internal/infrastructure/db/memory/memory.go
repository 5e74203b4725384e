// Package memory is an in-process implementation of the record store. It
// enforces the same uniqueness rules as the hosted store and is used for
// demo mode and tests.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

// Postgres error codes reported for constraint violations, so screens see
// the same text whichever store is configured.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeUndefinedColumn     = "42703"
)

// Store holds both collections behind one lock.
type Store struct {
	clk clock.Clock

	mu         sync.RWMutex
	nextID     int64
	employees  []domain.Employee
	attendance []domain.AttendanceRecord
	closed     bool
}

var _ ports.Store = (*Store)(nil)

// New returns an empty store stamping created_at from clk.
func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{clk: clk}
}

func (s *Store) Employees() ports.EmployeeRepository    { return employeeRepo{s} }
func (s *Store) Attendance() ports.AttendanceRepository { return attendanceRepo{s} }

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return failure(http.StatusServiceUnavailable, "", "store closed")
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Store) key() domain.Key {
	s.nextID++
	return domain.Key(strconv.FormatInt(s.nextID, 10))
}

type employeeRepo struct{ s *Store }

func (r employeeRepo) List(ctx context.Context, q ports.Query) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.closed {
		return nil, failure(http.StatusServiceUnavailable, "", "store closed")
	}
	return selectRows(ports.CollectionEmployees, r.s.employees, q, employeeField)
}

func (r employeeRepo) Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.closed {
		return nil, failure(http.StatusServiceUnavailable, "", "store closed")
	}

	for _, e := range r.s.employees {
		if e.EmployeeID == in.EmployeeID {
			return nil, conflict("employees_employee_id_key")
		}
		if e.Email == in.Email {
			return nil, conflict("employees_email_key")
		}
	}

	e := domain.Employee{
		ID:         r.s.key(),
		EmployeeID: in.EmployeeID,
		FullName:   in.FullName,
		Email:      in.Email,
		Department: in.Department,
		CreatedAt:  r.s.clk.Now().UTC(),
	}
	r.s.employees = append(r.s.employees, e)
	return &e, nil
}

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) List(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.closed {
		return nil, failure(http.StatusServiceUnavailable, "", "store closed")
	}
	return selectRows(ports.CollectionAttendance, r.s.attendance, q, attendanceField)
}

func (r attendanceRepo) Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.closed {
		return nil, failure(http.StatusServiceUnavailable, "", "store closed")
	}

	if !in.Status.Valid() {
		return nil, failure(http.StatusBadRequest, codeCheckViolation,
			`new row for relation "attendance" violates check constraint "attendance_status_check"`)
	}
	known := false
	for _, e := range r.s.employees {
		if e.ID == in.EmployeeID {
			known = true
			break
		}
	}
	if !known {
		return nil, failure(http.StatusConflict, codeForeignKeyViolation,
			`insert or update on table "attendance" violates foreign key constraint "attendance_employee_id_fkey"`)
	}
	for _, a := range r.s.attendance {
		if a.EmployeeID == in.EmployeeID && a.Date == in.Date {
			return nil, conflict("attendance_employee_id_date_key")
		}
	}

	rec := domain.AttendanceRecord{
		ID:         r.s.key(),
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		Status:     in.Status,
		CreatedAt:  r.s.clk.Now().UTC(),
	}
	r.s.attendance = append(r.s.attendance, rec)
	return &rec, nil
}

func employeeField(e domain.Employee, field string) (string, bool) {
	switch field {
	case "id":
		return string(e.ID), true
	case ports.FieldEmployeeID:
		return e.EmployeeID, true
	case "full_name":
		return e.FullName, true
	case "email":
		return e.Email, true
	case "department":
		return e.Department, true
	case ports.FieldCreatedAt:
		return e.CreatedAt.Format(timeSortLayout), true
	}
	return "", false
}

func attendanceField(a domain.AttendanceRecord, field string) (string, bool) {
	switch field {
	case "id":
		return string(a.ID), true
	case ports.FieldEmployeeID:
		return string(a.EmployeeID), true
	case ports.FieldDate:
		return a.Date, true
	case "status":
		return string(a.Status), true
	case ports.FieldCreatedAt:
		return a.CreatedAt.Format(timeSortLayout), true
	}
	return "", false
}

// timeSortLayout is fixed width so string comparison orders chronologically.
const timeSortLayout = "2006-01-02T15:04:05.000000000Z07:00"

// selectRows applies q to rows. Rows are stored in insertion order, so the
// sort is stable on insertion order for equal keys; descending order also
// reverses that tie-break, newest insert first.
func selectRows[T any](collection string, rows []T, q ports.Query, field func(T, string) (string, bool)) ([]T, error) {
	for _, f := range q.Filters {
		if _, ok := field(*new(T), f.Field); !ok {
			return nil, undefinedColumn(collection, f.Field)
		}
	}
	if q.Order != nil {
		if _, ok := field(*new(T), q.Order.Field); !ok {
			return nil, undefinedColumn(collection, q.Order.Field)
		}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		match := true
		for _, f := range q.Filters {
			if v, _ := field(row, f.Field); v != f.Value {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}

	if o := q.Order; o != nil {
		if o.Descending {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := field(out[i], o.Field)
			b, _ := field(out[j], o.Field)
			if o.Descending {
				return a > b
			}
			return a < b
		})
	}
	return out, nil
}

func conflict(constraint string) error {
	return failure(http.StatusConflict, codeUniqueViolation,
		fmt.Sprintf("duplicate key value violates unique constraint %q", constraint))
}

func undefinedColumn(collection, field string) error {
	return failure(http.StatusBadRequest, codeUndefinedColumn,
		fmt.Sprintf("column %s.%s does not exist", collection, field))
}

func failure(status int, code, msg string) error {
	kind := domain.ErrStoreFailure
	if status == http.StatusConflict || code == codeUniqueViolation {
		kind = domain.ErrConflict
	}
	return &domain.StoreError{Kind: kind, Status: status, Code: code, Message: msg}
}
