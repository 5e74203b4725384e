package ports

import (
	"context"

	"github.com/hrmslite/hrms/internal/core/domain"
)

// Collection names and the fields screens filter or order on.
const (
	CollectionEmployees  = "employees"
	CollectionAttendance = "attendance"

	FieldCreatedAt  = "created_at"
	FieldDate       = "date"
	FieldEmployeeID = "employee_id"
)

// Filter is an equality match on a named field.
type Filter struct {
	Field string
	Value string
}

// Order sorts a listing by a single field.
type Order struct {
	Field      string
	Descending bool
}

// Query narrows a List call. The zero value lists everything in store order.
type Query struct {
	Filters []Filter
	Order   *Order
}

// Eq returns a copy of q with an extra equality filter.
func (q Query) Eq(field, value string) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// OrderBy returns a copy of q ordered by field.
func (q Query) OrderBy(field string, descending bool) Query {
	q.Order = &Order{Field: field, Descending: descending}
	return q
}

// EmployeeRepository reads and writes the employees collection.
type EmployeeRepository interface {
	List(ctx context.Context, q Query) ([]domain.Employee, error)
	// Insert creates a record and returns it as stored. Duplicate business
	// identifiers or emails fail with an error wrapping domain.ErrConflict.
	Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error)
}

// AttendanceRepository reads and writes the attendance collection.
type AttendanceRepository interface {
	List(ctx context.Context, q Query) ([]domain.AttendanceRecord, error)
	// Insert creates a record and returns it as stored. A second record for
	// the same (employee, date) fails with an error wrapping domain.ErrConflict.
	Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error)
}

// Store bundles both collections behind one connection.
type Store interface {
	Employees() EmployeeRepository
	Attendance() AttendanceRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
