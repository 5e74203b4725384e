package rest

import (
	"context"
	"fmt"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

// EmployeeRepository implements ports.EmployeeRepository over the records API.
type EmployeeRepository struct {
	c *Client
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) List(ctx context.Context, q ports.Query) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if err := r.c.list(ctx, ports.CollectionEmployees, q, &employees); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, nil
}

func (r *EmployeeRepository) Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	var e domain.Employee
	if err := r.c.insert(ctx, ports.CollectionEmployees, in, &e); err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return &e, nil
}

// AttendanceRepository implements ports.AttendanceRepository over the records API.
type AttendanceRepository struct {
	c *Client
}

var _ ports.AttendanceRepository = (*AttendanceRepository)(nil)

func (r *AttendanceRepository) List(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error) {
	records := []domain.AttendanceRecord{}
	if err := r.c.list(ctx, ports.CollectionAttendance, q, &records); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return records, nil
}

func (r *AttendanceRepository) Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	if err := r.c.insert(ctx, ports.CollectionAttendance, in, &rec); err != nil {
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	return &rec, nil
}
