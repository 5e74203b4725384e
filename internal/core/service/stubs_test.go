package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Stub repositories
// ---------------------------------------------------------------------------

type stubEmployeeRepo struct {
	mu        sync.Mutex
	listFn    func(ctx context.Context, q ports.Query) ([]domain.Employee, error)
	insertFn  func(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error)
	lastQuery ports.Query
	inserts   []domain.NewEmployee
}

func (r *stubEmployeeRepo) List(ctx context.Context, q ports.Query) ([]domain.Employee, error) {
	r.mu.Lock()
	r.lastQuery = q
	fn := r.listFn
	r.mu.Unlock()
	if fn == nil {
		return []domain.Employee{}, nil
	}
	return fn(ctx, q)
}

func (r *stubEmployeeRepo) Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	r.mu.Lock()
	r.inserts = append(r.inserts, in)
	fn := r.insertFn
	r.mu.Unlock()
	if fn == nil {
		return &domain.Employee{ID: "1", EmployeeID: in.EmployeeID, FullName: in.FullName, Email: in.Email, Department: in.Department}, nil
	}
	return fn(ctx, in)
}

func (r *stubEmployeeRepo) insertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserts)
}

type stubAttendanceRepo struct {
	mu        sync.Mutex
	listFn    func(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error)
	insertFn  func(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error)
	lastQuery ports.Query
	inserts   []domain.NewAttendance
}

func (r *stubAttendanceRepo) List(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error) {
	r.mu.Lock()
	r.lastQuery = q
	fn := r.listFn
	r.mu.Unlock()
	if fn == nil {
		return []domain.AttendanceRecord{}, nil
	}
	return fn(ctx, q)
}

func (r *stubAttendanceRepo) Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error) {
	r.mu.Lock()
	r.inserts = append(r.inserts, in)
	fn := r.insertFn
	r.mu.Unlock()
	if fn == nil {
		return &domain.AttendanceRecord{EmployeeID: in.EmployeeID, Date: in.Date, Status: in.Status}, nil
	}
	return fn(ctx, in)
}

func (r *stubAttendanceRepo) insertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserts)
}

type stubMarkLock struct {
	mu       sync.Mutex
	held     map[string]bool
	tryErr   error
	unlocked []string
}

func (l *stubMarkLock) TryLock(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tryErr != nil {
		return false, l.tryErr
	}
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *stubMarkLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.unlocked = append(l.unlocked, key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func employee(id, businessID, name, dept string) domain.Employee {
	return domain.Employee{
		ID:         domain.Key(id),
		EmployeeID: businessID,
		FullName:   name,
		Email:      businessID + "@example.com",
		Department: dept,
	}
}

func conflictErr(msg string) error {
	return &domain.StoreError{Kind: domain.ErrConflict, Status: 409, Message: msg}
}
