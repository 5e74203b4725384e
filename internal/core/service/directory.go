package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

// LoadState distinguishes an empty directory from one that failed to load.
type LoadState int

const (
	LoadLoading LoadState = iota
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DirectoryView is a consistent snapshot of the directory screen.
type DirectoryView struct {
	State      LoadState
	Employees  []domain.Employee // filtered by SearchTerm
	Total      int               // before filtering
	SearchTerm string
	Err        error // last load failure, nil unless State == LoadFailed
}

// Loading reports whether a fetch is outstanding.
func (v DirectoryView) Loading() bool { return v.State == LoadLoading }

// Directory is the employee list screen: newest employees first, filtered
// locally by a search term.
type Directory struct {
	repo  ports.EmployeeRepository
	onAdd func()
	log   zerolog.Logger

	mu        sync.Mutex
	gen       generation
	employees []domain.Employee
	state     LoadState
	loadErr   error
	search    string
}

// NewDirectory returns a directory in the loading state. onAdd is invoked by
// RequestCreate and may be nil.
func NewDirectory(repo ports.EmployeeRepository, onAdd func(), log zerolog.Logger) *Directory {
	return &Directory{
		repo:      repo,
		onAdd:     onAdd,
		log:       log.With().Str("screen", "directory").Logger(),
		employees: []domain.Employee{},
		state:     LoadLoading,
	}
}

// Load fetches every employee, newest first. A failed fetch leaves the
// directory empty in the LoadFailed state; there is no retry.
func (d *Directory) Load(ctx context.Context) {
	d.mu.Lock()
	if d.gen.closed {
		d.mu.Unlock()
		return
	}
	token := d.gen.advance()
	d.state = LoadLoading
	d.loadErr = nil
	d.mu.Unlock()

	employees, err := d.repo.List(ctx, ports.Query{}.OrderBy(ports.FieldCreatedAt, true))

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.gen.valid(token) {
		d.log.Debug().Msg("discarding stale employee list")
		return
	}
	if err != nil {
		d.log.Warn().Err(err).Msg("employee list failed")
		d.employees = []domain.Employee{}
		d.state = LoadFailed
		d.loadErr = err
		return
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	d.employees = employees
	d.state = LoadLoaded
	d.log.Debug().Int("count", len(employees)).Msg("employee list loaded")
}

// SetSearch replaces the search term.
func (d *Directory) SetSearch(term string) {
	d.mu.Lock()
	d.search = term
	d.mu.Unlock()
}

// Filtered returns the employees matching the current search term.
func (d *Directory) Filtered() []domain.Employee {
	d.mu.Lock()
	defer d.mu.Unlock()
	return FilterEmployees(d.employees, d.search)
}

// View returns a snapshot of the screen state.
func (d *Directory) View() DirectoryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DirectoryView{
		State:      d.state,
		Employees:  FilterEmployees(d.employees, d.search),
		Total:      len(d.employees),
		SearchTerm: d.search,
		Err:        d.loadErr,
	}
}

// Apply merges a record returned by a successful insert. An employee already
// present is replaced in place; a new one goes to the head of the list.
func (d *Directory) Apply(e domain.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen.closed {
		return
	}
	for i := range d.employees {
		if d.employees[i].ID == e.ID {
			d.employees[i] = e
			return
		}
	}
	merged := make([]domain.Employee, 0, len(d.employees)+1)
	merged = append(merged, e)
	d.employees = append(merged, d.employees...)
}

// RequestCreate asks the caller to open the creation screen.
func (d *Directory) RequestCreate() {
	if d.onAdd != nil {
		d.onAdd()
	}
}

// Close detaches the screen; results of outstanding loads are dropped.
func (d *Directory) Close() {
	d.mu.Lock()
	d.gen.close()
	d.mu.Unlock()
}
