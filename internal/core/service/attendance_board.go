package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

// MarkFailedMessage is the alert shown when a mark is rejected.
const MarkFailedMessage = "Failed to mark attendance. It might already be marked for today."

// RowState is the per-employee display state of the attendance screen.
type RowState int

const (
	RowUnmarked RowState = iota
	RowMarking
	RowMarked
)

func (s RowState) String() string {
	switch s {
	case RowUnmarked:
		return "unmarked"
	case RowMarking:
		return "marking"
	case RowMarked:
		return "marked"
	default:
		return "unknown"
	}
}

// AttendanceRow is one employee line. Record is set only when State is
// RowMarked; mark actions are offered only when State is RowUnmarked.
type AttendanceRow struct {
	Employee domain.Employee
	State    RowState
	Record   *domain.AttendanceRecord
}

// CanMark reports whether the row still offers the Present/Absent actions.
func (r AttendanceRow) CanMark() bool { return r.State == RowUnmarked }

// AttendanceView is a snapshot of the attendance screen.
type AttendanceView struct {
	Date          string
	Loading       bool
	Rows          []AttendanceRow
	EmployeesErr  error
	AttendanceErr error
}

// AttendanceBoard is the daily attendance screen. The reference date is
// pinned when the board is built and is not re-evaluated afterwards.
type AttendanceBoard struct {
	employees  ports.EmployeeRepository
	attendance ports.AttendanceRepository
	lock       ports.MarkLock
	log        zerolog.Logger
	today      string

	mu            sync.Mutex
	gen           generation
	roster        []domain.Employee
	records       map[domain.Key]domain.AttendanceRecord
	marking       map[domain.Key]struct{}
	loading       bool
	employeesErr  error
	attendanceErr error
}

// NewAttendanceBoard pins today's date from clk in loc. lock may be nil, in
// which case marks are only guarded within this process.
func NewAttendanceBoard(
	employees ports.EmployeeRepository,
	attendance ports.AttendanceRepository,
	lock ports.MarkLock,
	clk clock.Clock,
	loc *time.Location,
	log zerolog.Logger,
) *AttendanceBoard {
	today := domain.DateOf(clk.Now(), loc)
	return &AttendanceBoard{
		employees:  employees,
		attendance: attendance,
		lock:       lock,
		log:        log.With().Str("screen", "attendance").Str("date", today).Logger(),
		today:      today,
		roster:     []domain.Employee{},
		records:    make(map[domain.Key]domain.AttendanceRecord),
		marking:    make(map[domain.Key]struct{}),
		loading:    true,
	}
}

// Today returns the pinned reference date.
func (b *AttendanceBoard) Today() string { return b.today }

// Init fetches the roster and today's attendance concurrently and waits for
// both. Each failure leaves only its own half empty.
func (b *AttendanceBoard) Init(ctx context.Context) {
	b.mu.Lock()
	if b.gen.closed {
		b.mu.Unlock()
		return
	}
	token := b.gen.advance()
	b.loading = true
	b.mu.Unlock()

	var (
		roster        []domain.Employee
		records       []domain.AttendanceRecord
		employeesErr  error
		attendanceErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		roster, employeesErr = b.employees.List(ctx, ports.Query{})
		return employeesErr
	})
	g.Go(func() error {
		records, attendanceErr = b.attendance.List(ctx, ports.Query{}.Eq(ports.FieldDate, b.today))
		return attendanceErr
	})
	if err := g.Wait(); err != nil {
		b.log.Warn().Err(err).
			Bool("employees_failed", employeesErr != nil).
			Bool("attendance_failed", attendanceErr != nil).
			Msg("attendance screen init incomplete")
	}

	byEmployee := make(map[domain.Key]domain.AttendanceRecord, len(records))
	if attendanceErr == nil {
		for _, rec := range records {
			byEmployee[rec.EmployeeID] = rec
		}
	}
	if employeesErr != nil || roster == nil {
		roster = []domain.Employee{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.gen.valid(token) {
		b.log.Debug().Msg("discarding stale init result")
		return
	}
	// Records only ever accumulate, so marks that landed while the fetch
	// was in flight are kept.
	for key, rec := range b.records {
		if _, ok := byEmployee[key]; !ok {
			byEmployee[key] = rec
		}
	}
	b.roster = roster
	b.records = byEmployee
	b.employeesErr = employeesErr
	b.attendanceErr = attendanceErr
	b.loading = false
}

// Mark records status for the employee identified by key on the pinned date.
// It refuses employees already marked today and a second concurrent mark for
// the same employee. A store rejection leaves local state unchanged and
// returns an error wrapping domain.ErrMarkFailed.
func (b *AttendanceBoard) Mark(ctx context.Context, key domain.Key, status domain.AttendanceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	b.mu.Lock()
	if b.gen.closed {
		b.mu.Unlock()
		return domain.ErrScreenClosed
	}
	if _, ok := b.records[key]; ok {
		b.mu.Unlock()
		return domain.ErrAlreadyMarked
	}
	if _, ok := b.marking[key]; ok {
		b.mu.Unlock()
		return domain.ErrMarkInFlight
	}
	b.marking[key] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.marking, key)
		b.mu.Unlock()
	}()

	if b.lock != nil {
		lockKey := markLockKey(key, b.today)
		ok, err := b.lock.TryLock(ctx, lockKey)
		switch {
		case err != nil:
			b.log.Warn().Err(err).Str("employee", string(key)).Msg("mark lock unavailable, marking anyway")
		case !ok:
			return domain.ErrMarkInFlight
		default:
			defer func() {
				if err := b.lock.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
					b.log.Warn().Err(err).Str("employee", string(key)).Msg("failed to release mark lock")
				}
			}()
		}
	}

	rec, err := b.attendance.Insert(ctx, domain.NewAttendance{
		EmployeeID: key,
		Date:       b.today,
		Status:     status,
	})
	if err == nil && rec == nil {
		err = &domain.StoreError{Kind: domain.ErrStoreFailure}
	}
	if err != nil {
		b.log.Warn().Err(err).Str("employee", string(key)).Str("status", string(status)).Msg("mark attendance failed")
		return fmt.Errorf("%w: %w", domain.ErrMarkFailed, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// A re-run Init advances the load epoch but keeps accepted marks; only
	// Close drops them.
	if b.gen.closed {
		b.log.Debug().Str("employee", string(key)).Msg("discarding mark result after close")
		return domain.ErrScreenClosed
	}
	b.records[key] = *rec
	b.log.Info().Str("employee", string(key)).Str("status", string(rec.Status)).Msg("attendance marked")
	return nil
}

// Record returns today's record for key, if any.
func (b *AttendanceBoard) Record(key domain.Key) (domain.AttendanceRecord, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.records[key]
	return rec, ok
}

// Rows returns one row per employee in roster order.
func (b *AttendanceBoard) Rows() []AttendanceRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rowsLocked()
}

func (b *AttendanceBoard) rowsLocked() []AttendanceRow {
	rows := make([]AttendanceRow, 0, len(b.roster))
	for _, e := range b.roster {
		row := AttendanceRow{Employee: e, State: RowUnmarked}
		if rec, ok := b.records[e.ID]; ok {
			row.State = RowMarked
			row.Record = &rec
		} else if _, ok := b.marking[e.ID]; ok {
			row.State = RowMarking
		}
		rows = append(rows, row)
	}
	return rows
}

// View returns a snapshot of the screen state.
func (b *AttendanceBoard) View() AttendanceView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return AttendanceView{
		Date:          b.today,
		Loading:       b.loading,
		Rows:          b.rowsLocked(),
		EmployeesErr:  b.employeesErr,
		AttendanceErr: b.attendanceErr,
	}
}

// History lists every attendance record of one employee, newest day first.
func (b *AttendanceBoard) History(ctx context.Context, key domain.Key) ([]domain.AttendanceRecord, error) {
	if key == "" {
		return nil, domain.ErrUnknownEmployee
	}
	q := ports.Query{}.Eq(ports.FieldEmployeeID, string(key)).OrderBy(ports.FieldDate, true)
	records, err := b.attendance.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("attendance history: %w", err)
	}
	return records, nil
}

// Close detaches the screen; late fetch and mark results are dropped.
func (b *AttendanceBoard) Close() {
	b.mu.Lock()
	b.gen.close()
	b.mu.Unlock()
}

func markLockKey(key domain.Key, date string) string {
	return fmt.Sprintf("attendance:mark:%s:%s", key, date)
}
