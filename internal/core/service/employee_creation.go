package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

// SuccessDisplayDelay is how long the success state stays on screen before
// the done callback runs.
const SuccessDisplayDelay = 1500 * time.Millisecond

// CreateFailedMessage is shown when the store reports a failure without a
// message of its own.
const CreateFailedMessage = "Failed to create employee. Possibly duplicate ID or Email."

// EmployeeForm holds the creation form fields. Only presence and shape are
// checked locally; uniqueness is the store's job.
type EmployeeForm struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	FullName   string `json:"full_name"   validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
	Department string `json:"department"  validate:"required,oneof=Engineering Product Design Marketing HR"`
}

func (f EmployeeForm) toNew() domain.NewEmployee {
	return domain.NewEmployee{
		EmployeeID: f.EmployeeID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
	}
}

// CreationView is a snapshot of the creation screen.
type CreationView struct {
	Form    EmployeeForm
	Loading bool
	Error   string // empty when there is nothing to show
	Success bool
	Created *domain.Employee
}

// EmployeeCreation is the new-employee form. A successful submit switches it
// to the success state and, after SuccessDisplayDelay, hands the created
// record to the done callback exactly once.
type EmployeeCreation struct {
	repo     ports.EmployeeRepository
	clock    clock.Clock
	onDone   func(domain.Employee)
	log      zerolog.Logger
	validate *formValidator

	mu       sync.Mutex
	gen      generation
	form     EmployeeForm
	loading  bool
	errMsg   string
	success  bool
	created  *domain.Employee
	timer    *clock.Timer
	finished bool
}

// NewEmployeeCreation returns an empty form. onDone may be nil.
func NewEmployeeCreation(repo ports.EmployeeRepository, clk clock.Clock, onDone func(domain.Employee), log zerolog.Logger) *EmployeeCreation {
	return &EmployeeCreation{
		repo:     repo,
		clock:    clk,
		onDone:   onDone,
		log:      log.With().Str("screen", "create_employee").Logger(),
		validate: newFormValidator(),
	}
}

// SetForm replaces the form fields. Edits are refused once the employee has
// been created.
func (c *EmployeeCreation) SetForm(f EmployeeForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.success {
		return domain.ErrAlreadySubmitted
	}
	c.form = f
	return nil
}

// Submit validates the form and inserts it. While a submission is outstanding
// further calls fail with ErrSubmitInFlight. On failure the form stays intact
// and View().Error carries the message to show.
func (c *EmployeeCreation) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.gen.closed:
		c.mu.Unlock()
		return domain.ErrScreenClosed
	case c.loading:
		c.mu.Unlock()
		return domain.ErrSubmitInFlight
	case c.success:
		c.mu.Unlock()
		return domain.ErrAlreadySubmitted
	}
	form := c.form
	if err := c.validate.validate(form); err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrInvalidForm, err.Error())
	}
	c.loading = true
	c.errMsg = ""
	token := c.gen.current()
	c.mu.Unlock()

	created, err := c.repo.Insert(ctx, form.toNew())
	if err == nil && created == nil {
		err = &domain.StoreError{Kind: domain.ErrStoreFailure}
	}

	c.mu.Lock()
	if !c.gen.valid(token) {
		c.mu.Unlock()
		c.log.Debug().Str("employee_id", form.EmployeeID).Msg("discarding create result after close")
		return domain.ErrScreenClosed
	}
	c.loading = false
	if err != nil {
		c.errMsg = domain.MessageOf(err, CreateFailedMessage)
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("employee_id", form.EmployeeID).Msg("create employee failed")
		return fmt.Errorf("create employee: %w", err)
	}
	c.success = true
	c.created = created
	c.mu.Unlock()

	c.log.Info().Str("employee_id", created.EmployeeID).Str("id", string(created.ID)).Msg("employee created")

	timer := c.clock.AfterFunc(SuccessDisplayDelay, func() { c.finish(token) })
	c.mu.Lock()
	c.timer = timer
	c.mu.Unlock()
	return nil
}

func (c *EmployeeCreation) finish(token uint64) {
	c.mu.Lock()
	if !c.gen.valid(token) || c.finished || c.created == nil {
		c.mu.Unlock()
		return
	}
	c.finished = true
	created := *c.created
	done := c.onDone
	c.mu.Unlock()

	if done != nil {
		done(created)
	}
}

// View returns a snapshot of the screen state.
func (c *EmployeeCreation) View() CreationView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := CreationView{
		Form:    c.form,
		Loading: c.loading,
		Error:   c.errMsg,
		Success: c.success,
	}
	if c.created != nil {
		created := *c.created
		v.Created = &created
	}
	return v
}

// Close detaches the screen: the pending done callback is cancelled and late
// insert results are dropped.
func (c *EmployeeCreation) Close() {
	c.mu.Lock()
	c.gen.close()
	timer := c.timer
	c.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}
