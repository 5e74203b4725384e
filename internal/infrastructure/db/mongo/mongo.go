package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store is a ports.Store backed by one MongoDB database.
type Store struct {
	db         *mongo.Database
	employees  *EmployeeRepository
	attendance *AttendanceRepository
}

var _ ports.Store = (*Store)(nil)

// NewStore wraps db. created_at values are stamped from clk.
func NewStore(db *mongo.Database, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		db:         db,
		employees:  NewEmployeeRepository(db, clk),
		attendance: NewAttendanceRepository(db, clk),
	}
}

func (s *Store) Employees() ports.EmployeeRepository    { return s.employees }
func (s *Store) Attendance() ports.AttendanceRepository { return s.attendance }

// Ping checks the server and that the database accepts commands.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes both collections rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.employees.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("employees indexes: %w", err)
	}
	if err := s.attendance.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("attendance indexes: %w", err)
	}
	return nil
}
