package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/pkg/clock"
)

const attendanceConflictMsg = "Attendance already marked for this employee on this date"

var attendanceFields = map[string]bool{
	ports.FieldEmployeeID: true,
	ports.FieldDate:       true,
	"status":              true,
	ports.FieldCreatedAt:  true,
}

type mongoAttendance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID string             `bson:"employee_id"`
	Date       string             `bson:"date"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (m mongoAttendance) toDomain() domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:         domain.Key(m.ID.Hex()),
		EmployeeID: domain.Key(m.EmployeeID),
		Date:       m.Date,
		Status:     domain.AttendanceStatus(m.Status),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// AttendanceRepository implements ports.AttendanceRepository using MongoDB.
type AttendanceRepository struct {
	col *mongo.Collection
	clk clock.Clock
}

var _ ports.AttendanceRepository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *mongo.Database, clk clock.Clock) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(ports.CollectionAttendance), clk: clk}
}

func (r *AttendanceRepository) List(ctx context.Context, q ports.Query) ([]domain.AttendanceRecord, error) {
	filter, opts, err := buildFind(ports.CollectionAttendance, q, attendanceFields)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", storeError(err, ""))
	}
	var docs []mongoAttendance
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", storeError(err, ""))
	}

	out := make([]domain.AttendanceRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AttendanceRepository) Insert(ctx context.Context, in domain.NewAttendance) (*domain.AttendanceRecord, error) {
	if !in.Status.Valid() {
		return nil, invalidInput(fmt.Sprintf("invalid status %q", in.Status))
	}
	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return nil, invalidInput(fmt.Sprintf("invalid date %q", in.Date))
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAttendance{
		ID:         primitive.NewObjectID(),
		EmployeeID: string(in.EmployeeID),
		Date:       in.Date,
		Status:     string(in.Status),
		CreatedAt:  r.clk.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert attendance: %w", storeError(err, attendanceConflictMsg))
	}
	rec := doc.toDomain()
	return &rec, nil
}

// EnsureIndexes creates the one-record-per-day index and the history lookup.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
