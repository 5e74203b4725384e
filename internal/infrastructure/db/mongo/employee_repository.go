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

const employeeConflictMsg = "Employee ID or email already exists"

var employeeFields = map[string]bool{
	ports.FieldEmployeeID: true,
	"full_name":           true,
	"email":               true,
	"department":          true,
	ports.FieldCreatedAt:  true,
}

type mongoEmployee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID string             `bson:"employee_id"`
	FullName   string             `bson:"full_name"`
	Email      string             `bson:"email"`
	Department string             `bson:"department"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (m mongoEmployee) toDomain() domain.Employee {
	return domain.Employee{
		ID:         domain.Key(m.ID.Hex()),
		EmployeeID: m.EmployeeID,
		FullName:   m.FullName,
		Email:      m.Email,
		Department: m.Department,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// EmployeeRepository implements ports.EmployeeRepository using MongoDB.
type EmployeeRepository struct {
	col *mongo.Collection
	clk clock.Clock
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db *mongo.Database, clk clock.Clock) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(ports.CollectionEmployees), clk: clk}
}

func (r *EmployeeRepository) List(ctx context.Context, q ports.Query) ([]domain.Employee, error) {
	filter, opts, err := buildFind(ports.CollectionEmployees, q, employeeFields)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", storeError(err, ""))
	}
	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", storeError(err, ""))
	}

	out := make([]domain.Employee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *EmployeeRepository) Insert(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEmployee{
		ID:         primitive.NewObjectID(),
		EmployeeID: in.EmployeeID,
		FullName:   in.FullName,
		Email:      in.Email,
		Department: in.Department,
		CreatedAt:  r.clk.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert employee: %w", storeError(err, employeeConflictMsg))
	}
	e := doc.toDomain()
	return &e, nil
}

// EnsureIndexes creates the unique business-id and email indexes.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
