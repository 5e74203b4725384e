package mongo

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hrmslite/hrms/internal/core/domain"
	"github.com/hrmslite/hrms/internal/core/ports"
)

// buildFind translates q into a filter and find options. fields lists the
// queryable document fields; "id" maps to _id.
func buildFind(collection string, q ports.Query, fields map[string]bool) (bson.D, *options.FindOptions, error) {
	filter := bson.D{}
	for _, f := range q.Filters {
		if f.Field == "id" {
			oid, err := primitive.ObjectIDFromHex(f.Value)
			if err != nil {
				return nil, nil, invalidInput(fmt.Sprintf("invalid id %q", f.Value))
			}
			filter = append(filter, bson.E{Key: "_id", Value: oid})
			continue
		}
		if !fields[f.Field] {
			return nil, nil, unknownField(collection, f.Field)
		}
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}

	opts := options.Find()
	if o := q.Order; o != nil {
		if !fields[o.Field] {
			return nil, nil, unknownField(collection, o.Field)
		}
		dir := 1
		if o.Descending {
			dir = -1
		}
		// ObjectIDs grow with insertion, so _id breaks ties in insert order.
		opts.SetSort(bson.D{{Key: o.Field, Value: dir}, {Key: "_id", Value: dir}})
	}
	return filter, opts, nil
}

// storeError maps driver errors onto the store error kinds.
func storeError(err error, conflictMsg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.StoreError{
			Kind:    domain.ErrConflict,
			Status:  http.StatusConflict,
			Code:    "11000",
			Message: conflictMsg,
			Err:     err,
		}
	}
	return &domain.StoreError{Kind: domain.ErrStoreFailure, Err: err}
}

func unknownField(collection, field string) error {
	return invalidInput(fmt.Sprintf("field %s.%s does not exist", collection, field))
}

func invalidInput(msg string) error {
	return &domain.StoreError{Kind: domain.ErrStoreFailure, Status: http.StatusBadRequest, Message: msg}
}
