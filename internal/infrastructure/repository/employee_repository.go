package repository

import (
	"context"
	"errors"
	"math"

	"github.com/employee-manager/internal/domain/entity"
	"github.com/employee-manager/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) repository.EmployeeRepository {
	return &employeeRepository{collection: db.Collection("employees")}
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, employee)
	return err
}

func (r *employeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": employee.ID}, employee)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *employeeRepository) FindAll(ctx context.Context) ([]*entity.Employee, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor)
}

// List applies the name filter, sorting and offset pagination in the store,
// returning one page together with the total counts.
func (r *employeeRepository) List(ctx context.Context, q repository.ListQuery) (*repository.ListPage, error) {
	filter := bson.M{}
	if q.Filter != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: q.Filter, Options: "i"}}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortedColumn := q.SortedColumn
	if sortedColumn == "" {
		sortedColumn = "name"
	}
	direction := 1
	if q.Descending {
		direction = -1
	}

	offset := int64((q.Page - 1) * q.Limit)
	// A filter narrows the set, so paging restarts from the front.
	if q.Filter != "" {
		offset = 0
	}

	opts := options.Find().
		SetCollation(&options.Collation{Locale: "en"}).
		SetSort(bson.D{{Key: sortedColumn, Value: direction}}).
		SetLimit(int64(q.Limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	data, err := decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}

	return &repository.ListPage{
		Data:         data,
		TotalRecords: total,
		TotalPages:   int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (r *employeeRepository) findOne(ctx context.Context, filter bson.M) (*entity.Employee, error) {
	employee := &entity.Employee{}
	err := r.collection.FindOne(ctx, filter).Decode(employee)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*entity.Employee, error) {
	defer cursor.Close(ctx)
	employees := []*entity.Employee{}
	for cursor.Next(ctx) {
		employee := &entity.Employee{}
		if err := cursor.Decode(employee); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, cursor.Err()
}
