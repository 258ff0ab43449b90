package repository

import (
	"context"

	"github.com/employee-manager/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListQuery carries the pagination, sorting and filtering options of an
// employee listing. A zero Limit means "return everything".
type ListQuery struct {
	Page         int
	Limit        int
	Filter       string
	SortedColumn string
	// Descending flips the sort direction; ascending is the default.
	Descending bool
}

// ListPage is one page of employee records plus the counts the list
// response exposes.
type ListPage struct {
	Data         []*entity.Employee
	TotalRecords int64
	TotalPages   int
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Employee, error)
	FindByEmail(ctx context.Context, email string) (*entity.Employee, error)
	FindAll(ctx context.Context) ([]*entity.Employee, error)
	List(ctx context.Context, q ListQuery) (*ListPage, error)
}
