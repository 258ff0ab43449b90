package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/employee-manager/internal/domain/entity"
	"github.com/employee-manager/internal/domain/repository"
	"github.com/employee-manager/internal/infrastructure/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const employeeCacheTTL = 5 * time.Minute

// EmployeeService wraps the employee record set with list pagination and a
// redis read-through on by-id lookups.
type EmployeeService struct {
	employees repository.EmployeeRepository
	cache     cache.Cache
	logger    *slog.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, c cache.Cache, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, cache: c, logger: logger}
}

type EmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DOB         string `json:"dob"`
	Designation string `json:"designation"`
	Education   string `json:"education"`
}

type ListParams struct {
	Page         int
	Limit        int
	Sort         string
	Filter       string
	SortedColumn string
}

// ListResult is one page of employees. Paginated is false when no page/limit
// was requested, in which case only Data is meaningful.
type ListResult struct {
	Data          []*entity.Employee
	Paginated     bool
	Page          int
	TotalPages    int
	TotalRecords  int64
	SortedColumn  string
	SortDirection int
}

func (s *EmployeeService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 || params.Limit < 1 {
		data, err := s.employees.FindAll(ctx)
		if err != nil {
			return nil, internalError("Failed to fetch employees", err)
		}
		return &ListResult{Data: data}, nil
	}

	sortedColumn := params.SortedColumn
	if sortedColumn == "" {
		sortedColumn = "name"
	}
	descending := params.Sort == "desc"

	page, err := s.employees.List(ctx, repository.ListQuery{
		Page:         params.Page,
		Limit:        params.Limit,
		Filter:       params.Filter,
		SortedColumn: sortedColumn,
		Descending:   descending,
	})
	if err != nil {
		return nil, internalError("Failed to fetch employees", err)
	}

	direction := 1
	if descending {
		direction = -1
	}

	return &ListResult{
		Data:          page.Data,
		Paginated:     true,
		Page:          params.Page,
		TotalPages:    page.TotalPages,
		TotalRecords:  page.TotalRecords,
		SortedColumn:  sortedColumn,
		SortDirection: direction,
	}, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFoundError("Id not found")
	}

	cached := &entity.Employee{}
	hit, err := s.cache.Get(ctx, employeeCacheKey(id), cached)
	if err != nil {
		s.logger.Warn("employee cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	employee, err := s.employees.FindByID(ctx, objectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Id not found")
	}
	if err != nil {
		return nil, internalError("Failed to fetch data", err)
	}

	if err := s.cache.Set(ctx, employeeCacheKey(id), employee, employeeCacheTTL); err != nil {
		s.logger.Warn("employee cache write failed", "error", err)
	}

	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*entity.Employee, error) {
	if req.Name == "" || req.Email == "" || req.DOB == "" || req.Designation == "" || req.Education == "" {
		return nil, validationError("Please provide all the details to add a new employee")
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return nil, validationError("Please provide all the details to add a new employee")
	}

	if _, err := s.employees.FindByEmail(ctx, req.Email); err == nil {
		return nil, conflictError("Email is already in use.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("Failed to create a new employee", err)
	}

	employee := &entity.Employee{
		Name:        req.Name,
		Email:       req.Email,
		DOB:         dob,
		Designation: req.Designation,
		Education:   req.Education,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, internalError("Failed to create a new employee", err)
	}

	return employee, nil
}

// Update patches the record with the non-empty fields of the request and
// drops any cached copy.
func (s *EmployeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*entity.Employee, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFoundError("Employee not found")
	}

	employee, err := s.employees.FindByID(ctx, objectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Employee not found")
	}
	if err != nil {
		return nil, internalError("Failed to update employee", err)
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Email != "" {
		employee.Email = req.Email
	}
	if req.DOB != "" {
		dob, err := parseDOB(req.DOB)
		if err != nil {
			return nil, validationError("Please provide a valid date of birth")
		}
		employee.DOB = dob
	}
	if req.Designation != "" {
		employee.Designation = req.Designation
	}
	if req.Education != "" {
		employee.Education = req.Education
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, internalError("Failed to update employee", err)
	}

	if err := s.cache.Delete(ctx, employeeCacheKey(id)); err != nil {
		s.logger.Warn("employee cache invalidation failed", "error", err)
	}

	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFoundError("Employee not found")
	}

	err = s.employees.Delete(ctx, objectID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("Employee not found")
	}
	if err != nil {
		return internalError("Failed to delete an employee", err)
	}

	if err := s.cache.Delete(ctx, employeeCacheKey(id)); err != nil {
		s.logger.Warn("employee cache invalidation failed", "error", err)
	}

	return nil
}

func employeeCacheKey(id string) string {
	return "employee:" + id
}

func parseDOB(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
