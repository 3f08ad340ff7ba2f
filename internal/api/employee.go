package api

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/hrms-portal/internal"
)

type Employee struct {
	ID         int64  `json:"id"`
	EmpID      string `json:"empId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hireDate"`
	Status     string `json:"status"`
}

type EmployeeDTO struct {
	EmpID      string `json:"empId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	HireDate   string `json:"hireDate,omitempty"`
}

func (d EmployeeDTO) Validate() error {
	if d.EmpID == "" {
		return internal.NewValidationError("employee id is required", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ProfileDTO struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (d ChangePasswordDTO) Validate() error {
	if d.OldPassword == "" || d.NewPassword == "" {
		return internal.NewValidationError("old and new passwords are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type Employees struct {
	client Doer
	logger *slog.Logger
}

func NewEmployees(client Doer, logger *slog.Logger) *Employees {
	if logger == nil {
		logger = slog.Default()
	}
	return &Employees{client: client, logger: logger}
}

func (e *Employees) List(ctx context.Context, query ListQuery) (Page[Employee], error) {
	return fetchPage[Employee](ctx, e.client, "/employees"+query.encode())
}

func (e *Employees) GetByEmpID(ctx context.Context, empID string) (Employee, error) {
	var out Employee
	err := e.client.Get(ctx, "/employees/byEmpId/"+url.PathEscape(empID), &out)
	return out, err
}

func (e *Employees) MySalary(ctx context.Context, empID string) (Page[Salary], error) {
	return fetchPage[Salary](ctx, e.client, "/employees/my-salary/"+url.PathEscape(empID))
}

func (e *Employees) Create(ctx context.Context, dto EmployeeDTO) (Employee, error) {
	var out Employee
	if err := dto.Validate(); err != nil {
		return out, err
	}
	err := e.client.Post(ctx, "/employees", dto, &out)
	return out, err
}

func (e *Employees) Update(ctx context.Context, empID string, dto EmployeeDTO) (Employee, error) {
	var out Employee
	err := e.client.Put(ctx, "/employees/"+url.PathEscape(empID), dto, &out)
	return out, err
}

func (e *Employees) UpdateMyProfile(ctx context.Context, empID string, dto ProfileDTO) error {
	return e.client.Put(ctx, "/employees/my-profile/"+url.PathEscape(empID), dto, nil)
}

func (e *Employees) ChangePassword(ctx context.Context, empID string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return e.client.Put(ctx, "/employees/change-password/"+url.PathEscape(empID), dto, nil)
}

// MarkResigned flags the employee as resigned; the backend keeps the record.
func (e *Employees) MarkResigned(ctx context.Context, empID string) error {
	return e.client.Delete(ctx, "/employees/"+url.PathEscape(empID)+"/resigned", nil)
}
