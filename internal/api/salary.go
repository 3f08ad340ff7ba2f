package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hrms-portal/internal"
)

type Salary struct {
	ID        int64   `json:"id"`
	EmpID     string  `json:"empId"`
	Month     string  `json:"month"`
	Base      float64 `json:"base"`
	Bonus     float64 `json:"bonus"`
	Deduction float64 `json:"deduction"`
	Net       float64 `json:"net"`
	Status    string  `json:"status"`
}

type SalaryDTO struct {
	EmpID     string  `json:"empId"`
	Month     string  `json:"month"`
	Base      float64 `json:"base"`
	Bonus     float64 `json:"bonus,omitempty"`
	Deduction float64 `json:"deduction,omitempty"`
}

func (d SalaryDTO) Validate() error {
	if d.EmpID == "" {
		return internal.NewValidationError("employee id is required", internal.ErrCodeValidationFailed)
	}
	if d.Month == "" {
		return internal.NewValidationError("salary month is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type Salaries struct {
	client Doer
	logger *slog.Logger
}

func NewSalaries(client Doer, logger *slog.Logger) *Salaries {
	if logger == nil {
		logger = slog.Default()
	}
	return &Salaries{client: client, logger: logger}
}

func (s *Salaries) List(ctx context.Context, query ListQuery) (Page[Salary], error) {
	return fetchPage[Salary](ctx, s.client, "/salaries"+query.encode())
}

func (s *Salaries) Create(ctx context.Context, dto SalaryDTO) (Salary, error) {
	var out Salary
	if err := dto.Validate(); err != nil {
		return out, err
	}
	err := s.client.Post(ctx, "/salaries", dto, &out)
	return out, err
}

func (s *Salaries) Update(ctx context.Context, id int64, dto SalaryDTO) (Salary, error) {
	var out Salary
	err := s.client.Put(ctx, fmt.Sprintf("/salaries/%d", id), dto, &out)
	return out, err
}

func (s *Salaries) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/salaries/%d", id), nil)
}
