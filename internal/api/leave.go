package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/hrms-portal/internal"
)

type LeaveApplication struct {
	ID        int64  `json:"id"`
	EmpID     string `json:"empId"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	Comment   string `json:"comment"`
}

type LeaveApplicationDTO struct {
	EmpID     string `json:"empId"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

func (d LeaveApplicationDTO) Validate() error {
	if d.EmpID == "" {
		return internal.NewValidationError("employee id is required", internal.ErrCodeValidationFailed)
	}
	if d.StartDate == "" || d.EndDate == "" {
		return internal.NewValidationError("leave period is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// LeaveReviewDTO is the admin approval/rejection payload.
type LeaveReviewDTO struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type Leaves struct {
	client Doer
	logger *slog.Logger
}

func NewLeaves(client Doer, logger *slog.Logger) *Leaves {
	if logger == nil {
		logger = slog.Default()
	}
	return &Leaves{client: client, logger: logger}
}

func (l *Leaves) Submit(ctx context.Context, dto LeaveApplicationDTO) (LeaveApplication, error) {
	var out LeaveApplication
	if err := dto.Validate(); err != nil {
		return out, err
	}
	err := l.client.Post(ctx, "/leave-applications", dto, &out)
	return out, err
}

// List is the admin view of every application.
func (l *Leaves) List(ctx context.Context, query ListQuery) (Page[LeaveApplication], error) {
	return fetchPage[LeaveApplication](ctx, l.client, "/leave-applications"+query.encode())
}

// MyApplications lists the caller's own applications.
func (l *Leaves) MyApplications(ctx context.Context, employeeID string) (Page[LeaveApplication], error) {
	return fetchPage[LeaveApplication](ctx, l.client, "/leave-applications/my-applications/"+url.PathEscape(employeeID))
}

func (l *Leaves) MyApplicationDetail(ctx context.Context, id int64) (LeaveApplication, error) {
	var out LeaveApplication
	err := l.client.Get(ctx, fmt.Sprintf("/leave-applications/my-applications/detail/%d", id), &out)
	return out, err
}

// Review approves or rejects an application.
func (l *Leaves) Review(ctx context.Context, id int64, dto LeaveReviewDTO) (LeaveApplication, error) {
	var out LeaveApplication
	err := l.client.Put(ctx, fmt.Sprintf("/leave-applications/%d", id), dto, &out)
	return out, err
}

func (l *Leaves) Delete(ctx context.Context, id int64) error {
	return l.client.Delete(ctx, fmt.Sprintf("/leave-applications/%d", id), nil)
}

// WithdrawMine deletes one of the caller's own pending applications.
func (l *Leaves) WithdrawMine(ctx context.Context, id int64) error {
	return l.client.Delete(ctx, fmt.Sprintf("/leave-applications/my-applications/%d", id), nil)
}
