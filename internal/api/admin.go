package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/hrms-portal/internal"
)

type Admin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type AdminDTO struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (d AdminDTO) Validate() error {
	if d.Username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	EmployeeCount     int64 `json:"employeeCount"`
	PendingLeaves     int64 `json:"pendingLeaves"`
	AnnouncementCount int64 `json:"announcementCount"`
}

// MonthlyTrend is one month of aggregate movement for the reports view.
type MonthlyTrend struct {
	Month      string `json:"month"`
	Hires      int64  `json:"hires"`
	Departures int64  `json:"departures"`
	Leaves     int64  `json:"leaves"`
}

type Admins struct {
	client Doer
	logger *slog.Logger
}

func NewAdmins(client Doer, logger *slog.Logger) *Admins {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admins{client: client, logger: logger}
}

func (a *Admins) List(ctx context.Context, query ListQuery) (Page[Admin], error) {
	return fetchPage[Admin](ctx, a.client, "/admins"+query.encode())
}

func (a *Admins) Get(ctx context.Context, id int64) (Admin, error) {
	var out Admin
	err := a.client.Get(ctx, fmt.Sprintf("/admins/%d", id), &out)
	return out, err
}

func (a *Admins) Search(ctx context.Context, keyword string) (Page[Admin], error) {
	return fetchPage[Admin](ctx, a.client, "/admins/search?keyword="+url.QueryEscape(keyword))
}

func (a *Admins) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := a.client.Get(ctx, "/admins/dashboard-stats", &out)
	return out, err
}

func (a *Admins) MonthlyTrends(ctx context.Context) ([]MonthlyTrend, error) {
	var out []MonthlyTrend
	err := a.client.Get(ctx, "/admins/monthly-trends", &out)
	return out, err
}

func (a *Admins) Create(ctx context.Context, dto AdminDTO) (Admin, error) {
	var out Admin
	if err := dto.Validate(); err != nil {
		return out, err
	}
	err := a.client.Post(ctx, "/admins", dto, &out)
	return out, err
}

func (a *Admins) Update(ctx context.Context, id int64, dto AdminDTO) (Admin, error) {
	var out Admin
	err := a.client.Put(ctx, fmt.Sprintf("/admins/%d", id), dto, &out)
	return out, err
}

func (a *Admins) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("/admins/%d", id), nil)
}

func (a *Admins) ChangePassword(ctx context.Context, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return a.client.Put(ctx, "/admins/change-password", dto, nil)
}
