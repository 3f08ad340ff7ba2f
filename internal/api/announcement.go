package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hrms-portal/internal"
)

type Announcement struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type AnnouncementDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d AnnouncementDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}
	if d.Content == "" {
		return internal.NewValidationError("content is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type Announcements struct {
	client Doer
	logger *slog.Logger
}

func NewAnnouncements(client Doer, logger *slog.Logger) *Announcements {
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcements{client: client, logger: logger}
}

func (a *Announcements) List(ctx context.Context, query ListQuery) (Page[Announcement], error) {
	return fetchPage[Announcement](ctx, a.client, "/announcements"+query.encode())
}

func (a *Announcements) Get(ctx context.Context, id int64) (Announcement, error) {
	var out Announcement
	err := a.client.Get(ctx, fmt.Sprintf("/announcements/%d", id), &out)
	return out, err
}

func (a *Announcements) Create(ctx context.Context, dto AnnouncementDTO) (Announcement, error) {
	var out Announcement
	if err := dto.Validate(); err != nil {
		return out, err
	}
	err := a.client.Post(ctx, "/announcements", dto, &out)
	return out, err
}

func (a *Announcements) Update(ctx context.Context, id int64, dto AnnouncementDTO) (Announcement, error) {
	var out Announcement
	err := a.client.Put(ctx, fmt.Sprintf("/announcements/%d", id), dto, &out)
	return out, err
}

func (a *Announcements) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("/announcements/%d", id), nil)
}
