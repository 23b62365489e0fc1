package roadmap

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

var (
	// errors
	ErrNotFound = errors.New("roadmap day not found")
)

type (
	Repository interface {
		// QueryDays returns an edition's days ordered by day_number.
		QueryDays(ctx context.Context, editionID string) ([]Day, error)
		GetDay(ctx context.Context, id string) (Day, error)
		// UpsertDay creates the day or replaces the existing
		// (edition_id, day_number) record.
		UpsertDay(ctx context.Context, d Day) (Day, error)
		DeleteDay(ctx context.Context, id string) error
	}

	Service interface {
		Days(ctx context.Context, editionID string) ([]Day, error)
		// DaysWithStatus annotates an edition's days with their derived
		// status for the given effective mode and day number.
		DaysWithStatus(ctx context.Context, editionID string, mode program.ForgeMode, effectiveDay int) ([]DayView, error)
		Upsert(ctx context.Context, ud UpsertDay) (Day, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Days(ctx context.Context, editionID string) ([]Day, error) {
	return svc.repo.QueryDays(ctx, editionID)
}

func (svc *service) DaysWithStatus(ctx context.Context, editionID string, mode program.ForgeMode, effectiveDay int) ([]DayView, error) {
	days, err := svc.repo.QueryDays(ctx, editionID)
	if err != nil {
		return nil, err
	}
	views := make([]DayView, 0, len(days))
	for _, d := range days {
		views = append(views, DayView{Day: d, Status: StatusFor(mode, effectiveDay, d.DayNumber)})
	}
	return views, nil
}

func (svc *service) Upsert(ctx context.Context, ud UpsertDay) (Day, error) {
	now := time.Now().UTC()
	d := Day{
		ID:        uuid.New().String(),
		EditionID: ud.EditionID,
		DayNumber: ud.DayNumber,
		Date:      ud.Date.UTC().Truncate(24 * time.Hour),
		Title:     ud.Title,
		Summary:   ud.Summary,
		Location:  ud.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertDay(ctx, d)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteDay(ctx, id)
}
