package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		// QueryEventsByEdition returns the edition's events ordered by start time.
		QueryEventsByEdition(ctx context.Context, editionID string) ([]Event, error)
		GetEvent(ctx context.Context, id string) (Event, error)
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		DeleteEvent(ctx context.Context, id string) error
	}

	Service interface {
		QueryByEdition(ctx context.Context, editionID string) ([]Event, error)
		// Upcoming returns the edition's events ending at or after now.
		Upcoming(ctx context.Context, editionID string, now time.Time) ([]Event, error)
		Get(ctx context.Context, id string) (Event, error)
		Create(ctx context.Context, ne NewEvent) (Event, error)
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

func (svc *service) QueryByEdition(ctx context.Context, editionID string) ([]Event, error) {
	return svc.repo.QueryEventsByEdition(ctx, editionID)
}

func (svc *service) Upcoming(ctx context.Context, editionID string, now time.Time) ([]Event, error) {
	evts, err := svc.repo.QueryEventsByEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	upcoming := make([]Event, 0, len(evts))
	for _, evt := range evts {
		if !evt.EndsAt.Before(now) {
			upcoming = append(upcoming, evt)
		}
	}
	return upcoming, nil
}

func (svc *service) Get(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		ID:          uuid.New().String(),
		EditionID:   ne.EditionID,
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		StartsAt:    ne.StartsAt.UTC(),
		EndsAt:      ne.EndsAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}
