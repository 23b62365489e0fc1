package program

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound = errors.New("edition not found")
)

type (
	Repository interface {
		GetEdition(ctx context.Context, id string) (Edition, error)
		// QueryEditions returns editions ordered by start date (newest first).
		QueryEditions(ctx context.Context, includeArchived bool) ([]Edition, error)
		// FindActiveEditionByCohort returns the first non-archived edition for
		// the cohort type, ErrNotFound when none exists.
		FindActiveEditionByCohort(ctx context.Context, ct CohortType) (Edition, error)
		CreateEdition(ctx context.Context, ed Edition) (Edition, error)
		ArchiveEdition(ctx context.Context, id string) (Edition, error)
	}

	Service interface {
		Get(ctx context.Context, id string) (Edition, error)
		Query(ctx context.Context, includeArchived bool) ([]Edition, error)
		FindActiveByCohort(ctx context.Context, ct CohortType) (Edition, error)
		Create(ctx context.Context, ne NewEdition) (Edition, error)
		Archive(ctx context.Context, id string) (Edition, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Get(ctx context.Context, id string) (Edition, error) {
	return svc.repo.GetEdition(ctx, id)
}

func (svc *service) Query(ctx context.Context, includeArchived bool) ([]Edition, error) {
	return svc.repo.QueryEditions(ctx, includeArchived)
}

func (svc *service) FindActiveByCohort(ctx context.Context, ct CohortType) (Edition, error) {
	return svc.repo.FindActiveEditionByCohort(ctx, ct)
}

func (svc *service) Create(ctx context.Context, ne NewEdition) (Edition, error) {
	now := time.Now().UTC()
	ed := Edition{
		ID:             uuid.New().String(),
		Name:           ne.Name,
		City:           ne.City,
		CohortType:     ne.CohortType,
		ForgeStartDate: ne.ForgeStartDate.UTC().Truncate(24 * time.Hour),
		ForgeEndDate:   ne.ForgeEndDate.UTC().Truncate(24 * time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateEdition(ctx, ed)
}

func (svc *service) Archive(ctx context.Context, id string) (Edition, error) {
	return svc.repo.ArchiveEdition(ctx, id)
}
