package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
)

var eventColumns = []string{
	"id", "edition_id", "title", "description", "location", "starts_at",
	"ends_at", "created_at", "updated_at",
}

type eventRow struct {
	ID          string    `db:"id"`
	EditionID   string    `db:"edition_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r eventRow) toEvent() event.Event {
	return event.Event{
		ID:          r.ID,
		EditionID:   r.EditionID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt.UTC(),
		EndsAt:      r.EndsAt.UTC(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) QueryEventsByEdition(ctx context.Context, editionID string) ([]event.Event, error) {
	query, args, err := sb.Select(eventColumns...).From("events").
		Where(sq.Eq{"edition_id": editionID}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	evts := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		evts = append(evts, row.toEvent())
	}
	return evts, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	query, args, err := sb.Select(eventColumns...).From("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return event.Event{}, errors.Wrap(err, "building query")
	}
	var row eventRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	return row.toEvent(), nil
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	query, args, err := sb.Insert("events").
		Columns(eventColumns...).
		Values(evt.ID, evt.EditionID, evt.Title, evt.Description, evt.Location,
			evt.StartsAt, evt.EndsAt, evt.CreatedAt, evt.UpdatedAt).
		ToSql()
	if err != nil {
		return event.Event{}, errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	query, args, err := sb.Delete("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return nil
}
