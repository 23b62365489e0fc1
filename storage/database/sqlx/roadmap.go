package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
)

var dayColumns = []string{
	"id", "edition_id", "day_number", "date", "title", "summary", "location",
	"created_at", "updated_at",
}

type dayRow struct {
	ID        string    `db:"id"`
	EditionID string    `db:"edition_id"`
	DayNumber int       `db:"day_number"`
	Date      time.Time `db:"date"`
	Title     string    `db:"title"`
	Summary   string    `db:"summary"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r dayRow) toDay() roadmap.Day {
	return roadmap.Day{
		ID:        r.ID,
		EditionID: r.EditionID,
		DayNumber: r.DayNumber,
		Date:      r.Date.UTC(),
		Title:     r.Title,
		Summary:   r.Summary,
		Location:  r.Location,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type roadmapRepository struct {
	db *sqlx.DB
}

func NewRoadmapRepository(db *sqlx.DB) roadmap.Repository {
	return &roadmapRepository{db: db}
}

func (repo *roadmapRepository) QueryDays(ctx context.Context, editionID string) ([]roadmap.Day, error) {
	query, args, err := sb.Select(dayColumns...).From("roadmap_days").
		Where(sq.Eq{"edition_id": editionID}).
		OrderBy("day_number ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []dayRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying roadmap days")
	}
	days := make([]roadmap.Day, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.toDay())
	}
	return days, nil
}

func (repo *roadmapRepository) GetDay(ctx context.Context, id string) (roadmap.Day, error) {
	query, args, err := sb.Select(dayColumns...).From("roadmap_days").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return roadmap.Day{}, errors.Wrap(err, "building query")
	}
	var row dayRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return roadmap.Day{}, roadmap.ErrNotFound
		}
		return roadmap.Day{}, errors.Wrap(err, "getting roadmap day")
	}
	return row.toDay(), nil
}

func (repo *roadmapRepository) UpsertDay(ctx context.Context, d roadmap.Day) (roadmap.Day, error) {
	query, args, err := sb.Insert("roadmap_days").
		Columns(dayColumns...).
		Values(d.ID, d.EditionID, d.DayNumber, d.Date, d.Title, d.Summary, d.Location,
			d.CreatedAt, d.UpdatedAt).
		Suffix(`ON CONFLICT (edition_id, day_number) DO UPDATE SET
			date = EXCLUDED.date,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			location = EXCLUDED.location,
			updated_at = EXCLUDED.updated_at
			RETURNING ` + columnList(dayColumns)).
		ToSql()
	if err != nil {
		return roadmap.Day{}, errors.Wrap(err, "building query")
	}

	var row dayRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return roadmap.Day{}, errors.Wrap(err, "upserting roadmap day")
	}
	return row.toDay(), nil
}

func (repo *roadmapRepository) DeleteDay(ctx context.Context, id string) error {
	query, args, err := sb.Delete("roadmap_days").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting roadmap day")
	}
	return nil
}
