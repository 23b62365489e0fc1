package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

var editionColumns = []string{
	"id", "name", "city", "cohort_type", "forge_start_date", "forge_end_date",
	"is_archived", "created_at", "updated_at",
}

type editionRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	City           string    `db:"city"`
	CohortType     string    `db:"cohort_type"`
	ForgeStartDate time.Time `db:"forge_start_date"`
	ForgeEndDate   time.Time `db:"forge_end_date"`
	IsArchived     bool      `db:"is_archived"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r editionRow) toEdition() program.Edition {
	return program.Edition{
		ID:             r.ID,
		Name:           r.Name,
		City:           r.City,
		CohortType:     program.CohortType(r.CohortType),
		ForgeStartDate: r.ForgeStartDate.UTC(),
		ForgeEndDate:   r.ForgeEndDate.UTC(),
		IsArchived:     r.IsArchived,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type editionRepository struct {
	db *sqlx.DB
}

func NewEditionRepository(db *sqlx.DB) program.Repository {
	return &editionRepository{db: db}
}

func (repo *editionRepository) GetEdition(ctx context.Context, id string) (program.Edition, error) {
	query, args, err := sb.Select(editionColumns...).From("editions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return program.Edition{}, errors.Wrap(err, "building query")
	}
	var row editionRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return program.Edition{}, program.ErrNotFound
		}
		return program.Edition{}, errors.Wrap(err, "getting edition")
	}
	return row.toEdition(), nil
}

func (repo *editionRepository) QueryEditions(ctx context.Context, includeArchived bool) ([]program.Edition, error) {
	q := sb.Select(editionColumns...).From("editions").OrderBy("forge_start_date DESC")
	if !includeArchived {
		q = q.Where(sq.Eq{"is_archived": false})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []editionRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying editions")
	}
	editions := make([]program.Edition, 0, len(rows))
	for _, row := range rows {
		editions = append(editions, row.toEdition())
	}
	return editions, nil
}

func (repo *editionRepository) FindActiveEditionByCohort(ctx context.Context, ct program.CohortType) (program.Edition, error) {
	query, args, err := sb.Select(editionColumns...).From("editions").
		Where(sq.Eq{"cohort_type": ct, "is_archived": false}).
		OrderBy("forge_start_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return program.Edition{}, errors.Wrap(err, "building query")
	}
	var row editionRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return program.Edition{}, program.ErrNotFound
		}
		return program.Edition{}, errors.Wrap(err, "finding edition")
	}
	return row.toEdition(), nil
}

func (repo *editionRepository) CreateEdition(ctx context.Context, ed program.Edition) (program.Edition, error) {
	query, args, err := sb.Insert("editions").
		Columns(editionColumns...).
		Values(ed.ID, ed.Name, ed.City, ed.CohortType, ed.ForgeStartDate, ed.ForgeEndDate,
			ed.IsArchived, ed.CreatedAt, ed.UpdatedAt).
		ToSql()
	if err != nil {
		return program.Edition{}, errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return program.Edition{}, errors.Wrap(err, "inserting edition")
	}
	return ed, nil
}

func (repo *editionRepository) ArchiveEdition(ctx context.Context, id string) (program.Edition, error) {
	query, args, err := sb.Update("editions").
		Set("is_archived", true).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList(editionColumns)).
		ToSql()
	if err != nil {
		return program.Edition{}, errors.Wrap(err, "building query")
	}
	var row editionRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return program.Edition{}, program.ErrNotFound
		}
		return program.Edition{}, errors.Wrap(err, "archiving edition")
	}
	return row.toEdition(), nil
}
