package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

var userColumns = []string{
	"id", "full_name", "email", "bio", "avatar_url", "is_active", "roles",
	"edition_id", "password_hash", "profile_setup_done", "photo_uploaded",
	"ky_form_done", "section_progress", "created_at", "updated_at", "last_login",
}

type userRow struct {
	ID               string         `db:"id"`
	FullName         string         `db:"full_name"`
	Email            string         `db:"email"`
	Bio              string         `db:"bio"`
	AvatarURL        string         `db:"avatar_url"`
	IsActive         bool           `db:"is_active"`
	Roles            pq.StringArray `db:"roles"`
	EditionID        sql.NullString `db:"edition_id"`
	PasswordHash     []byte         `db:"password_hash"`
	ProfileSetupDone bool           `db:"profile_setup_done"`
	PhotoUploaded    bool           `db:"photo_uploaded"`
	KYFormDone       bool           `db:"ky_form_done"`
	SectionProgress  []byte         `db:"section_progress"`
	CreatedAt        sql.NullTime   `db:"created_at"`
	UpdatedAt        sql.NullTime   `db:"updated_at"`
	LastLogin        sql.NullTime   `db:"last_login"`
}

func (r userRow) toUser() (user.User, error) {
	usr := user.User{
		ID:               r.ID,
		FullName:         r.FullName,
		Email:            r.Email,
		Bio:              r.Bio,
		AvatarURL:        r.AvatarURL,
		Roles:            r.Roles,
		PasswordHash:     r.PasswordHash,
		ProfileSetupDone: r.ProfileSetupDone,
		PhotoUploaded:    r.PhotoUploaded,
		KYFormDone:       r.KYFormDone,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
		LastLogin:        r.LastLogin.Time,
	}
	usr.SetActive(r.IsActive)
	if r.EditionID.Valid {
		usr.EditionID = &r.EditionID.String
	}
	if len(r.SectionProgress) > 0 {
		if err := json.Unmarshal(r.SectionProgress, &usr.SectionProgress); err != nil {
			return user.User{}, errors.Wrap(err, "decoding section progress")
		}
	}
	return usr, nil
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) getBy(ctx context.Context, pred interface{}, args ...interface{}) (user.User, error) {
	query, qargs, err := sb.Select(userColumns...).From("users").Where(pred, args...).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}
	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, qargs...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser()
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	q := sb.Select("COUNT(*)").From("users").Where("lower(email) = lower(?)", email)
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		q = q.Where(sq.NotEq{"id": ids})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	progress, err := json.Marshal(usr.SectionProgress)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding section progress")
	}

	query, args, err := sb.Insert("users").
		Columns("id", "full_name", "email", "bio", "avatar_url", "is_active",
			"roles", "edition_id", "password_hash", "profile_setup_done",
			"photo_uploaded", "ky_form_done", "section_progress", "created_at", "updated_at").
		Values(usr.ID, usr.FullName, usr.Email, usr.Bio, usr.AvatarURL, usr.Active(),
			pq.Array(usr.Roles), usr.EditionID, usr.PasswordHash, usr.ProfileSetupDone,
			usr.PhotoUploaded, usr.KYFormDone, progress, usr.CreatedAt, usr.UpdatedAt).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, "lower(email) = lower(?)", email)
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, orderings ...core.DBOrdering) ([]user.User, error) {
	q := sb.Select(userColumns...).From("users")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(sq.Or{
			sq.Expr("full_name ILIKE ?", pattern),
			sq.Expr("email ILIKE ?", pattern),
		})
	}
	if len(filter.Roles) > 0 {
		q = q.Where("roles && ?", pq.Array(filter.Roles))
	}
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.EditionID != "" {
		q = q.Where(sq.Eq{"edition_id": filter.EditionID})
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where(sq.LtOrEq{"created_at": filter.CreatedTo})
	}

	if len(orderings) > 0 {
		for _, ord := range orderings {
			q = q.OrderBy(ord.String())
		}
	} else {
		q = q.OrderBy("created_at DESC")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		usr, err := row.toUser()
		if err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	q := sb.Update("users").Set("updated_at", usr.UpdatedAt)

	// only save set fields
	if usr.FullName != "" {
		q = q.Set("full_name", usr.FullName)
	}
	if usr.Email != "" {
		q = q.Set("email", usr.Email)
	}
	if usr.Bio != "" {
		q = q.Set("bio", usr.Bio)
	}
	if usr.AvatarURL != "" {
		q = q.Set("avatar_url", usr.AvatarURL)
	}
	if usr.Roles != nil {
		q = q.Set("roles", pq.Array(usr.Roles))
	}
	if usr.EditionID != nil {
		q = q.Set("edition_id", *usr.EditionID)
	}
	if usr.PasswordHash != nil {
		q = q.Set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		q = q.Set("is_active", *isActive)
	}
	// onboarding flags only ever flip forward
	if usr.ProfileSetupDone {
		q = q.Set("profile_setup_done", true)
	}
	if usr.PhotoUploaded {
		q = q.Set("photo_uploaded", true)
	}
	if usr.KYFormDone {
		q = q.Set("ky_form_done", true)
	}
	if usr.SectionProgress != nil {
		progress, err := json.Marshal(usr.SectionProgress)
		if err != nil {
			return user.User{}, errors.Wrap(err, "encoding section progress")
		}
		q = q.Set("section_progress", progress)
	}

	query, args, err := q.Where(sq.Eq{"id": usr.ID}).
		Suffix("RETURNING " + columnList(userColumns)).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.toUser()
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	progress, err := json.Marshal(usr.SectionProgress)
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding section progress")
	}

	query, args, err := sb.Insert("users").
		Columns("id", "full_name", "email", "bio", "avatar_url", "is_active",
			"roles", "edition_id", "password_hash", "profile_setup_done",
			"photo_uploaded", "ky_form_done", "section_progress", "created_at", "updated_at").
		Values(usr.ID, usr.FullName, usr.Email, usr.Bio, usr.AvatarURL, usr.Active(),
			pq.Array(usr.Roles), usr.EditionID, usr.PasswordHash, usr.ProfileSetupDone,
			usr.PhotoUploaded, usr.KYFormDone, progress, usr.CreatedAt, usr.UpdatedAt).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			roles = EXCLUDED.roles,
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
			RETURNING ` + columnList(userColumns)).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return row.toUser()
}

func (repo *userRepository) SetLastLogin(ctx context.Context, usr user.User) (user.User, error) {
	query, args, err := sb.Update("users").
		Set("last_login", usr.LastLogin).
		Where(sq.Eq{"id": usr.ID}).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sb.Delete("users").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
