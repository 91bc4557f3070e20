// Package peoplemeta stores the free-form key/value pairs attached to people
// records. A key may hold several values unless the writer asked for
// uniqueness.
package peoplemeta

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"
	pkgerrors "github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const metaTable = "people_meta"

type MetaRow struct {
	ID       sql.NullInt64  `db:"id"`
	PeopleID sql.NullInt64  `db:"people_id"`
	Key      sql.NullString `db:"meta_key"`
	Value    sql.NullString `db:"meta_value"`
}

func toMeta(row *MetaRow) models.PeopleMeta {
	return models.PeopleMeta{
		ID:       row.ID.Int64,
		PeopleID: row.PeopleID.Int64,
		Key:      row.Key.String,
		Value:    row.Value.String,
	}
}

type PeopleMetaRepository interface {
	Add(ctx context.Context, peopleID int64, key, value string, unique bool) (int64, error)
	Get(ctx context.Context, peopleID int64, key string) ([]string, error)
	GetSingle(ctx context.Context, peopleID int64, key string) (string, bool, error)
	GetAll(ctx context.Context, peopleID int64) ([]models.PeopleMeta, error)
	Update(ctx context.Context, peopleID int64, key, value, prevValue string) error
	Delete(ctx context.Context, peopleID int64, key, value string) error
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Add inserts one key/value pair and returns the new row id. With unique set,
// an existing row for the key wins and the call returns id zero.
func (r *Repository) Add(ctx context.Context, peopleID int64, key, value string, unique bool) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.Add")
	defer span.End()

	if unique {
		existing, err := r.Get(ctx, peopleID, key)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	ib := database.NewInsertBuilder().
		InsertInto(metaTable).
		Cols("people_id", "meta_key", "meta_value").
		Values(peopleID, key, value).
		Returning("id")

	sql, args := ib.Build()

	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"meta_key":  key,
		}).Error("error adding people meta")
		return 0, pkgerrors.Wrap(err, "error adding people meta")
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, peopleID int64, key string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("meta_value")
	sb.From(metaTable)
	sb.Where(
		sb.Equal("people_id", peopleID),
		sb.Equal("meta_key", key),
	)
	sb.OrderBy("id").Asc()

	sql, args := sb.Build()

	var values []string
	if err := r.db.SelectContext(ctx, &values, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"meta_key":  key,
		}).Error("error getting people meta")
		return nil, pkgerrors.Wrap(err, "error getting people meta")
	}
	return values, nil
}

// GetSingle returns the oldest value for the key. The bool reports whether
// any row existed.
func (r *Repository) GetSingle(ctx context.Context, peopleID int64, key string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.GetSingle")
	defer span.End()

	values, err := r.Get(ctx, peopleID, key)
	if err != nil {
		return "", false, err
	}
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (r *Repository) GetAll(ctx context.Context, peopleID int64) ([]models.PeopleMeta, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "people_id", "meta_key", "meta_value")
	sb.From(metaTable)
	sb.Where(sb.Equal("people_id", peopleID))
	sb.OrderBy("id").Asc()

	sql, args := sb.Build()

	var rows []MetaRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
		}).Error("error getting people meta")
		return nil, pkgerrors.Wrap(err, "error getting people meta")
	}

	metas := make([]models.PeopleMeta, 0, len(rows))
	for i := range rows {
		metas = append(metas, toMeta(&rows[i]))
	}
	return metas, nil
}

// Update rewrites the value for a key, inserting the row when none exists.
// A non-empty prevValue narrows the update to rows currently holding it.
func (r *Repository) Update(ctx context.Context, peopleID int64, key, value, prevValue string) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.Update")
	defer span.End()

	existing, err := r.Get(ctx, peopleID, key)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		_, err := r.Add(ctx, peopleID, key, value, false)
		return err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(metaTable)
	ub.Set(ub.Assign("meta_value", value))
	where := []string{
		ub.Equal("people_id", peopleID),
		ub.Equal("meta_key", key),
	}
	if prevValue != "" {
		where = append(where, ub.Equal("meta_value", prevValue))
	}
	ub.Where(where...)

	sql, args := ub.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"meta_key":  key,
		}).Error("error updating people meta")
		return pkgerrors.Wrap(err, "error updating people meta")
	}
	return nil
}

// Delete removes the rows for a key. A non-empty value narrows the delete to
// rows currently holding it.
func (r *Repository) Delete(ctx context.Context, peopleID int64, key, value string) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleMetaRepository.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(metaTable)
	where := []string{
		db.Equal("people_id", peopleID),
		db.Equal("meta_key", key),
	}
	if value != "" {
		where = append(where, db.Equal("meta_value", value))
	}
	db.Where(where...)

	sql, args := db.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"meta_key":  key,
		}).Error("error deleting people meta")
		return pkgerrors.Wrap(err, "error deleting people meta")
	}
	return nil
}
