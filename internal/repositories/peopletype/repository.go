// Package peopletype resolves the reference list of people type names. The
// names themselves are seeded by migrations; this layer only reads them.
package peopletype

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"
	pkgerrors "github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const typesTable = "people_types"

const notFound = "sql: no rows in result set"

type TypeRow struct {
	ID   sql.NullInt64  `db:"id"`
	Name sql.NullString `db:"name"`
}

var typeStruct = database.NewStruct(new(TypeRow))

type PeopleTypeRepository interface {
	GetByName(ctx context.Context, name string) (*models.PeopleType, error)
	GetAll(ctx context.Context) ([]models.PeopleType, error)
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

// GetByName resolves a type name to its row. An unknown name returns nil
// without an error so callers can decide how strict to be.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.PeopleType, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleTypeRepository.GetByName")
	defer span.End()

	sb := typeStruct.SelectFrom(typesTable)
	sb.Where(sb.Equal("people_types.name", name))
	sb.Limit(1)

	sql, args := sb.Build()

	var row TypeRow
	if err := r.db.GetContext(ctx, &row, sql, args...); err != nil {
		if err.Error() == notFound {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"name": name,
		}).Error("error getting people type")
		return nil, pkgerrors.Wrap(err, "error getting people type")
	}

	return &models.PeopleType{
		ID:   row.ID.Int64,
		Name: row.Name.String,
	}, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]models.PeopleType, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleTypeRepository.GetAll")
	defer span.End()

	sb := typeStruct.SelectFrom(typesTable)
	sb.OrderBy("people_types.name").Asc()

	sql, args := sb.Build()

	var rows []TypeRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing people types")
		return nil, pkgerrors.Wrap(err, "error listing people types")
	}

	types := make([]models.PeopleType, 0, len(rows))
	for _, row := range rows {
		types = append(types, models.PeopleType{
			ID:   row.ID.Int64,
			Name: row.Name.String,
		})
	}
	return types, nil
}
