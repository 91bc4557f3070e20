// Package people is the storage layer for people records, their type
// memberships, and the listing queries built over them. Every query goes
// through the builder so values are always bound as parameters.
package people

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	pkgerrors "github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/peopleerr"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const notFound = "sql: no rows in result set"

// lookupFields maps the caller facing lookup names onto columns. Anything
// outside this map is rejected before it reaches the query.
var lookupFields = map[string]string{
	"id":      "people.id",
	"email":   "people.email",
	"user_id": "people.user_id",
	"phone":   "people.phone",
	"mobile":  "people.mobile",
	"website": "people.website",
	"company": "people.company",
}

var orderFields = map[string]bool{
	"id":         true,
	"first_name": true,
	"last_name":  true,
	"company":    true,
	"email":      true,
	"created":    true,
}

var metaCompares = map[string]bool{
	"=":        true,
	"!=":       true,
	"<":        true,
	"<=":       true,
	">":        true,
	">=":       true,
	"LIKE":     true,
	"NOT LIKE": true,
}

type PeopleRepository interface {
	List(ctx context.Context, req *models.ListPeopleRequest) ([]models.PersonWithTypes, error)
	Count(ctx context.Context, req *models.ListPeopleRequest) (int64, error)
	GetBy(ctx context.Context, field string, value any) (*models.PersonWithTypes, error)
	GetAllBy(ctx context.Context, field string, value any, limit, offset int) ([]models.PersonWithTypes, error)
	Create(ctx context.Context, fields map[string]any) (int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	GetRelation(ctx context.Context, peopleID, typeID int64) (*TypeRelation, error)
	AssignType(ctx context.Context, peopleID, typeID int64) error
	SoftDeleteType(ctx context.Context, peopleID, typeID int64) error
	RestoreType(ctx context.Context, peopleID, typeID int64) error
	RemoveType(ctx context.Context, peopleID, typeID int64) error
	CountActiveTypes(ctx context.Context, peopleID int64) (int64, error)
	DeletePerson(ctx context.Context, peopleID int64) error
}

// QueryFilter rewrites the composed listing builder before it is built.
type QueryFilter func(ctx context.Context, sb *sqlbuilder.SelectBuilder)

// SQLFilter rewrites the final query text and arguments before execution.
type SQLFilter func(ctx context.Context, sql string, args []any) (string, []any)

type Repository struct {
	db         database.DB
	logger     ectologger.Logger
	preFilters []QueryFilter
	sqlFilters []SQLFilter
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// RegisterQueryFilter adds a hook run against the listing builder before the
// query is built. Filters run in registration order.
func (r *Repository) RegisterQueryFilter(filter QueryFilter) {
	r.preFilters = append(r.preFilters, filter)
}

// RegisterSQLFilter adds a hook run against the final listing query text.
// Filters run in registration order.
func (r *Repository) RegisterSQLFilter(filter SQLFilter) {
	r.sqlFilters = append(r.sqlFilters, filter)
}

func qualifiedColumns() []string {
	cols := []string{"id"}
	cols = append(cols, models.MainFields()...)
	for i, col := range cols {
		cols[i] = "people." + col
	}
	return cols
}

// buildListQuery assembles the shared listing query. The count variant drops
// the type aggregation, grouping, ordering, and pagination.
func buildListQuery(req *models.ListPeopleRequest, count bool) (*sqlbuilder.SelectBuilder, error) {
	sb := database.NewSelectBuilder()

	if count {
		sb.Select("COUNT(DISTINCT people.id)")
	} else {
		cols := append(qualifiedColumns(), "string_agg(DISTINCT pt.name, ',') AS types")
		sb.Select(cols...)
	}
	sb.From(peopleTable)

	aggFilter := "ptr.deleted_at IS NULL"
	if req.Trashed {
		aggFilter = "ptr.deleted_at IS NOT NULL"
	}
	if !count {
		sb.JoinWithOption(sqlbuilder.LeftJoin, relationsTable+" ptr", "ptr.people_id = people.id", aggFilter)
		sb.JoinWithOption(sqlbuilder.LeftJoin, typesTable+" pt", "pt.id = ptr.people_types_id")
	}

	// Membership condition. The correlated count keeps trashed and active
	// listings disjoint even when no type names were requested.
	sub := database.NewSelectBuilder()
	sub.Select("COUNT(*)")
	sub.From(relationsTable + " r")
	conds := []string{"r.people_id = people.id"}
	if len(req.Types) > 0 {
		sub.Join(typesTable+" t", "t.id = r.people_types_id")
		conds = append(conds, sub.In("t.name", sqlbuilder.Flatten(req.Types)...))
	}
	if req.Trashed {
		conds = append(conds, sub.IsNotNull("r.deleted_at"))
	} else {
		conds = append(conds, sub.IsNull("r.deleted_at"))
	}
	sub.Where(conds...)
	sb.Where(fmt.Sprintf("(%s) >= 1", sb.Var(sub)))

	if req.Meta != nil {
		if !metaCompares[req.Meta.Compare] {
			return nil, peopleerr.Newf(peopleerr.CodeInvalidArgument, "unsupported meta compare %q", req.Meta.Compare)
		}
		sb.Join(metaTable+" pm", "pm.people_id = people.id")
		sb.Where(sb.Equal("pm.meta_key", req.Meta.Key))
		sb.Where(fmt.Sprintf("pm.meta_value %s %s", req.Meta.Compare, sb.Var(req.Meta.Value)))
	}

	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		sb.Where(sb.Or(
			sb.ILike("people.first_name", pattern),
			sb.ILike("people.last_name", pattern),
			sb.ILike("people.company", pattern),
			sb.ILike("people.email", pattern),
		))
	}

	if len(req.Include) > 0 {
		sb.Where(sb.In("people.id", sqlbuilder.Flatten(req.Include)...))
	}
	if len(req.Exclude) > 0 {
		sb.Where(sb.NotIn("people.id", sqlbuilder.Flatten(req.Exclude)...))
	}

	if !count {
		if !orderFields[req.OrderBy] {
			return nil, peopleerr.Newf(peopleerr.CodeInvalidArgument, "unsupported order field %q", req.OrderBy)
		}
		sb.GroupBy("people.id")
		sb.OrderBy("people." + req.OrderBy)
		if req.Order == "ASC" {
			sb.Asc()
		} else {
			sb.Desc()
		}

		if req.Number != models.UnboundedPageSize {
			sb.Limit(req.Number)
			sb.Offset(req.Offset)
		}
	}

	return sb, nil
}

// listSQL runs the registered filters around the builder and returns the
// final query.
func (r *Repository) listSQL(ctx context.Context, req *models.ListPeopleRequest, count bool) (string, []any, error) {
	sb, err := buildListQuery(req, count)
	if err != nil {
		return "", nil, err
	}

	for _, filter := range r.preFilters {
		filter(ctx, sb)
	}

	sql, args := sb.Build()
	for _, filter := range r.sqlFilters {
		sql, args = filter(ctx, sql, args)
	}
	return sql, args, nil
}

func (r *Repository) List(ctx context.Context, req *models.ListPeopleRequest) ([]models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.List")
	defer span.End()

	sql, args, err := r.listSQL(ctx, req, false)
	if err != nil {
		return nil, err
	}

	var rows []personWithTypesRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing people")
		return nil, pkgerrors.Wrap(err, "error listing people")
	}

	peoples := make([]models.PersonWithTypes, 0, len(rows))
	for i := range rows {
		peoples = append(peoples, toPersonWithTypes(&rows[i]))
	}
	return peoples, nil
}

func (r *Repository) Count(ctx context.Context, req *models.ListPeopleRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.Count")
	defer span.End()

	sql, args, err := r.listSQL(ctx, req, true)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error counting people")
		return 0, pkgerrors.Wrap(err, "error counting people")
	}
	return total, nil
}

// GetBy fetches one record by an allowlisted column. A miss returns nil
// without an error.
func (r *Repository) GetBy(ctx context.Context, field string, value any) (*models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.GetBy")
	defer span.End()

	column, ok := lookupFields[field]
	if !ok {
		return nil, peopleerr.Newf(peopleerr.CodeInvalidArgument, "unsupported lookup field %q", field)
	}

	sb := personStruct.SelectFrom(peopleTable)
	sb.Where(sb.Equal(column, value))
	sb.OrderBy("people.id").Desc()
	sb.Limit(1)

	sql, args := sb.Build()

	var row PersonRow
	if err := r.db.GetContext(ctx, &row, sql, args...); err != nil {
		if err.Error() == notFound {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"field": field,
		}).Error("error getting people record")
		return nil, pkgerrors.Wrap(err, "error getting people record")
	}

	types, err := r.activeTypes(ctx, row.ID.Int64)
	if err != nil {
		return nil, err
	}

	person := models.PersonWithTypes{
		Person: ToPerson(&row),
		Types:  types,
	}
	return &person, nil
}

// GetAllBy fetches every record matching an allowlisted column, newest first.
func (r *Repository) GetAllBy(ctx context.Context, field string, value any, limit, offset int) ([]models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.GetAllBy")
	defer span.End()

	column, ok := lookupFields[field]
	if !ok {
		return nil, peopleerr.Newf(peopleerr.CodeInvalidArgument, "unsupported lookup field %q", field)
	}

	sb := personStruct.SelectFrom(peopleTable)
	switch values := value.(type) {
	case []any:
		sb.Where(sb.In(column, values...))
	case []int64:
		sb.Where(sb.In(column, sqlbuilder.Flatten(values)...))
	case []string:
		sb.Where(sb.In(column, sqlbuilder.Flatten(values)...))
	default:
		sb.Where(sb.Equal(column, value))
	}
	sb.OrderBy("people.id").Desc()
	if limit != models.UnboundedPageSize {
		sb.Limit(limit)
		sb.Offset(offset)
	}

	sql, args := sb.Build()

	var rows []PersonRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"field": field,
		}).Error("error getting people records")
		return nil, pkgerrors.Wrap(err, "error getting people records")
	}

	peoples := make([]models.PersonWithTypes, 0, len(rows))
	for i := range rows {
		types, err := r.activeTypes(ctx, rows[i].ID.Int64)
		if err != nil {
			return nil, err
		}
		peoples = append(peoples, models.PersonWithTypes{
			Person: ToPerson(&rows[i]),
			Types:  types,
		})
	}
	return peoples, nil
}

func (r *Repository) activeTypes(ctx context.Context, peopleID int64) ([]string, error) {
	sb := database.NewSelectBuilder()
	sb.Select("pt.name")
	sb.From(typesTable + " pt")
	sb.Join(relationsTable+" ptr", "ptr.people_types_id = pt.id")
	sb.Where(
		sb.Equal("ptr.people_id", peopleID),
		sb.IsNull("ptr.deleted_at"),
	)
	sb.OrderBy("pt.name").Asc()

	sql, args := sb.Build()

	var names []string
	if err := r.db.SelectContext(ctx, &names, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
		}).Error("error loading people types")
		return nil, pkgerrors.Wrap(err, "error loading people types")
	}
	return names, nil
}

// Create inserts a new record from the declared column values and returns the
// new id. Keys outside the declared columns are ignored.
func (r *Repository) Create(ctx context.Context, fields map[string]any) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.Create")
	defer span.End()

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if models.IsMainField(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, fields[key])
	}

	ib := database.NewInsertBuilder().
		InsertInto(peopleTable).
		Cols(keys...).
		Values(values...).
		Returning("id")

	sql, args := ib.Build()

	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error creating people record")
		return 0, pkgerrors.Wrap(err, "error creating people record")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"people_id": id,
	}).Info("created people record")
	return id, nil
}

// UpdateFields applies the given declared column values to one record. Keys
// outside the declared columns are ignored.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.UpdateFields")
	defer span.End()

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if models.IsMainField(key) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	ub := database.NewUpdateBuilder()
	ub.Update(peopleTable)
	assignments := make([]string, 0, len(keys))
	for _, key := range keys {
		assignments = append(assignments, ub.Assign(key, fields[key]))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))

	sql, args := ub.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": id,
		}).Error("error updating people record")
		return pkgerrors.Wrap(err, "error updating people record")
	}
	return nil
}

// GetRelation returns the membership row for a person/type pair, trashed or
// not. A miss returns nil without an error.
func (r *Repository) GetRelation(ctx context.Context, peopleID, typeID int64) (*TypeRelation, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.GetRelation")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "people_id", "people_types_id", "deleted_at")
	sb.From(relationsTable)
	sb.Where(
		sb.Equal("people_id", peopleID),
		sb.Equal("people_types_id", typeID),
	)
	sb.Limit(1)

	sql, args := sb.Build()

	var row relationRow
	if err := r.db.GetContext(ctx, &row, sql, args...); err != nil {
		if err.Error() == notFound {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"type_id":   typeID,
		}).Error("error getting type relation")
		return nil, pkgerrors.Wrap(err, "error getting type relation")
	}
	return toTypeRelation(&row), nil
}

// AssignType adds the type membership, reviving it when a trashed row for the
// pair already exists.
func (r *Repository) AssignType(ctx context.Context, peopleID, typeID int64) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.AssignType")
	defer span.End()

	ib := database.NewInsertBuilder().
		InsertInto(relationsTable).
		Cols("people_id", "people_types_id").
		Values(peopleID, typeID)
	ub := ib.OnConflict("people_id", "people_types_id")
	ub.Set(ub.Assign("deleted_at", nil))

	sql, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"type_id":   typeID,
		}).Error("error assigning people type")
		return pkgerrors.Wrap(err, "error assigning people type")
	}
	return nil
}

func (r *Repository) SoftDeleteType(ctx context.Context, peopleID, typeID int64) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.SoftDeleteType")
	defer span.End()

	return r.setRelationDeletedAt(ctx, peopleID, typeID, time.Now().UTC())
}

func (r *Repository) RestoreType(ctx context.Context, peopleID, typeID int64) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.RestoreType")
	defer span.End()

	return r.setRelationDeletedAt(ctx, peopleID, typeID, nil)
}

func (r *Repository) setRelationDeletedAt(ctx context.Context, peopleID, typeID int64, deletedAt any) error {
	ub := database.NewUpdateBuilder()
	ub.Update(relationsTable)
	ub.Set(ub.Assign("deleted_at", deletedAt))
	ub.Where(
		ub.Equal("people_id", peopleID),
		ub.Equal("people_types_id", typeID),
	)

	sql, args := ub.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"type_id":   typeID,
		}).Error("error updating type relation")
		return pkgerrors.Wrap(err, "error updating type relation")
	}
	return nil
}

// RemoveType drops the membership row itself, trashed or not.
func (r *Repository) RemoveType(ctx context.Context, peopleID, typeID int64) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.RemoveType")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(relationsTable)
	db.Where(
		db.Equal("people_id", peopleID),
		db.Equal("people_types_id", typeID),
	)

	sql, args := db.Build()

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
			"type_id":   typeID,
		}).Error("error removing people type")
		return pkgerrors.Wrap(err, "error removing people type")
	}
	return nil
}

func (r *Repository) CountActiveTypes(ctx context.Context, peopleID int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.CountActiveTypes")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(relationsTable)
	sb.Where(
		sb.Equal("people_id", peopleID),
		sb.IsNull("deleted_at"),
	)

	sql, args := sb.Build()

	var total int64
	if err := r.db.GetContext(ctx, &total, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"people_id": peopleID,
		}).Error("error counting active types")
		return 0, pkgerrors.Wrap(err, "error counting active types")
	}
	return total, nil
}

// DeletePerson removes the record for good, together with its metadata and
// any remaining type memberships.
func (r *Repository) DeletePerson(ctx context.Context, peopleID int64) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleRepository.DeletePerson")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{metaTable, relationsTable, peopleTable} {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(table)
		if table == peopleTable {
			db.Where(db.Equal("id", peopleID))
		} else {
			db.Where(db.Equal("people_id", peopleID))
		}

		sql, args := db.Build()
		if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"people_id": peopleID,
				"table":     table,
			}).Error("error deleting people record")
			return pkgerrors.Wrap(err, "error deleting people record")
		}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"people_id": peopleID,
	}).Info("deleted people record")
	return tx.Commit(ctx)
}
