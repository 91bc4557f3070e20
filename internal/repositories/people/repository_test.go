package people

import (
	"context"
	"strings"
	"testing"

	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/peopleerr"
)

func buildSQL(t *testing.T, req *models.ListPeopleRequest, count bool) (string, []any, error) {
	t.Helper()
	return (&Repository{}).listSQL(context.Background(), req, count)
}

func TestListQueryDefaults(t *testing.T) {
	req := (&models.ListPeopleRequest{}).Normalize()

	sql, _, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "string_agg(DISTINCT pt.name, ',') AS types")
	assert.Contains(t, sql, "LEFT JOIN people_type_relations ptr ON ptr.people_id = people.id AND ptr.deleted_at IS NULL")
	assert.Contains(t, sql, "LEFT JOIN people_types pt ON pt.id = ptr.people_types_id")
	assert.Contains(t, sql, "r.deleted_at IS NULL")
	assert.Contains(t, sql, "GROUP BY people.id")
	assert.Contains(t, sql, "ORDER BY people.id DESC")
	assert.Contains(t, sql, "LIMIT")
}

func TestListQueryTrashed(t *testing.T) {
	req := (&models.ListPeopleRequest{Trashed: true}).Normalize()

	sql, _, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "ptr.deleted_at IS NOT NULL")
	assert.Contains(t, sql, "r.deleted_at IS NOT NULL")
	assert.NotContains(t, sql, "ptr.deleted_at IS NULL")
}

func TestListQueryTypes(t *testing.T) {
	req := (&models.ListPeopleRequest{Types: []string{"customer", "vendor"}}).Normalize()

	sql, args, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN people_types t ON t.id = r.people_types_id")
	assert.Contains(t, sql, "t.name IN")
	assert.Contains(t, args, "customer")
	assert.Contains(t, args, "vendor")
}

func TestListQueryTypeAllLiftsRestriction(t *testing.T) {
	req := (&models.ListPeopleRequest{Types: []string{"customer", models.TypeAll}}).Normalize()

	sql, args, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.NotContains(t, sql, "t.name IN")
	assert.NotContains(t, args, "customer")
}

func TestListQuerySearchIsParameterized(t *testing.T) {
	req := (&models.ListPeopleRequest{Search: "smith'; DROP TABLE people"}).Normalize()

	sql, args, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "DROP TABLE")
	assert.Contains(t, args, "%smith'; DROP TABLE people%")
}

func TestListQueryMeta(t *testing.T) {
	req := (&models.ListPeopleRequest{
		Meta: &models.MetaQuery{Key: "life_stage", Value: "customer", Compare: "LIKE"},
	}).Normalize()

	sql, args, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN people_meta pm ON pm.people_id = people.id")
	assert.Contains(t, sql, "pm.meta_key =")
	assert.Contains(t, sql, "pm.meta_value LIKE")
	assert.Contains(t, args, "life_stage")
	assert.Contains(t, args, "customer")
}

func TestListQueryMetaCompareRejected(t *testing.T) {
	req := (&models.ListPeopleRequest{
		Meta: &models.MetaQuery{Key: "life_stage", Value: "x", Compare: "= 1 OR"},
	}).Normalize()

	_, _, err := buildSQL(t, req, false)
	require.Error(t, err)
	assert.Equal(t, peopleerr.CodeInvalidArgument, peopleerr.CodeOf(err))
}

func TestListQueryOrderByRejected(t *testing.T) {
	req := (&models.ListPeopleRequest{OrderBy: "created; --"}).Normalize()

	_, _, err := buildSQL(t, req, false)
	require.Error(t, err)
	assert.Equal(t, peopleerr.CodeInvalidArgument, peopleerr.CodeOf(err))
}

func TestListQueryIncludeExclude(t *testing.T) {
	req := (&models.ListPeopleRequest{
		Include: []int64{1, 2},
		Exclude: []int64{3},
	}).Normalize()

	sql, args, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "people.id IN")
	assert.Contains(t, sql, "people.id NOT IN")
	assert.Contains(t, args, int64(1))
	assert.Contains(t, args, int64(3))
}

func TestListQueryUnbounded(t *testing.T) {
	req := (&models.ListPeopleRequest{Number: models.UnboundedPageSize}).Normalize()

	sql, _, err := buildSQL(t, req, false)
	require.NoError(t, err)

	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}

func TestCountQuery(t *testing.T) {
	req := (&models.ListPeopleRequest{Types: []string{"employee"}, Trashed: true}).Normalize()

	sql, args, err := buildSQL(t, req, true)
	require.NoError(t, err)

	assert.Contains(t, sql, "COUNT(DISTINCT people.id)")
	assert.NotContains(t, sql, "GROUP BY")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "string_agg")
	assert.Contains(t, sql, "r.deleted_at IS NOT NULL")
	assert.Contains(t, args, "employee")
}

func TestListQueryFilters(t *testing.T) {
	repo := &Repository{}
	repo.RegisterQueryFilter(func(ctx context.Context, sb *sqlbuilder.SelectBuilder) {
		sb.Where(sb.Equal("people.country", "US"))
	})
	repo.RegisterSQLFilter(func(ctx context.Context, sql string, args []any) (string, []any) {
		return strings.Replace(sql, "SELECT", "SELECT /* rewritten */", 1), args
	})

	req := (&models.ListPeopleRequest{}).Normalize()
	sql, args, err := repo.listSQL(context.Background(), req, false)
	require.NoError(t, err)

	assert.Contains(t, sql, "people.country =")
	assert.Contains(t, args, "US")
	assert.Contains(t, sql, "/* rewritten */")
}
