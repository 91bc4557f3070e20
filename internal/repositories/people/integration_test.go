package people_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	peoplerepo "github.com/Ramsey-B/fern/internal/repositories/people"
	"github.com/Ramsey-B/fern/internal/repositories/peoplemeta"
	"github.com/Ramsey-B/fern/internal/repositories/peopletype"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	// Use environment variables or defaults for test DB
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "fern"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

func TestPeopleRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()
	logger := getTestLogger()

	repo := peoplerepo.NewRepository(db, logger)
	typeRepo := peopletype.NewRepository(db, logger)
	metaRepo := peoplemeta.NewRepository(db, logger)
	ctx := context.Background()

	contact, err := typeRepo.GetByName(ctx, "contact")
	require.NoError(t, err)
	require.NotNil(t, contact, "contact type must be seeded by migrations")

	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	id, err := repo.Create(ctx, map[string]any{
		"first_name": "Integration",
		"last_name":  "Test",
		"email":      email,
		"created":    time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	defer func() {
		require.NoError(t, repo.DeletePerson(ctx, id))
	}()

	require.NoError(t, repo.AssignType(ctx, id, contact.ID))

	person, err := repo.GetBy(ctx, "email", email)
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, id, person.ID)
	assert.Contains(t, person.Types, "contact")

	// Count must match an unbounded listing with the same filters.
	req := (&models.ListPeopleRequest{Search: email, Number: models.UnboundedPageSize}).Normalize()
	list, err := repo.List(ctx, req)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	total, err := repo.Count(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(len(list)), total)

	// Soft delete moves the record to the trashed listing and back.
	require.NoError(t, repo.SoftDeleteType(ctx, id, contact.ID))
	rel, err := repo.GetRelation(ctx, id, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.NotNil(t, rel.DeletedAt)

	trashedReq := (&models.ListPeopleRequest{Search: email, Trashed: true, Number: models.UnboundedPageSize}).Normalize()
	trashed, err := repo.List(ctx, trashedReq)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, id, trashed[0].ID)

	require.NoError(t, repo.RestoreType(ctx, id, contact.ID))
	rel, err = repo.GetRelation(ctx, id, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, rel.DeletedAt)

	active, err := repo.CountActiveTypes(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	// Metadata round trip.
	metaID, err := metaRepo.Add(ctx, id, "life_stage", "customer", false)
	require.NoError(t, err)
	assert.Positive(t, metaID)

	value, ok, err := metaRepo.GetSingle(ctx, id, "life_stage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "customer", value)

	require.NoError(t, metaRepo.Update(ctx, id, "life_stage", "lead", ""))
	value, _, err = metaRepo.GetSingle(ctx, id, "life_stage")
	require.NoError(t, err)
	assert.Equal(t, "lead", value)

	require.NoError(t, metaRepo.Delete(ctx, id, "life_stage", ""))
	_, ok, err = metaRepo.GetSingle(ctx, id, "life_stage")
	require.NoError(t, err)
	assert.False(t, ok)
}
