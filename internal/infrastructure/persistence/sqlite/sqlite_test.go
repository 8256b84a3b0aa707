package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/transaction"
)

// setupTestDB creates an in-memory SQLite database private to the test
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func addRecord(t *testing.T, repo repository.RecordRepository, gen *record.IDGenerator, owner string, kind record.Kind, category, text string) *record.Record {
	t.Helper()
	now := time.Now()
	id, err := gen.GenerateID(now)
	require.NoError(t, err)
	r := &record.Record{
		ID: id, Owner: owner, Kind: kind, Category: category,
		Subject: "Sam", Text: text, Energy: record.EnergyHigh,
		Tags: []string{"weekend"}, CreatedAt: now,
	}
	require.NoError(t, repo.Add(context.Background(), r))
	return r
}

func TestMigration_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	migrator := NewMigrator(db)
	require.NoError(t, migrator.Migrate())

	version, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSplitSQLStatements(t *testing.T) {
	stmts := splitSQLStatements("-- comment\nCREATE TABLE a (x INT);\n\nCREATE TABLE b (y INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, stmts)
}

func TestRecordRepositoryImpl_ListIsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)
	gen := record.NewIDGenerator()
	ctx := context.Background()

	addRecord(t, repo, gen, "o1", record.KindInteraction, "support", "A")
	addRecord(t, repo, gen, "o1", record.KindInteraction, "conflict", "B")
	addRecord(t, repo, gen, "o1", record.KindDiscovery, "emotional", "C")
	addRecord(t, repo, gen, "o2", record.KindInteraction, "support", "D")

	list, err := repo.List(ctx, repository.RecordFilter{Owner: "o1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Text)
	assert.Equal(t, "B", list[1].Text)
	assert.Equal(t, "A", list[2].Text)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "o1", Kind: record.KindInteraction, Category: "support"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Text)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "o1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "C", list[0].Text)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordRepositoryImpl_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)
	ctx := context.Background()

	saved := addRecord(t, repo, record.NewIDGenerator(), "o1", record.KindInteraction, "support", "coffee")

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, saved.Owner, found.Owner)
	assert.Equal(t, saved.Kind, found.Kind)
	assert.Equal(t, saved.Subject, found.Subject)
	assert.Equal(t, saved.Energy, found.Energy)
	assert.Equal(t, []string{"weekend"}, found.Tags)
	assert.True(t, saved.CreatedAt.Equal(found.CreatedAt))

	found.Text = "tea"
	require.NoError(t, repo.Update(ctx, found))
	again, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "tea", again.Text)

	_, err = repo.FindByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.True(t, errors.Is(err, repository.ErrRecordNotFound))

	found.ID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	assert.ErrorIs(t, repo.Update(ctx, found), repository.ErrRecordNotFound)
}

func TestRecordRepositoryImpl_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	saved := addRecord(t, repo, record.NewIDGenerator(), "o1", record.KindInteraction, "support", "x")
	assert.Error(t, repo.Add(context.Background(), saved))
}

func TestCustomizationRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomizationRepository(db)
	ctx := context.Background()

	text, err := repo.Find(ctx, "o1", "1")
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, repo.Save(ctx, "o1", "1", "first"))
	require.NoError(t, repo.Save(ctx, "o1", "1", "second"))
	require.NoError(t, repo.Save(ctx, "o2", "1", "other"))

	text, err = repo.Find(ctx, "o1", "1")
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	all, err := repo.List(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "second"}, all)

	require.NoError(t, repo.Clear(ctx, "o1", "1"))
	all, err = repo.List(ctx, "o1")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)
	customizations := NewCustomizationRepository(db)
	tm := transaction.NewSQLiteTransactionManager(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.InTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, customizations.Save(txCtx, "o1", "1", "pending"))
		addRecordCtx(t, txCtx, repo)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := customizations.List(ctx, "o1")
	require.NoError(t, err)
	assert.Empty(t, all)

	list, err := repo.List(ctx, repository.RecordFilter{Owner: "o1"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func addRecordCtx(t *testing.T, ctx context.Context, repo repository.RecordRepository) {
	t.Helper()
	id, err := record.NewIDGenerator().GenerateID(time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, &record.Record{
		ID: id, Owner: "o1", Kind: record.KindDiscovery, Category: "emotional", Text: "x", CreatedAt: time.Now(),
	}))
}
