package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

func newRecord(t *testing.T, gen *record.IDGenerator, owner string, kind record.Kind, category, text string) *record.Record {
	t.Helper()
	now := time.Now()
	id, err := gen.GenerateID(now)
	require.NoError(t, err)
	return &record.Record{ID: id, Owner: owner, Kind: kind, Category: category, Text: text, CreatedAt: now}
}

func TestRecordRepository_ListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	gen := record.NewIDGenerator()

	for _, text := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Add(ctx, newRecord(t, gen, "o1", record.KindInteraction, "support", text)))
	}

	list, err := repo.List(ctx, repository.RecordFilter{Owner: "o1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{list[0].Text, list[1].Text, list[2].Text})
}

func TestRecordRepository_ListFiltersAndLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	gen := record.NewIDGenerator()

	require.NoError(t, repo.Add(ctx, newRecord(t, gen, "o1", record.KindInteraction, "support", "1")))
	require.NoError(t, repo.Add(ctx, newRecord(t, gen, "o1", record.KindInteraction, "conflict", "2")))
	require.NoError(t, repo.Add(ctx, newRecord(t, gen, "o1", record.KindDiscovery, "emotional", "3")))
	require.NoError(t, repo.Add(ctx, newRecord(t, gen, "o2", record.KindInteraction, "support", "4")))

	list, err := repo.List(ctx, repository.RecordFilter{Owner: "o1", Kind: record.KindInteraction})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "o1", Category: "support"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].Text)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "o1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "3", list[0].Text)

	list, err = repo.List(ctx, repository.RecordFilter{Owner: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRecordRepository_FindAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository()
	gen := record.NewIDGenerator()

	r := newRecord(t, gen, "o1", record.KindDiscovery, "emotional", "before")
	require.NoError(t, repo.Add(ctx, r))
	assert.Error(t, repo.Add(ctx, r), "duplicate IDs are rejected")

	found, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", found.Text)

	// Returned records are copies
	found.Text = "mutated"
	again, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", again.Text)

	found.Text = "after"
	require.NoError(t, repo.Update(ctx, found))
	again, err = repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", again.Text)

	_, err = repo.FindByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	missing := newRecord(t, gen, "o1", record.KindDiscovery, "emotional", "x")
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrRecordNotFound)
}

func TestCustomizationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomizationRepository()

	text, err := repo.Find(ctx, "o1", "1")
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, repo.Save(ctx, "o1", "1", "my words"))
	require.NoError(t, repo.Save(ctx, "o2", "1", "their words"))

	text, err = repo.Find(ctx, "o1", "1")
	require.NoError(t, err)
	assert.Equal(t, "my words", text)

	all, err := repo.List(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "my words"}, all)

	require.NoError(t, repo.Clear(ctx, "o1", "1"))
	require.NoError(t, repo.Clear(ctx, "nobody", "1"))
	text, err = repo.Find(ctx, "o1", "1")
	require.NoError(t, err)
	assert.Empty(t, text)
}
