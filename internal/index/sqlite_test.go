package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := Open(t.TempDir(), NewHashEmbedder(128))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestUpsertAndGet(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	err := idx.Upsert(ctx, "proj_a.png", []byte("login screen"), map[string]string{
		"project_name": "proj",
		"all_tags":     "login screen,dark mode",
	})
	require.NoError(t, err)

	rec, err := idx.Get(ctx, "proj_a.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "proj", rec.Metadata["project_name"])
	assert.Equal(t, "login screen,dark mode", rec.Metadata["all_tags"])
}

func TestGet_Absent(t *testing.T) {
	idx := newTestIndex(t)

	rec, err := idx.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestUpsert_ReplacesExisting(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "id1", []byte("v1"), map[string]string{"v": "1"}))
	require.NoError(t, idx.Upsert(ctx, "id1", []byte("v2"), map[string]string{"v": "2"}))

	rec, err := idx.Get(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.Metadata["v"])

	all, err := idx.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetAll_FilterAndOrder(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []byte("one"), map[string]string{"project_name": "x"}))
	require.NoError(t, idx.Upsert(ctx, "b", []byte("two"), map[string]string{"project_name": "y"}))
	require.NoError(t, idx.Upsert(ctx, "c", []byte("three"), map[string]string{"project_name": "x"}))

	all, err := idx.GetAll(ctx, Filter{"project_name": "x"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[1].ID)
}

func TestQueryByText_RanksByDistance(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "login", []byte("login screen password field"), map[string]string{"project_name": "x"}))
	require.NoError(t, idx.Upsert(ctx, "chart", []byte("analytics dashboard bar chart"), map[string]string{"project_name": "x"}))

	results, err := idx.QueryByText(ctx, "login screen", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "login", results[0].ID)
	assert.Less(t, results[0].Distance, results[1].Distance)
}

func TestQueryByText_FilterPushedBeforeRanking(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []byte("login screen"), map[string]string{"project_name": "x"}))
	require.NoError(t, idx.Upsert(ctx, "b", []byte("login screen"), map[string]string{"project_name": "y"}))

	results, err := idx.QueryByText(ctx, "login screen", 10, Filter{"project_name": "x"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestQueryByText_LimitAndValidation(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, idx.Upsert(ctx, id, []byte("screen "+id), nil))
	}

	results, err := idx.QueryByText(ctx, "screen", 2, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = idx.QueryByText(ctx, "screen", 0, nil)
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []byte("one"), nil))

	removed, err := idx.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	// Deleting an absent record is success, not an error.
	removed, err = idx.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteWhere(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []byte("one"), map[string]string{"project_name": "x"}))
	require.NoError(t, idx.Upsert(ctx, "b", []byte("two"), map[string]string{"project_name": "x"}))
	require.NoError(t, idx.Upsert(ctx, "c", []byte("three"), map[string]string{"project_name": "y"}))

	deleted, err := idx.DeleteWhere(ctx, Filter{"project_name": "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	all, err := idx.GetAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].ID)
}

func TestUpdateMetadata(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "a", []byte("one"), map[string]string{"k": "v"}))

	ok, err := idx.UpdateMetadata(ctx, "a", map[string]string{"k": "v2"})
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := idx.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Metadata["k"])

	ok, err = idx.UpdateMetadata(ctx, "missing", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosedIndex(t *testing.T) {
	idx, err := Open(t.TempDir(), NewHashEmbedder(16))
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	err = idx.Upsert(context.Background(), "a", []byte("x"), nil)
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}
