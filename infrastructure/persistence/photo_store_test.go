package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/internal/database"
)

func testStore(t *testing.T) *PhotoStore {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewPhotoStore(ctx, db)
	require.NoError(t, err)
	return store
}

func samplePhoto(id string) photo.Photo {
	return photo.New(id, id+".jpg").
		WithCaption("caption " + id).
		WithKeywords([]string{"family", id}).
		WithImageURL("https://photos.example.com/" + id + ".jpg").
		WithMetadata(map[string]any{"album": "test"})
}

func TestPhotoStore_SaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, samplePhoto("p-1").WithEmbedding([]float64{0.1, 0.2, 0.3}))
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt().IsZero())

	got, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1.jpg", got.Filename())
	assert.Equal(t, "caption p-1", got.Caption())
	assert.Equal(t, []string{"family", "p-1"}, got.Keywords())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, got.Embedding())
	assert.Equal(t, "test", got.Metadata()["album"])
}

func TestPhotoStore_GetMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, photo.ErrNotFound)
}

func TestPhotoStore_SaveUpserts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, samplePhoto("p-1"))
	require.NoError(t, err)

	_, err = store.Save(ctx, samplePhoto("p-1").WithCaption("replaced"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.Caption())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPhotoStore_ListPagination(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []photo.Photo{
		samplePhoto("c"), samplePhoto("a"), samplePhoto("b"),
	}))

	page, err := store.List(ctx, photo.NewListOptions(2, 0))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].ID())
	assert.Equal(t, "b", page[1].ID())

	page, err = store.List(ctx, photo.NewListOptions(2, 2))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].ID())
}

func TestPhotoStore_AllIncludesEmbeddings(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []photo.Photo{
		samplePhoto("p-1").WithEmbedding([]float64{1, 0}),
		samplePhoto("p-2"),
	}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].HasEmbedding())
	assert.False(t, all[1].HasEmbedding())
}

func TestPhotoStore_WithoutEmbedding(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []photo.Photo{
		samplePhoto("p-1").WithEmbedding([]float64{1, 0}),
		samplePhoto("p-2"),
		samplePhoto("p-3"),
	}))

	pending, err := store.WithoutEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "p-2", pending[0].ID())
	assert.Equal(t, "p-3", pending[1].ID())
}

func TestFloat64Slice_ScanValue(t *testing.T) {
	original := Float64Slice{0.1, -0.5, 2.25}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned Float64Slice
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)

	t.Run("nil round trip", func(t *testing.T) {
		var nilSlice Float64Slice
		value, err := nilSlice.Value()
		require.NoError(t, err)
		assert.Nil(t, value)

		var scanned Float64Slice
		require.NoError(t, scanned.Scan(nil))
		assert.Nil(t, scanned)
	})

	t.Run("scan from string", func(t *testing.T) {
		var scanned Float64Slice
		require.NoError(t, scanned.Scan(`[1,2,3]`))
		assert.Equal(t, Float64Slice{1, 2, 3}, scanned)
	})

	t.Run("scan invalid type", func(t *testing.T) {
		var scanned Float64Slice
		require.Error(t, scanned.Scan(42))
	})
}
