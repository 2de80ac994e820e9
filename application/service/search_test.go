package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickworth/photofind/domain/photo"
)

func searchFixture(t *testing.T) (*Search, *fakeEmbedder, *memStore) {
	t.Helper()

	embedder := newFakeEmbedder()
	store := newMemStore()
	svc := NewSearch(embedder, store, 20, &atomic.Bool{}, nil)
	return svc, embedder, store
}

func seedCorpus(t *testing.T, store *memStore) {
	t.Helper()

	photos := []photo.Photo{
		photo.New("p-beach", "beach.jpg").
			WithCaption("sunset at the beach").
			WithEmbedding([]float64{1, 0, 0}),
		photo.New("p-dog", "dog.jpg").
			WithCaption("dog in the park").
			WithEmbedding([]float64{0, 1, 0}),
		photo.New("p-snow", "snow.jpg").
			WithCaption("skiing in fresh snow").
			WithEmbedding([]float64{-1, 0, 0}),
		photo.New("p-unprocessed", "new.jpg"),
	}
	require.NoError(t, store.SaveAll(context.Background(), photos))
}

func TestSearch_Query(t *testing.T) {
	svc, embedder, store := searchFixture(t)
	seedCorpus(t, store)
	embedder.prime("beach sunset", []float64{1, 0, 0})

	results, err := svc.Query(context.Background(), "beach sunset")
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "p-beach", results[0].Photo().ID())
	assert.InDelta(t, 1.0, results[0].Score(), 0.001)
	assert.Equal(t, "p-snow", results[3].Photo().ID())

	for _, res := range results {
		assert.False(t, res.Photo().HasEmbedding(), "results must not carry vectors")
	}
}

func TestSearch_QueryTrimsWhitespace(t *testing.T) {
	svc, embedder, store := searchFixture(t)
	seedCorpus(t, store)
	embedder.prime("beach sunset", []float64{1, 0, 0})

	results, err := svc.Query(context.Background(), "  beach sunset  ")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "p-beach", results[0].Photo().ID())
}

func TestSearch_QueryEmptyQuery(t *testing.T) {
	svc, _, store := searchFixture(t)
	seedCorpus(t, store)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Query(context.Background(), q)
		require.ErrorIs(t, err, ErrInvalidInput, "query %q", q)
	}
}

func TestSearch_QueryInvalidLimit(t *testing.T) {
	svc, _, store := searchFixture(t)
	seedCorpus(t, store)

	_, err := svc.Query(context.Background(), "dogs", WithLimit(0))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Query(context.Background(), "dogs", WithLimit(-5))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch_QueryLimitTruncates(t *testing.T) {
	svc, embedder, store := searchFixture(t)
	seedCorpus(t, store)
	embedder.prime("anything", []float64{1, 0, 0})

	results, err := svc.Query(context.Background(), "anything", WithLimit(2))
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_QueryEmptyCorpus(t *testing.T) {
	svc, _, _ := searchFixture(t)

	results, err := svc.Query(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_QueryProviderDown(t *testing.T) {
	svc, embedder, store := searchFixture(t)
	seedCorpus(t, store)
	embedder.fail = errProviderDown

	_, err := svc.Query(context.Background(), "beach")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	require.ErrorIs(t, err, errProviderDown, "cause must stay wrapped for logging")
}

func TestSearch_QueryStoreDown(t *testing.T) {
	svc, _, store := searchFixture(t)
	store.fail = errProviderDown

	_, err := svc.Query(context.Background(), "beach")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestSearch_QueryNoEmbedder(t *testing.T) {
	store := newMemStore()
	svc := NewSearch(nil, store, 20, &atomic.Bool{}, nil)

	assert.False(t, svc.Available())

	_, err := svc.Query(context.Background(), "beach")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestSearch_QueryClosedClient(t *testing.T) {
	embedder := newFakeEmbedder()
	store := newMemStore()
	closed := &atomic.Bool{}
	svc := NewSearch(embedder, store, 20, closed, nil)

	closed.Store(true)

	_, err := svc.Query(context.Background(), "beach")
	require.ErrorIs(t, err, ErrClientClosed)
}
