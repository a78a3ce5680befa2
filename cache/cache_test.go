package cache_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cinetrack-go/cache"
	"github.com/user/cinetrack-go/config"
	"github.com/user/cinetrack-go/mockstore"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/tmdb"
)

// countingSource records how many remote detail fetches were made.
type countingSource struct {
	detail  *tmdb.MovieDetail
	err     error
	fetches int
}

func (s *countingSource) Details(ctx context.Context, movieID int) (*tmdb.MovieDetail, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func newCache(t *testing.T) (*cache.Store, *mockstore.Server) {
	t.Helper()
	mock := mockstore.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.StoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	client := store.NewClient(cfg, zerolog.Nop())
	return cache.NewStore(client, zerolog.Nop()), mock
}

func detailFor(id int, title string) *tmdb.MovieDetail {
	return &tmdb.MovieDetail{Movie: tmdb.Movie{ID: id, Title: title}, Runtime: 139}
}

func TestGetReturnsNilWhenAbsent(t *testing.T) {
	cacheStore, _ := newCache(t)
	assert.Nil(t, cacheStore.Get(context.Background(), 550))
}

func TestPutThenGet(t *testing.T) {
	cacheStore, _ := newCache(t)
	ctx := context.Background()

	cacheStore.Put(ctx, detailFor(550, "Fight Club"))

	cached := cacheStore.Get(ctx, 550)
	require.NotNil(t, cached)
	assert.Equal(t, "Fight Club", cached.Title)
	assert.Equal(t, 139, cached.Runtime)
}

func TestResolverMissFetchesAndWritesThrough(t *testing.T) {
	cacheStore, mock := newCache(t)
	source := &countingSource{detail: detailFor(550, "Fight Club")}
	resolver := cache.NewResolver(cacheStore, source, zerolog.Nop())

	detail, err := resolver.Details(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", detail.Title)
	assert.Equal(t, 1, source.fetches)
	assert.Len(t, mock.Records(store.CollectionMovieCache), 1)
}

func TestResolverHitSkipsRemoteFetch(t *testing.T) {
	cacheStore, _ := newCache(t)
	source := &countingSource{detail: detailFor(550, "Fight Club")}
	resolver := cache.NewResolver(cacheStore, source, zerolog.Nop())
	ctx := context.Background()

	_, err := resolver.Details(ctx, 550)
	require.NoError(t, err)
	require.Equal(t, 1, source.fetches)

	// Second resolve must come from the cache.
	detail, err := resolver.Details(ctx, 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", detail.Title)
	assert.Equal(t, 1, source.fetches)
}

func TestResolverPropagatesFetchError(t *testing.T) {
	cacheStore, _ := newCache(t)
	source := &countingSource{err: assert.AnError}
	resolver := cache.NewResolver(cacheStore, source, zerolog.Nop())

	_, err := resolver.Details(context.Background(), 550)
	assert.Error(t, err)
}

func TestBrokenCacheDegradesToRemoteFetch(t *testing.T) {
	// Point the cache at a dead address; reads and writes fail but the
	// resolver still serves from the remote source.
	cfg := &config.StoreConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}
	cacheStore := cache.NewStore(store.NewClient(cfg, zerolog.Nop()), zerolog.Nop())
	source := &countingSource{detail: detailFor(550, "Fight Club")}
	resolver := cache.NewResolver(cacheStore, source, zerolog.Nop())

	detail, err := resolver.Details(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", detail.Title)
	assert.Equal(t, 1, source.fetches)
}
