// Package cache implements the movie detail cache: a write-through,
// unbounded, no-eviction record store layered in front of the metadata
// provider's detail call, keyed by movie id and persisted in the mock CRUD
// store's movie_cache collection.
//
// Details are treated as immutable for the lifetime of the store: there is
// no TTL, no size bound and no invalidation. That is an accepted product
// assumption, not an oversight.
package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/tmdb"
)

// Store reads and writes cached movie details.
type Store struct {
	store *store.Client
	log   zerolog.Logger
}

// NewStore creates a cache store over the given CRUD store client.
func NewStore(client *store.Client, log zerolog.Logger) *Store {
	return &Store{
		store: client,
		log:   log.With().Str("component", "cache").Logger(),
	}
}

// Get returns the cached detail for a movie id, or nil when absent.
// The lookup is a filtered read; if duplicates exist the first match wins
// and the rest are never detected or cleaned up. Transport errors degrade
// to absence (logged), so a broken cache only costs an extra remote fetch.
func (s *Store) Get(ctx context.Context, movieID int) *tmdb.MovieDetail {
	var cached []tmdb.MovieDetail
	filter := store.Filter(map[string]any{"id": movieID})
	if err := s.store.List(ctx, store.CollectionMovieCache, filter, &cached); err != nil {
		s.log.Warn().Err(err).Int("movie_id", movieID).Msg("cache read failed")
		return nil
	}
	if len(cached) == 0 {
		return nil
	}
	return &cached[0]
}

// Put writes a detail payload through to the cache collection. It is
// fire-and-forget: a failed write is logged, never retried, and never
// surfaced, so it cannot block showing a freshly fetched detail.
func (s *Store) Put(ctx context.Context, detail *tmdb.MovieDetail) {
	if err := s.store.Create(ctx, store.CollectionMovieCache, detail, nil); err != nil {
		s.log.Warn().Err(err).Int("movie_id", detail.ID).Msg("cache write failed")
	}
}

// DetailSource is the remote fetch the resolver falls back to on a cache
// miss. *tmdb.Client satisfies it.
type DetailSource interface {
	Details(ctx context.Context, movieID int) (*tmdb.MovieDetail, error)
}

// Resolver composes the cache with the metadata provider: a hit
// short-circuits the remote detail call, a miss fetches and writes through.
type Resolver struct {
	cache  *Store
	source DetailSource
	log    zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cacheStore *Store, source DetailSource, log zerolog.Logger) *Resolver {
	return &Resolver{
		cache:  cacheStore,
		source: source,
		log:    log.With().Str("component", "cache-resolver").Logger(),
	}
}

// Details returns the detail payload for a movie, from cache when
// possible. Only the remote fetch can fail; cache trouble in either
// direction degrades gracefully.
func (r *Resolver) Details(ctx context.Context, movieID int) (*tmdb.MovieDetail, error) {
	if cached := r.cache.Get(ctx, movieID); cached != nil {
		r.log.Debug().Int("movie_id", movieID).Msg("detail served from cache")
		return cached, nil
	}

	detail, err := r.source.Details(ctx, movieID)
	if err != nil {
		return nil, err
	}
	r.cache.Put(ctx, detail)
	return detail, nil
}
