// Package watchlist, membership tracker.
// This file contains the tracker's operations against the watchlist
// collection, and the change notification that keeps open views in sync.
package watchlist

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/events"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/tmdb"
)

// Service provides watchlist membership operations. Every successful
// mutation publishes events.TopicWatchlistChanged; that broadcast is the
// sole cross-component synchronization mechanism, and views re-pull on
// notification rather than sharing state.
type Service struct {
	store *store.Client
	bus   *events.Bus
	log   zerolog.Logger
}

// NewService creates a Service.
func NewService(client *store.Client, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		store: client,
		bus:   bus,
		log:   log.With().Str("component", "watchlist").Logger(),
	}
}

// find is the error-propagating membership lookup. Add needs to tell a
// transport failure apart from genuine absence, otherwise a broken store
// would let duplicate writes through.
func (s *Service) find(ctx context.Context, movieID, userID int) (*Entry, error) {
	var entries []Entry
	filter := store.Filter(map[string]any{"tmdb_id": movieID, "userId": userID})
	if err := s.store.List(ctx, store.CollectionWatchlist, filter, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	// First match wins; duplicates created by racing adds are neither
	// deduplicated nor detected here.
	return &entries[0], nil
}

// IsSaved reports whether the user has the movie saved, returning the
// entry or nil. Transport errors degrade to absence (logged) rather than
// propagating, per the tracker's contract.
func (s *Service) IsSaved(ctx context.Context, movieID, userID int) *Entry {
	entry, err := s.find(ctx, movieID, userID)
	if err != nil {
		s.log.Warn().Err(err).Int("movie_id", movieID).Int("user_id", userID).Msg("membership lookup failed")
		return nil
	}
	return entry
}

// List returns all of the user's watchlist entries.
func (s *Service) List(ctx context.Context, userID int) ([]Entry, error) {
	var entries []Entry
	filter := store.Filter(map[string]any{"userId": userID})
	if err := s.store.List(ctx, store.CollectionWatchlist, filter, &entries); err != nil {
		return nil, apperror.NewStoreError("failed to load watchlist", err)
	}
	return entries, nil
}

// Add saves a movie for a user and returns the resulting entry. A
// duplicate pre-check approximates the at-most-one-entry invariant: an
// existing match returns StatusExists (with that entry) without writing.
// The check and the create are two separate round trips, so two
// concurrent adds for the same (user, movie) can both pass the check and
// both write, a known limitation of the design, since the store offers no
// conditional-write primitive. The created record is decoded from the
// create response itself, so callers learn the assigned record id without
// a second lookup. On success the change notification is published;
// callers own user-facing messaging.
func (s *Service) Add(ctx context.Context, movie tmdb.Movie, userID int) (Status, *Entry, error) {
	existing, err := s.find(ctx, movie.ID, userID)
	if err != nil {
		return StatusError, nil, apperror.NewStoreError("failed to check the watchlist", err)
	}
	if existing != nil {
		return StatusExists, existing, nil
	}

	record := map[string]any{
		// Minimal projection; id is assigned by the store.
		"tmdb_id":      movie.ID,
		"title":        movie.Title,
		"poster_path":  movie.PosterPath,
		"vote_average": movie.VoteAverage,
		"userId":       userID,
	}
	var created Entry
	if err := s.store.Create(ctx, store.CollectionWatchlist, record, &created); err != nil {
		return StatusError, nil, apperror.NewStoreError("failed to add to watchlist", err)
	}

	s.bus.Publish(events.TopicWatchlistChanged)
	s.log.Info().Int("movie_id", movie.ID).Int("user_id", userID).Msg("movie added to watchlist")
	return StatusAdded, &created, nil
}

// Remove deletes an entry by its record id, not by movie id; the caller
// must already hold the record id from a prior IsSaved or List call. On
// success the change notification is published.
func (s *Service) Remove(ctx context.Context, recordID int) (Status, error) {
	if err := s.store.Delete(ctx, store.CollectionWatchlist, recordID); err != nil {
		return StatusError, apperror.NewStoreError("failed to remove from watchlist", err)
	}

	s.bus.Publish(events.TopicWatchlistChanged)
	s.log.Info().Int("record_id", recordID).Msg("watchlist entry removed")
	return StatusRemoved, nil
}
