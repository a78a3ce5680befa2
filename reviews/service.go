// Package reviews, review registry.
// This file contains the registry's operations: listing, the
// one-review-per-user-per-movie rule, ownership-checked edits and
// deletes, the watchlist removal that follows a submission, and the
// author-name rewrite driven by profile renames.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/watchlist"
)

// Service provides review registry operations.
type Service struct {
	store     *store.Client
	watchlist *watchlist.Service
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewService creates a Service. The watchlist service is used for the
// submission side effect: reviewing a movie removes it from the
// reviewer's watchlist.
func NewService(client *store.Client, wl *watchlist.Service, validate *validator.Validate, log zerolog.Logger) *Service {
	return &Service{
		store:     client,
		watchlist: wl,
		validate:  validate,
		log:       log.With().Str("component", "reviews").Logger(),
	}
}

// List returns all reviews for a movie.
func (s *Service) List(ctx context.Context, movieID int) ([]Review, error) {
	var reviews []Review
	filter := store.Filter(map[string]any{"movieId": movieID})
	if err := s.store.List(ctx, store.CollectionReviews, filter, &reviews); err != nil {
		return nil, apperror.NewStoreError("failed to load reviews", err)
	}
	return reviews, nil
}

// ListByUser returns all reviews a user has written, across movies.
func (s *Service) ListByUser(ctx context.Context, userID int) ([]Review, error) {
	var reviews []Review
	filter := store.Filter(map[string]any{"userId": userID})
	if err := s.store.List(ctx, store.CollectionReviews, filter, &reviews); err != nil {
		return nil, apperror.NewStoreError("failed to load reviews", err)
	}
	return reviews, nil
}

// HasReviewed reports whether the user already has a review for the
// movie. The check keys on the author id, so renaming a profile cannot
// open a second review slot.
func (s *Service) HasReviewed(ctx context.Context, movieID, userID int) (bool, error) {
	var reviews []Review
	filter := store.Filter(map[string]any{"movieId": movieID, "userId": userID})
	if err := s.store.List(ctx, store.CollectionReviews, filter, &reviews); err != nil {
		return false, apperror.NewStoreError("failed to check existing reviews", err)
	}
	return len(reviews) > 0, nil
}

// Create submits a review. Validation failures return before any store
// call. A second review by the same author for the same movie is a
// conflict; like the watchlist pre-check this is a read-then-write, so
// two racing submissions can both land. On success the movie is removed
// from the submitter's watchlist if present; that removal is best effort
// and its failure does not undo the submission.
func (s *Service) Create(ctx context.Context, userID int, userName string, req CreateReviewRequest) (*Review, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.FromValidation(err)
	}

	reviewed, err := s.HasReviewed(ctx, req.MovieID, userID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, apperror.NewConflictError("you have already reviewed this movie", nil)
	}

	record := map[string]any{
		"movieId": req.MovieID,
		"rating":  req.Rating,
		"comment": req.Comment,
		"user":    userName,
		"userId":  userID,
		"date":    time.Now().Format("2006-01-02"),
	}
	var created Review
	if err := s.store.Create(ctx, store.CollectionReviews, record, &created); err != nil {
		return nil, apperror.NewStoreError("failed to submit review", err)
	}
	s.log.Info().Int("movie_id", req.MovieID).Int("user_id", userID).Int("review_id", created.ID).Msg("review submitted")

	// Reviewing a movie retires it from the watchlist: the list tracks
	// intent to watch, and a review means it has been watched.
	if entry := s.watchlist.IsSaved(ctx, req.MovieID, userID); entry != nil {
		if _, err := s.watchlist.Remove(ctx, entry.ID); err != nil {
			s.log.Warn().Err(err).Int("movie_id", req.MovieID).Int("user_id", userID).Msg("failed to remove reviewed movie from watchlist")
		}
	}

	return &created, nil
}

// Update edits a review's rating and comment. Only the author may edit;
// identity fields and the submission date are preserved across the full
// replace the store requires.
func (s *Service) Update(ctx context.Context, id, userID int, req UpdateReviewRequest) (*Review, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var existing Review
	if err := s.store.Get(ctx, store.CollectionReviews, id, &existing); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFoundError("review not found", err)
		}
		return nil, apperror.NewStoreError("failed to load review", err)
	}
	if existing.UserID != userID {
		return nil, apperror.NewUnauthorizedError("you can only edit your own reviews", nil)
	}

	existing.Rating = req.Rating
	existing.Comment = req.Comment
	var updated Review
	if err := s.store.Replace(ctx, store.CollectionReviews, id, existing, &updated); err != nil {
		return nil, apperror.NewStoreError("failed to update review", err)
	}
	s.log.Info().Int("review_id", id).Int("user_id", userID).Msg("review updated")
	return &updated, nil
}

// Delete removes a review. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id, userID int) error {
	var existing Review
	if err := s.store.Get(ctx, store.CollectionReviews, id, &existing); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFoundError("review not found", err)
		}
		return apperror.NewStoreError("failed to load review", err)
	}
	if existing.UserID != userID {
		return apperror.NewUnauthorizedError("you can only delete your own reviews", nil)
	}

	if err := s.store.Delete(ctx, store.CollectionReviews, id); err != nil {
		return apperror.NewStoreError("failed to delete review", err)
	}
	s.log.Info().Int("review_id", id).Int("user_id", userID).Msg("review deleted")
	return nil
}

// RewriteAuthorName updates the author snapshot on every review the user
// has written. Replaces run sequentially; a failure on one review does
// not stop the rest, and all failures are reported together so the
// caller can log the partial result.
func (s *Service) RewriteAuthorName(ctx context.Context, userID int, name string) error {
	reviews, err := s.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	var failures []string
	for _, review := range reviews {
		if review.User == name {
			continue
		}
		review.User = name
		if err := s.store.Replace(ctx, store.CollectionReviews, review.ID, review, nil); err != nil {
			failures = append(failures, fmt.Sprintf("review %d: %v", review.ID, err))
		}
	}
	if len(failures) > 0 {
		return errors.New("author rename incomplete: " + strings.Join(failures, "; "))
	}
	s.log.Info().Int("user_id", userID).Int("reviews", len(reviews)).Msg("author name rewritten on reviews")
	return nil
}
