package reviews_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
	"github.com/user/cinetrack-go/events"
	"github.com/user/cinetrack-go/mockstore"
	"github.com/user/cinetrack-go/reviews"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/tmdb"
	"github.com/user/cinetrack-go/watchlist"
)

func newService(t *testing.T) (*reviews.Service, *watchlist.Service, *mockstore.Server) {
	t.Helper()
	mock := mockstore.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.StoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	client := store.NewClient(cfg, zerolog.Nop())
	wl := watchlist.NewService(client, events.NewBus(zerolog.Nop()), zerolog.Nop())
	svc := reviews.NewService(client, wl, validator.New(), zerolog.Nop())
	return svc, wl, mock
}

func validRequest() reviews.CreateReviewRequest {
	return reviews.CreateReviewRequest{MovieID: 42, Rating: 8, Comment: "held up on rewatch"}
}

func TestCreateReview(t *testing.T) {
	svc, _, _ := newService(t)

	created, err := svc.Create(context.Background(), 7, "Ada", validRequest())
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, 42, created.MovieID)
	assert.Equal(t, 8, created.Rating)
	assert.Equal(t, "Ada", created.User)
	assert.Equal(t, 7, created.UserID)
	assert.Equal(t, time.Now().Format("2006-01-02"), created.Date)
}

func TestCreateValidationFailsBeforeAnyStoreCall(t *testing.T) {
	svc, _, mock := newService(t)

	cases := []reviews.CreateReviewRequest{
		{MovieID: 42, Rating: 0, Comment: "no rating"},
		{MovieID: 42, Rating: 11, Comment: "out of range"},
		{MovieID: 42, Rating: 8, Comment: ""},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), 7, "Ada", req)
		require.Error(t, err)
		assert.True(t, apperror.IsValidationError(err))
	}
	assert.EqualValues(t, 0, mock.RequestCount())
}

func TestSecondReviewForSameMovieIsConflict(t *testing.T) {
	svc, _, mock := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, 7, "Ada", validRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
	assert.Len(t, mock.Records(store.CollectionReviews), 1)
}

func TestRenameDoesNotOpenSecondReviewSlot(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	// The uniqueness rule keys on the author id, so the same user under a
	// new display name still conflicts.
	_, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, 7, "Ada Lovelace", validRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestDifferentUsersMayReviewSameMovie(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, 9, "Grace", validRequest())
	require.NoError(t, err)

	listed, err := svc.List(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateRemovesMovieFromSubmitterWatchlist(t *testing.T) {
	svc, wl, _ := newService(t)
	ctx := context.Background()

	movie := tmdb.Movie{ID: 42, Title: "The Answer"}
	_, _, err := wl.Add(ctx, movie, 7)
	require.NoError(t, err)
	_, _, err = wl.Add(ctx, movie, 9)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	assert.Nil(t, wl.IsSaved(ctx, 42, 7))
	assert.NotNil(t, wl.IsSaved(ctx, 42, 9))
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, 7, reviews.UpdateReviewRequest{Rating: 3, Comment: "aged badly"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "aged badly", updated.Comment)
	assert.Equal(t, created.User, updated.User)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.Equal(t, created.Date, updated.Date)
}

func TestUpdateByNonAuthorIsForbidden(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, 9, reviews.UpdateReviewRequest{Rating: 1, Comment: "drive-by"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err))
}

func TestDeleteByNonAuthorIsForbidden(t *testing.T) {
	svc, _, mock := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, 9)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err))
	assert.Len(t, mock.Records(store.CollectionReviews), 1)

	require.NoError(t, svc.Delete(ctx, created.ID, 7))
	assert.Empty(t, mock.Records(store.CollectionReviews))
}

func TestUpdateMissingReviewIsNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Update(context.Background(), 123, 7, reviews.UpdateReviewRequest{Rating: 5, Comment: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRewriteAuthorName(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, "Ada", validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, 7, "Ada", reviews.CreateReviewRequest{MovieID: 99, Rating: 6, Comment: "fine"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 9, "Grace", validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.RewriteAuthorName(ctx, 7, "Ada Lovelace"))

	mine, err := svc.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, review := range mine {
		assert.Equal(t, "Ada Lovelace", review.User)
	}

	theirs, err := svc.ListByUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Grace", theirs[0].User)
}
