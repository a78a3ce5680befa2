package store_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
	"github.com/user/cinetrack-go/mockstore"
	"github.com/user/cinetrack-go/store"
)

type review struct {
	ID      int    `json:"id"`
	MovieID int    `json:"movieId"`
	Comment string `json:"comment"`
}

func newClient(t *testing.T) (*store.Client, *mockstore.Server) {
	t.Helper()
	mock := mockstore.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.StoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	return store.NewClient(cfg, zerolog.Nop()), mock
}

func TestListWithFilter(t *testing.T) {
	client, mock := newClient(t)
	mock.Seed(store.CollectionReviews,
		map[string]any{"movieId": 42, "comment": "great"},
		map[string]any{"movieId": 99, "comment": "meh"},
	)

	var reviews []review
	filter := store.Filter(map[string]any{"movieId": 42})
	require.NoError(t, client.List(context.Background(), store.CollectionReviews, filter, &reviews))

	require.Len(t, reviews, 1)
	assert.Equal(t, "great", reviews[0].Comment)
}

func TestCreateDecodesAssignedID(t *testing.T) {
	client, _ := newClient(t)

	var created review
	err := client.Create(context.Background(), store.CollectionReviews,
		map[string]any{"movieId": 42, "comment": "great"}, &created)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	client, _ := newClient(t)

	var out review
	err := client.Get(context.Background(), store.CollectionReviews, 123, &out)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReplaceThenGet(t *testing.T) {
	client, mock := newClient(t)
	mock.Seed(store.CollectionReviews, map[string]any{"id": 7, "movieId": 42, "comment": "old"})

	err := client.Replace(context.Background(), store.CollectionReviews, 7,
		map[string]any{"movieId": 42, "comment": "new"}, nil)
	require.NoError(t, err)

	var out review
	require.NoError(t, client.Get(context.Background(), store.CollectionReviews, 7, &out))
	assert.Equal(t, "new", out.Comment)
	assert.Equal(t, 7, out.ID)
}

func TestDelete(t *testing.T) {
	client, mock := newClient(t)
	mock.Seed(store.CollectionReviews, map[string]any{"id": 7, "movieId": 42})

	require.NoError(t, client.Delete(context.Background(), store.CollectionReviews, 7))
	assert.Empty(t, mock.Records(store.CollectionReviews))
}

func TestUnreachableStoreIsStoreError(t *testing.T) {
	cfg := &config.StoreConfig{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond}
	client := store.NewClient(cfg, zerolog.Nop())

	var out []review
	err := client.List(context.Background(), store.CollectionReviews, nil, &out)
	require.Error(t, err)
	assert.True(t, apperror.IsStoreError(err))
}
