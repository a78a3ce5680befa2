package tmdb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
	"github.com/user/cinetrack-go/tmdb"
)

func newClient(t *testing.T, handler http.HandlerFunc) *tmdb.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.MetadataConfig{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		Language:     "en-US",
		ImageBaseURL: "https://image.example/t/p/original",
		Timeout:      2 * time.Second,
	}
	return tmdb.NewClient(cfg, zerolog.Nop())
}

func TestTrendingAttachesKeyAndLanguage(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(tmdb.MovieList{Page: 1, Results: []tmdb.Movie{{ID: 42, Title: "The Answer"}}})
	})

	list, err := client.Trending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/trending/movie/week", gotPath)
	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])
	assert.Equal(t, []string{"en-US"}, gotQuery["language"])
	require.Len(t, list.Results, 1)
	assert.Equal(t, "The Answer", list.Results[0].Title)
}

func TestPopularDefaultsToPageOne(t *testing.T) {
	var gotPage string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		json.NewEncoder(w).Encode(tmdb.MovieList{})
	})

	_, err := client.Popular(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "1", gotPage)
}

func TestSearchRejectsEmptyQueryWithoutRequest(t *testing.T) {
	requested := false
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})

	_, err := client.Search(context.Background(), "", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
	assert.False(t, requested)
}

func TestDiscoverOmitsZeroFilters(t *testing.T) {
	var gotQuery map[string][]string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(tmdb.MovieList{})
	})

	_, err := client.Discover(context.Background(), tmdb.DiscoverFilter{GenreID: 28})
	require.NoError(t, err)
	assert.Equal(t, []string{"28"}, gotQuery["with_genres"])
	assert.NotContains(t, gotQuery, "primary_release_year")
	assert.NotContains(t, gotQuery, "sort_by")
}

func TestDetailsNotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Details(context.Background(), 123456)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProviderErrorStatusIsUpstreamError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Genres(context.Background())
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.UpstreamError, appErr.Type)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode())
}

func TestImageURL(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {})

	assert.Equal(t, "https://image.example/t/p/original/poster.jpg", client.ImageURL("/poster.jpg"))
	assert.Equal(t, "", client.ImageURL(""))
}
