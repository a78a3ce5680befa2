package watchlist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
	"github.com/user/cinetrack-go/events"
	"github.com/user/cinetrack-go/mockstore"
	"github.com/user/cinetrack-go/store"
	"github.com/user/cinetrack-go/watchlist"
)

func newIndicator(t *testing.T) (*watchlist.Indicator, *watchlist.Service, *mockstore.Server) {
	t.Helper()
	mock := mockstore.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.StoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	client := store.NewClient(cfg, zerolog.Nop())
	svc := watchlist.NewService(client, events.NewBus(zerolog.Nop()), zerolog.Nop())
	return watchlist.NewIndicator(svc, testMovie()), svc, mock
}

func TestIndicatorStartsUnknown(t *testing.T) {
	indicator, _, _ := newIndicator(t)
	assert.Equal(t, watchlist.StateUnknown, indicator.State())
}

func TestAnonymousMountResolvesWithoutNetwork(t *testing.T) {
	indicator, _, mock := newIndicator(t)

	indicator.Mount(context.Background(), 0)

	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
	assert.EqualValues(t, 0, mock.RequestCount())
}

func TestAnonymousToggleRejectedWithoutNetwork(t *testing.T) {
	indicator, _, mock := newIndicator(t)
	indicator.Mount(context.Background(), 0)

	status, err := indicator.Toggle(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsAuthError(err))
	assert.Equal(t, watchlist.StatusError, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
	assert.EqualValues(t, 0, mock.RequestCount())
}

func TestAnonymousToggleWithoutMountResolvesNotSaved(t *testing.T) {
	indicator, _, mock := newIndicator(t)

	// Never mounted: the rejection itself settles the card on NotSaved
	// rather than leaving it Unknown.
	status, err := indicator.Toggle(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsAuthError(err))
	assert.Equal(t, watchlist.StatusError, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
	assert.EqualValues(t, 0, mock.RequestCount())
}

func TestMountResolvesMembership(t *testing.T) {
	indicator, svc, _ := newIndicator(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, testMovie(), 7)
	require.NoError(t, err)

	indicator.Mount(ctx, 7)
	assert.Equal(t, watchlist.StateSaved, indicator.State())
	require.NotNil(t, indicator.Entry())
	assert.Equal(t, 42, indicator.Entry().TMDBID)
}

func TestToggleLifecycle(t *testing.T) {
	indicator, _, mock := newIndicator(t)
	ctx := context.Background()

	indicator.Mount(ctx, 7)
	require.Equal(t, watchlist.StateNotSaved, indicator.State())

	status, err := indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusAdded, status)
	assert.Equal(t, watchlist.StateSaved, indicator.State())
	require.Len(t, mock.Records(store.CollectionWatchlist), 1)

	status, err = indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusRemoved, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
	assert.Nil(t, indicator.Entry())
	assert.Empty(t, mock.Records(store.CollectionWatchlist))
}

func TestToggleFromUnknownResolvesFirst(t *testing.T) {
	indicator, svc, _ := newIndicator(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, testMovie(), 7)
	require.NoError(t, err)

	// No mount after the identity change: the toggle itself must resolve
	// the unknown state before deciding what to do.
	indicator.SetIdentity(7)
	require.Equal(t, watchlist.StateUnknown, indicator.State())

	status, err := indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusRemoved, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
}

func TestSetIdentityResetsState(t *testing.T) {
	indicator, svc, _ := newIndicator(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, testMovie(), 7)
	require.NoError(t, err)

	indicator.Mount(ctx, 7)
	require.Equal(t, watchlist.StateSaved, indicator.State())

	// A different user does not have the movie saved.
	indicator.SetIdentity(9)
	assert.Equal(t, watchlist.StateUnknown, indicator.State())
	assert.Nil(t, indicator.Entry())
	indicator.Mount(ctx, 9)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())

	// Logging out resolves to NotSaved without a lookup.
	indicator.SetIdentity(0)
	indicator.Mount(ctx, 0)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
}

func TestToggleAfterConcurrentAddReportsExists(t *testing.T) {
	indicator, svc, mock := newIndicator(t)
	ctx := context.Background()

	indicator.Mount(ctx, 7)
	require.Equal(t, watchlist.StateNotSaved, indicator.State())

	// Another view saves the movie after this card resolved. The toggle's
	// add finds it already there and settles on Saved without writing.
	_, _, err := svc.Add(ctx, testMovie(), 7)
	require.NoError(t, err)

	status, err := indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusExists, status)
	assert.Equal(t, watchlist.StateSaved, indicator.State())
	assert.Len(t, mock.Records(store.CollectionWatchlist), 1)
}

// flakyReads lets the first allow GETs through, then answers every later
// GET with 503. Writes always pass.
type flakyReads struct {
	inner http.Handler
	gets  atomic.Int64
	allow int64
}

func (f *flakyReads) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && f.gets.Add(1) > f.allow {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	f.inner.ServeHTTP(w, r)
}

func TestToggleEntryComesFromCreateResponse(t *testing.T) {
	mock := mockstore.New()
	// One GET for the mount, one for the toggle's duplicate check. After
	// the create goes through, reads go dark.
	flaky := &flakyReads{inner: mock.Handler(), allow: 2}
	srv := httptest.NewServer(flaky)
	t.Cleanup(srv.Close)

	cfg := &config.StoreConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	client := store.NewClient(cfg, zerolog.Nop())
	svc := watchlist.NewService(client, events.NewBus(zerolog.Nop()), zerolog.Nop())
	indicator := watchlist.NewIndicator(svc, testMovie())
	ctx := context.Background()

	indicator.Mount(ctx, 7)
	require.Equal(t, watchlist.StateNotSaved, indicator.State())

	status, err := indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusAdded, status)

	// Saved always carries the entry: the record id came back on the
	// create response, with no lookup that a read failure could blank.
	assert.Equal(t, watchlist.StateSaved, indicator.State())
	require.NotNil(t, indicator.Entry())
	assert.NotZero(t, indicator.Entry().ID)

	// The follow-up toggle removes by that id without needing a read.
	status, err = indicator.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, watchlist.StatusRemoved, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
	assert.Empty(t, mock.Records(store.CollectionWatchlist))
}

func TestToggleFailureKeepsState(t *testing.T) {
	cfg := &config.StoreConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}
	client := store.NewClient(cfg, zerolog.Nop())
	svc := watchlist.NewService(client, events.NewBus(zerolog.Nop()), zerolog.Nop())
	indicator := watchlist.NewIndicator(svc, testMovie())
	ctx := context.Background()

	indicator.Mount(ctx, 7) // lookup fails, degrades to NotSaved
	require.Equal(t, watchlist.StateNotSaved, indicator.State())

	status, err := indicator.Toggle(ctx)
	require.Error(t, err)
	assert.Equal(t, watchlist.StatusError, status)
	assert.Equal(t, watchlist.StateNotSaved, indicator.State())
}
