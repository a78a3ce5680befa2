// Package store provides access to the mock CRUD store, the external
// collection-based JSON service that owns all user-generated data (the
// users, watchlist, reviews and movie_cache collections). It centralizes
// data-access concerns the same way a database package would: one client,
// constructed once, injected into every service that needs it.
//
// The store speaks a json-server style protocol: GET on a collection
// returns an array and accepts exact-match query parameters on any field,
// POST creates a record and assigns an integer id, PUT replaces a record
// wholesale, DELETE removes it. There are no transactions and no
// server-side validation beyond basic shape, which is why the services
// above this package document their check-then-create races instead of
// pretending the store can prevent them.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
)

// Collection names owned by the store.
const (
	CollectionUsers      = "users"
	CollectionWatchlist  = "watchlist"
	CollectionReviews    = "reviews"
	CollectionMovieCache = "movie_cache"
)

// Client is an HTTP client for the mock CRUD store.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a store client from configuration.
func NewClient(cfg *config.StoreConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "store").Logger(),
	}
}

// Filter builds the exact-match query parameters the store understands.
// Values are rendered with fmt.Sprint, so ints and strings both work.
func Filter(pairs map[string]any) url.Values {
	values := url.Values{}
	for key, value := range pairs {
		values.Set(key, fmt.Sprint(value))
	}
	return values
}

// List performs a filtered read on a collection and decodes the resulting
// array into out (a pointer to a slice). A nil filter lists everything.
func (c *Client) List(ctx context.Context, collection string, filter url.Values, out any) error {
	endpoint := c.collectionURL(collection)
	if len(filter) > 0 {
		endpoint += "?" + filter.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Get reads a single record by id. Missing records surface as a
// NotFoundError.
func (c *Client) Get(ctx context.Context, collection string, id int, out any) error {
	return c.do(ctx, http.MethodGet, c.recordURL(collection, id), nil, out)
}

// Create POSTs a new record. The store assigns the id; the created record
// (including it) is decoded into out when out is non-nil.
func (c *Client) Create(ctx context.Context, collection string, body any, out any) error {
	return c.do(ctx, http.MethodPost, c.collectionURL(collection), body, out)
}

// Replace PUTs a full record by id. Partial updates are not part of the
// store's contract; callers merge before replacing.
func (c *Client) Replace(ctx context.Context, collection string, id int, body any, out any) error {
	return c.do(ctx, http.MethodPut, c.recordURL(collection, id), body, out)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, collection string, id int) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(collection, id), nil, nil)
}

func (c *Client) collectionURL(collection string) string {
	return c.baseURL + "/" + collection
}

func (c *Client) recordURL(collection string, id int) string {
	return c.baseURL + "/" + collection + "/" + strconv.Itoa(id)
}

// do runs one request against the store and maps every failure mode into
// an apperror so callers never see raw transport errors.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.NewInternalError("failed to encode store request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperror.NewInternalError("failed to build store request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("url", endpoint).Msg("store request failed")
		return apperror.NewStoreError("data store is unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NewNotFoundError("record not found", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Error().Int("status", resp.StatusCode).Str("method", method).Str("url", endpoint).Msg("store returned an error status")
		return apperror.NewStoreError(fmt.Sprintf("data store returned status %d", resp.StatusCode), nil)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewStoreError("failed to decode store response", err)
	}
	return nil
}
