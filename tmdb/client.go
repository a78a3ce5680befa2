// Package tmdb provides read-only access to the external movie metadata
// provider. Every accessor is a single parameterized GET carrying the API
// key and locale as query parameters; responses are decoded as-is.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/config"
)

// Client is an HTTP client for the metadata provider.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	imageBaseURL string
	http         *http.Client
	log          zerolog.Logger
}

// NewClient creates a metadata client from configuration.
func NewClient(cfg *config.MetadataConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		imageBaseURL: cfg.ImageBaseURL,
		http:         &http.Client{Timeout: cfg.Timeout},
		log:          log.With().Str("component", "tmdb").Logger(),
	}
}

// ImageURL resolves a poster/backdrop path against the image base URL.
// Empty paths resolve to an empty string rather than a broken link.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/trending/movie/week", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Popular returns the popular movie list for the given page (1-based;
// 0 means page 1).
func (c *Client) Popular(ctx context.Context, page int) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/movie/popular", pageQuery(page), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// TopRated returns the top-rated movie list for the given page.
func (c *Client) TopRated(ctx context.Context, page int) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/movie/top_rated", pageQuery(page), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Details returns the full detail payload for one movie.
func (c *Client) Details(ctx context.Context, movieID int) (*MovieDetail, error) {
	var detail MovieDetail
	if err := c.get(ctx, "/movie/"+strconv.Itoa(movieID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Credits returns the cast list for one movie.
func (c *Client) Credits(ctx context.Context, movieID int) (*Credits, error) {
	var credits Credits
	if err := c.get(ctx, "/movie/"+strconv.Itoa(movieID)+"/credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// Similar returns titles similar to one movie.
func (c *Client) Similar(ctx context.Context, movieID int) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, "/movie/"+strconv.Itoa(movieID)+"/similar", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Videos returns the trailers/teasers for one movie.
func (c *Client) Videos(ctx context.Context, movieID int) (*VideoList, error) {
	var list VideoList
	if err := c.get(ctx, "/movie/"+strconv.Itoa(movieID)+"/videos", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Genres returns the genre catalog used by the browse filters.
func (c *Client) Genres(ctx context.Context) (*GenreList, error) {
	var list GenreList
	if err := c.get(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DiscoverFilter narrows a Discover call. Zero values are omitted.
type DiscoverFilter struct {
	GenreID int    // with_genres
	Year    int    // primary_release_year
	SortBy  string // e.g. "popularity.desc"
	Page    int
}

// Discover returns movies matching the filter.
func (c *Client) Discover(ctx context.Context, filter DiscoverFilter) (*MovieList, error) {
	query := pageQuery(filter.Page)
	if filter.GenreID > 0 {
		query.Set("with_genres", strconv.Itoa(filter.GenreID))
	}
	if filter.Year > 0 {
		query.Set("primary_release_year", strconv.Itoa(filter.Year))
	}
	if filter.SortBy != "" {
		query.Set("sort_by", filter.SortBy)
	}

	var list MovieList
	if err := c.get(ctx, "/discover/movie", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Search returns movies matching a free-text query.
func (c *Client) Search(ctx context.Context, queryText string, page int) (*MovieList, error) {
	if queryText == "" {
		return nil, apperror.NewValidationError("search query is required", nil)
	}
	query := pageQuery(page)
	query.Set("query", queryText)

	var list MovieList
	if err := c.get(ctx, "/search/movie", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// get runs one provider request. The API key and language are attached
// here so accessors only carry endpoint-specific parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)

	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperror.NewInternalError("failed to build metadata request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("metadata request failed")
		return apperror.NewUpstreamError("metadata provider is unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NewNotFoundError("movie not found", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("metadata provider returned an error status")
		return apperror.NewUpstreamError(fmt.Sprintf("metadata provider returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewUpstreamError("failed to decode metadata response", err)
	}
	return nil
}
