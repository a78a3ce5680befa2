// Package movies exposes the discovery surface: browse rails, genre
// catalog, discover filters, search, and the per-movie detail pages. All
// data comes from the metadata provider; only the detail call goes
// through the cache resolver.
package movies

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/cache"
	"github.com/user/cinetrack-go/session"
	"github.com/user/cinetrack-go/tmdb"
)

// Handlers serves the discovery routes.
type Handlers struct {
	client   *tmdb.Client
	resolver *cache.Resolver
}

// NewHandlers creates a Handlers instance.
func NewHandlers(client *tmdb.Client, resolver *cache.Resolver) *Handlers {
	return &Handlers{client: client, resolver: resolver}
}

// RegisterRoutes mounts the discovery routes. All of them are public.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/trending", h.HandleTrending())
	r.Get("/popular", h.HandlePopular())
	r.Get("/top_rated", h.HandleTopRated())
	r.Get("/genres", h.HandleGenres())
	r.Get("/discover", h.HandleDiscover())
	r.Get("/search", h.HandleSearch())
	r.Get("/{id}", h.HandleDetails())
	r.Get("/{id}/credits", h.HandleCredits())
	r.Get("/{id}/similar", h.HandleSimilar())
	r.Get("/{id}/videos", h.HandleVideos())
}

func pageOf(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return page
}

func movieID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.NewValidationError("movie id must be an integer", err)
	}
	return id, nil
}

// HandleTrending godoc
// @Summary This week's trending movies
// @Tags movies
// @Produce json
// @Success 200 {object} tmdb.MovieList
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/trending [get]
func (h *Handlers) HandleTrending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.client.Trending(r.Context())
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandlePopular godoc
// @Summary Popular movies
// @Tags movies
// @Produce json
// @Param page query int false "Page (1-based)"
// @Success 200 {object} tmdb.MovieList
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/popular [get]
func (h *Handlers) HandlePopular() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.client.Popular(r.Context(), pageOf(r))
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleTopRated godoc
// @Summary Top-rated movies
// @Tags movies
// @Produce json
// @Param page query int false "Page (1-based)"
// @Success 200 {object} tmdb.MovieList
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/top_rated [get]
func (h *Handlers) HandleTopRated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.client.TopRated(r.Context(), pageOf(r))
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGenres godoc
// @Summary Genre catalog
// @Tags movies
// @Produce json
// @Success 200 {object} tmdb.GenreList
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/genres [get]
func (h *Handlers) HandleGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.client.Genres(r.Context())
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleDiscover godoc
// @Summary Discover movies by filters
// @Tags movies
// @Produce json
// @Param genre query int false "Genre id"
// @Param year query int false "Primary release year"
// @Param sort_by query string false "Sort key, e.g. popularity.desc"
// @Param page query int false "Page (1-based)"
// @Success 200 {object} tmdb.MovieList
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/discover [get]
func (h *Handlers) HandleDiscover() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		genreID, _ := strconv.Atoi(query.Get("genre"))
		year, _ := strconv.Atoi(query.Get("year"))

		list, err := h.client.Discover(r.Context(), tmdb.DiscoverFilter{
			GenreID: genreID,
			Year:    year,
			SortBy:  query.Get("sort_by"),
			Page:    pageOf(r),
		})
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleSearch godoc
// @Summary Search movies by title
// @Tags movies
// @Produce json
// @Param query query string true "Search text"
// @Param page query int false "Page (1-based)"
// @Success 200 {object} tmdb.MovieList
// @Failure 400 {object} apperror.ErrorResponse "Empty query"
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/search [get]
func (h *Handlers) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.client.Search(r.Context(), r.URL.Query().Get("query"), pageOf(r))
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleDetails godoc
// @Summary Movie detail
// @Description Serves from the detail cache when possible; a miss fetches
// @Description from the provider and writes through.
// @Tags movies
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} tmdb.MovieDetail
// @Failure 400 {object} apperror.ErrorResponse "Bad id"
// @Failure 404 {object} apperror.ErrorResponse "Movie not found"
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/{id} [get]
func (h *Handlers) HandleDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}

		detail, err := h.resolver.Details(r.Context(), id)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, detail)
	}
}

// HandleCredits godoc
// @Summary Movie cast
// @Tags movies
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} tmdb.Credits
// @Failure 400 {object} apperror.ErrorResponse "Bad id"
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/{id}/credits [get]
func (h *Handlers) HandleCredits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}

		credits, err := h.client.Credits(r.Context(), id)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, credits)
	}
}

// HandleSimilar godoc
// @Summary Similar movies
// @Tags movies
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} tmdb.MovieList
// @Failure 400 {object} apperror.ErrorResponse "Bad id"
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/{id}/similar [get]
func (h *Handlers) HandleSimilar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}

		list, err := h.client.Similar(r.Context(), id)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleVideos godoc
// @Summary Movie trailers and teasers
// @Tags movies
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} tmdb.VideoList
// @Failure 400 {object} apperror.ErrorResponse "Bad id"
// @Failure 502 {object} apperror.ErrorResponse "Provider unreachable"
// @Router /api/v1/movies/{id}/videos [get]
func (h *Handlers) HandleVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}

		list, err := h.client.Videos(r.Context(), id)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, list)
	}
}
