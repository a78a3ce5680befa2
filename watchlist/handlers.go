// Package watchlist, membership tracker.
// This file handles the HTTP surface for the watchlist collection.
package watchlist

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/session"
	"github.com/user/cinetrack-go/tmdb"
)

// Handlers wraps the Service with HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the watchlist routes. The whole subtree is
// expected to sit behind session.RequireSession.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Get("/status", h.HandleStatus())
	r.Post("/", h.HandleAdd())
	r.Post("/toggle", h.HandleToggle())
	r.Delete("/{id}", h.HandleRemove())
}

// statusResponse reports the outcome of a mutation, or of a membership
// probe (saved/entry).
type statusResponse struct {
	Status Status `json:"status,omitempty"`
	Saved  bool   `json:"saved"`
	Entry  *Entry `json:"entry,omitempty"`
}

// HandleList godoc
// @Summary List the session user's watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {array} watchlist.Entry
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/watchlist [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}

		entries, err := h.service.List(r.Context(), user.ID)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		if entries == nil {
			entries = []Entry{}
		}
		session.WriteJSON(w, http.StatusOK, entries)
	}
}

// HandleStatus godoc
// @Summary Check whether a movie is saved
// @Description Probes membership for one movie. Transport failures report
// @Description the movie as not saved rather than failing the request.
// @Tags watchlist
// @Produce json
// @Param movie_id query int true "Movie id"
// @Success 200 {object} watchlist.statusResponse
// @Failure 400 {object} apperror.ErrorResponse "Bad movie id"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Router /api/v1/watchlist/status [get]
func (h *Handlers) HandleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}
		movieID, err := strconv.Atoi(r.URL.Query().Get("movie_id"))
		if err != nil {
			session.WriteError(w, r, apperror.NewValidationError("movie_id must be an integer", err))
			return
		}

		entry := h.service.IsSaved(r.Context(), movieID, user.ID)
		session.WriteJSON(w, http.StatusOK, statusResponse{
			Saved: entry != nil,
			Entry: entry,
		})
	}
}

// HandleAdd godoc
// @Summary Save a movie to the watchlist
// @Description Saves a minimal projection of the movie. Adding a movie
// @Description that is already saved is not an error: it reports "exists"
// @Description and writes nothing.
// @Tags watchlist
// @Accept json
// @Produce json
// @Param movieBody body tmdb.Movie true "Movie to save"
// @Success 200 {object} watchlist.statusResponse "Already saved"
// @Success 201 {object} watchlist.statusResponse "Saved"
// @Failure 400 {object} apperror.ErrorResponse "Bad body"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/watchlist [post]
func (h *Handlers) HandleAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}

		var movie tmdb.Movie
		if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
			session.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()
		if movie.ID == 0 {
			session.WriteError(w, r, apperror.NewValidationError("movie id is required", nil))
			return
		}

		status, entry, err := h.service.Add(r.Context(), movie, user.ID)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}

		code := http.StatusCreated
		if status == StatusExists {
			code = http.StatusOK
		}
		session.WriteJSON(w, code, statusResponse{Status: status, Saved: true, Entry: entry})
	}
}

// HandleToggle godoc
// @Summary Toggle a movie's watchlist membership
// @Description Resolves current membership, then adds or removes. The
// @Description card indicator uses this so one tap flips the state.
// @Tags watchlist
// @Accept json
// @Produce json
// @Param movieBody body tmdb.Movie true "Movie to toggle"
// @Success 200 {object} watchlist.statusResponse
// @Failure 400 {object} apperror.ErrorResponse "Bad body"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/watchlist/toggle [post]
func (h *Handlers) HandleToggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}

		var movie tmdb.Movie
		if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
			session.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()
		if movie.ID == 0 {
			session.WriteError(w, r, apperror.NewValidationError("movie id is required", nil))
			return
		}

		// A per-request indicator: resolve membership, then flip it.
		indicator := NewIndicator(h.service, movie)
		indicator.Mount(r.Context(), user.ID)
		status, err := indicator.Toggle(r.Context())
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, statusResponse{
			Status: status,
			Saved:  indicator.State() == StateSaved,
			Entry:  indicator.Entry(),
		})
	}
}

// HandleRemove godoc
// @Summary Remove a watchlist entry
// @Description Deletes by record id, not movie id. The client learns the
// @Description record id from the list or status endpoints.
// @Tags watchlist
// @Produce json
// @Param id path int true "Watchlist record id"
// @Success 200 {object} watchlist.statusResponse "Removed"
// @Failure 400 {object} apperror.ErrorResponse "Bad id"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/watchlist/{id} [delete]
func (h *Handlers) HandleRemove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			session.WriteError(w, r, apperror.NewValidationError("id must be an integer", err))
			return
		}

		status, err := h.service.Remove(r.Context(), recordID)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, statusResponse{Status: status, Saved: false})
	}
}
