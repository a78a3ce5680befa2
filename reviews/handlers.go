// Package reviews, review registry.
// This file handles the HTTP surface for reviews.
package reviews

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/session"
)

// Handlers wraps the Service with HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterPublicRoutes mounts the review routes that need no session:
// reading a movie's reviews.
func (h *Handlers) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
}

// RegisterProtectedRoutes mounts the session-gated review routes.
func (h *Handlers) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/mine", h.HandleListMine())
	r.Post("/", h.HandleCreate())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List a movie's reviews
// @Tags reviews
// @Produce json
// @Param movie_id query int true "Movie id"
// @Success 200 {array} reviews.Review
// @Failure 400 {object} apperror.ErrorResponse "Bad movie id"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/reviews [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := strconv.Atoi(r.URL.Query().Get("movie_id"))
		if err != nil {
			session.WriteError(w, r, apperror.NewValidationError("movie_id must be an integer", err))
			return
		}

		reviews, err := h.service.List(r.Context(), movieID)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		if reviews == nil {
			reviews = []Review{}
		}
		session.WriteJSON(w, http.StatusOK, reviews)
	}
}

// HandleListMine godoc
// @Summary List the session user's reviews
// @Tags reviews
// @Produce json
// @Success 200 {array} reviews.Review
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 502 {object} apperror.ErrorResponse "Store unreachable"
// @Router /api/v1/reviews/mine [get]
func (h *Handlers) HandleListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}

		reviews, err := h.service.ListByUser(r.Context(), user.ID)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		if reviews == nil {
			reviews = []Review{}
		}
		session.WriteJSON(w, http.StatusOK, reviews)
	}
}

// HandleCreate godoc
// @Summary Submit a review
// @Description One review per user per movie. Submitting a review removes
// @Description the movie from the submitter's watchlist if it is there.
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewBody body reviews.CreateReviewRequest true "Review"
// @Success 201 {object} reviews.Review
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 409 {object} apperror.ErrorResponse "Already reviewed"
// @Router /api/v1/reviews [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}

		var req CreateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			session.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		review, err := h.service.Create(r.Context(), user.ID, user.Name, req)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusCreated, review)
	}
}

// HandleUpdate godoc
// @Summary Edit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Review id"
// @Param reviewBody body reviews.UpdateReviewRequest true "New rating and comment"
// @Success 200 {object} reviews.Review
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Review not found"
// @Router /api/v1/reviews/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			session.WriteError(w, r, apperror.NewValidationError("id must be an integer", err))
			return
		}

		var req UpdateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			session.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		review, err := h.service.Update(r.Context(), id, user.ID, req)
		if err != nil {
			session.WriteError(w, r, err)
			return
		}
		session.WriteJSON(w, http.StatusOK, review)
	}
}

// HandleDelete godoc
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review id"
// @Success 204 "Deleted"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Review not found"
// @Router /api/v1/reviews/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			session.WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
			return
		}
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			session.WriteError(w, r, apperror.NewValidationError("id must be an integer", err))
			return
		}

		if err := h.service.Delete(r.Context(), id, user.ID); err != nil {
			session.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
