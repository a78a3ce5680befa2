// Package session, identity/session store.
// This file handles the HTTP surface for accounts and the session:
// register, login, logout, and profile read/update. It also hosts the
// shared response helpers (WriteJSON/WriteError) used by every handler
// package, keeping error responses uniform across the API.
package session

import (
	"encoding/json"
	"net/http"

	"github.com/user/cinetrack-go/apperror"
)

// Handlers wraps the Service with HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary Create an account
// @Description Registers a new account. Does not log the new user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body session.RegisterRequest true "Account details"
// @Success 201 {object} session.ProfileResponse "Account created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 409 {object} apperror.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		profile, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, profile)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Verifies credentials and establishes the session.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body session.LoginRequest true "Credentials"
// @Success 200 {object} session.ProfileResponse "Session established"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		profile, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Clears the session.
// @Tags auth
// @Produce json
// @Success 204 "Session cleared"
// @Router /auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Logout(); err != nil {
			WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleGetProfile godoc
// @Summary Get the current profile
// @Tags users
// @Produce json
// @Success 200 {object} session.ProfileResponse
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Router /users/me [get]
func (h *Handlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.service.Profile()
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleUpdateProfile godoc
// @Summary Update the current profile
// @Description Merges the patch into the profile. A name change is
// @Description propagated into the author snapshot of the user's reviews.
// @Tags users
// @Accept json
// @Produce json
// @Param profileBody body session.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} session.ProfileResponse
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse "No session"
// @Router /users/me [put]
func (h *Handlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		profile, err := h.service.UpdateProfile(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	}
}

// WriteJSON serializes data to the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standard error response. Errors
// that are not apperror values are wrapped as internal errors so nothing
// leaks raw to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
