// Package session, identity/session store.
// This file contains the business logic for accounts and the session
// lifecycle: register, login, logout, and profile updates with
// denormalized-name propagation into the reviews collection.
package session

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/store"
)

// ReviewRewriter propagates a display-name change into every review the
// user has written. Implemented by the reviews service; declared here so
// this package does not depend on it.
type ReviewRewriter interface {
	RewriteAuthorName(ctx context.Context, userID int, name string) error
}

// Service provides account and session operations.
type Service struct {
	store    *store.Client
	session  *Store
	reviews  ReviewRewriter
	validate *validator.Validate
	log      zerolog.Logger
}

// NewService creates a Service. The rewriter may be nil in tests that do
// not exercise renames.
func NewService(client *store.Client, session *Store, reviews ReviewRewriter, validate *validator.Validate, log zerolog.Logger) *Service {
	return &Service{
		store:    client,
		session:  session,
		reviews:  reviews,
		validate: validate,
		log:      log.With().Str("component", "accounts").Logger(),
	}
}

// Register creates a new account. Email uniqueness is a soft constraint:
// a filtered read checks for an existing record before the create, which
// leaves a window where two concurrent registrations can both pass. The
// store offers no conditional-write primitive, so the race is documented
// rather than hidden. Registration does not log the user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*ProfileResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.FromValidation(err)
	}

	email := strings.ToLower(req.Email)
	var existing []User
	if err := s.store.List(ctx, store.CollectionUsers, store.Filter(map[string]any{"email": email}), &existing); err != nil {
		return nil, apperror.NewStoreError("could not check for an existing account", err)
	}
	if len(existing) > 0 {
		return nil, apperror.NewConflictError("email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := User{
		Name:     req.Name,
		Email:    email,
		Password: string(hash),
	}
	var created User
	if err := s.store.Create(ctx, store.CollectionUsers, map[string]any{
		// The id field is omitted so the store assigns one.
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
	}, &created); err != nil {
		return nil, apperror.NewStoreError("failed to create account", err)
	}

	s.log.Info().Int("user_id", created.ID).Msg("account created")
	return profileOf(&created), nil
}

// Login verifies credentials and establishes the session. The lookup is a
// filtered read by email; the password is verified locally against the
// stored bcrypt hash. First match wins. The same error covers an unknown
// email and a wrong password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*ProfileResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.FromValidation(err)
	}

	var matches []User
	filter := store.Filter(map[string]any{"email": strings.ToLower(req.Email)})
	if err := s.store.List(ctx, store.CollectionUsers, filter, &matches); err != nil {
		return nil, apperror.NewStoreError("login is unavailable right now", err)
	}
	if len(matches) == 0 {
		return nil, apperror.NewAuthError("invalid email or password", nil)
	}

	user := matches[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("invalid email or password", nil)
	}

	if err := s.session.Set(user); err != nil {
		return nil, apperror.NewInternalError("failed to persist session", err)
	}
	s.log.Info().Int("user_id", user.ID).Msg("session established")
	return profileOf(&user), nil
}

// Logout clears the session. Logging out while logged out is a no-op.
func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		return apperror.NewInternalError("failed to clear session", err)
	}
	s.log.Info().Msg("session cleared")
	return nil
}

// Profile returns the current session user.
func (s *Service) Profile() (*ProfileResponse, error) {
	current := s.session.Current()
	if current == nil {
		return nil, apperror.NewAuthError("please login to continue", nil)
	}
	return profileOf(current), nil
}

// UpdateProfile merges the patch into the current session user, persists
// it with a full replace, and updates the session in place. If the display
// name changed, every review owned by this user id is rewritten to the new
// name before success is reported. Partial failure mid-propagation is
// logged but neither rolled back nor retried, and the profile update is
// still reported successful.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	current := s.session.Current()
	if current == nil {
		return nil, apperror.NewAuthError("please login to continue", nil)
	}
	if req.Name == nil && req.Email == nil {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	merged := *current
	if req.Name != nil && *req.Name != "" {
		merged.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		email := strings.ToLower(*req.Email)
		if err := s.validate.Var(email, "email"); err != nil {
			return nil, apperror.NewValidationError("email must be a valid email address", nil)
		}
		merged.Email = email
	}

	var updated User
	if err := s.store.Replace(ctx, store.CollectionUsers, merged.ID, merged, &updated); err != nil {
		return nil, apperror.NewStoreError("failed to update profile", err)
	}
	if err := s.session.Set(updated); err != nil {
		return nil, apperror.NewInternalError("failed to persist session", err)
	}

	if updated.Name != current.Name && s.reviews != nil {
		// Keep the denormalized author-name snapshots consistent. Awaited
		// here so callers observe the propagated state, but failures do
		// not fail the profile update.
		if err := s.reviews.RewriteAuthorName(ctx, updated.ID, updated.Name); err != nil {
			s.log.Warn().Err(err).Int("user_id", updated.ID).Msg("review author-name propagation incomplete")
		}
	}

	s.log.Info().Int("user_id", updated.ID).Msg("profile updated")
	return profileOf(&updated), nil
}
