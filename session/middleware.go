// Package session, identity/session store.
// This file defines the middleware that gates identity-requiring routes on
// the durable session, and the context helpers handlers use to read the
// authenticated user. There are no tokens: identity is the single
// process-wide session, checked per request.
package session

import (
	"context"
	"net/http"

	"github.com/user/cinetrack-go/apperror"
)

// contextKey is a private type for context keys, preventing collisions
// with keys from other packages.
type contextKey string

const userContextKey contextKey = "session_user"

// NewContextWithUser returns a child context carrying the session user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the session user placed by RequireSession.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// RequireSession rejects requests made without a logged-in session and
// injects the session user into the request context for handlers
// downstream. The rejection happens before any store or provider call.
func RequireSession(store *Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := store.Current()
			if user == nil {
				WriteError(w, r, apperror.NewAuthError("please login to continue", nil))
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}
