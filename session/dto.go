// Package session, identity/session store.
// This file defines the request/response payloads for the account and
// profile endpoints. Validation rules live on the structs as validator
// tags and run before any network call.
package session

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"Ann"`
	Email    string `json:"email" validate:"required,email" example:"ann@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"hunter22"`
}

// LoginRequest is the payload for establishing a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ann@example.com"`
	Password string `json:"password" validate:"required" example:"hunter22"`
}

// UpdateProfileRequest is the payload for editing the current profile.
// Pointer fields allow partial updates: nil means "leave unchanged".
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" example:"Ann B."`
	Email *string `json:"email,omitempty" example:"ann.b@example.com"`
}

// ProfileResponse is the user as exposed over the API, without the
// credential hash.
type ProfileResponse struct {
	ID    int    `json:"id" example:"7"`
	Name  string `json:"name" example:"Ann"`
	Email string `json:"email" example:"ann@example.com"`
}

// profileOf maps a user record to its API shape.
func profileOf(user *User) *ProfileResponse {
	return &ProfileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
