// Package reviews, review registry.
// This file defines request payloads and their validation rules.
package reviews

// CreateReviewRequest is the payload for submitting a review.
type CreateReviewRequest struct {
	MovieID int    `json:"movieId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" validate:"required"`
}

// UpdateReviewRequest is the payload for editing an existing review.
// Identity fields (author, movie, date) are not editable.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" validate:"required"`
}
