// Package reviews implements the review registry: at most one review per
// user per movie, with author names stored as point-in-time snapshots
// that the profile layer rewrites on rename.
package reviews

// Review is one review record as stored in the reviews collection. User
// is the author's display name at submission time (a snapshot, not a
// reference); UserID is the authoritative author identity used for
// ownership and uniqueness checks. Date is the submission day in
// YYYY-MM-DD and never changes, even on edit.
type Review struct {
	ID      int    `json:"id"`
	MovieID int    `json:"movieId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	User    string `json:"user"`
	UserID  int    `json:"userId"`
	Date    string `json:"date"`
}
