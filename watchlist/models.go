// Package watchlist implements the membership tracker: the relation
// "user U has movie M saved" and the operations that mutate it.
// This file defines the entry record and operation statuses.
package watchlist

// Entry represents one saved movie, as stored in the watchlist
// collection. It is a minimal projection of the movie, not the full
// detail payload. Intended invariant (not store-enforced): at most one
// entry per (UserID, TMDBID) pair. Entries are created and destroyed,
// never mutated in place.
type Entry struct {
	ID          int     `json:"id"`
	TMDBID      int     `json:"tmdb_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	UserID      int     `json:"userId"`
}

// Status is the outcome of a watchlist mutation. Exists is informational,
// not a failure: the membership the caller wanted is already in place.
type Status string

const (
	// StatusAdded means a new entry was created.
	StatusAdded Status = "added"
	// StatusExists means the duplicate pre-check found an entry, so
	// nothing was written.
	StatusExists Status = "exists"
	// StatusRemoved means the entry was deleted.
	StatusRemoved Status = "removed"
	// StatusError means the operation failed at the transport level.
	StatusError Status = "error"
)
