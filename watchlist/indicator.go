// Package watchlist, membership tracker.
// This file implements the per-card membership indicator: the small state
// machine behind the heart toggle shown on every movie card.
package watchlist

import (
	"context"

	"github.com/user/cinetrack-go/apperror"
	"github.com/user/cinetrack-go/tmdb"
)

// State is the indicator's knowledge of membership.
type State int

const (
	// StateUnknown means membership has not been resolved yet.
	StateUnknown State = iota
	// StateNotSaved means the movie is known absent from the watchlist.
	StateNotSaved
	// StateSaved means the movie is known present in the watchlist.
	StateSaved
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNotSaved:
		return "not-saved"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Indicator tracks one movie's membership for the active identity.
//
// Lifecycle: Unknown until Mount resolves it; Saved and NotSaved flip on
// toggle completion (the indicator is not optimistic, it changes state
// only after the operation resolves). An identity change (logout, switch
// user) resets it to Unknown and re-resolves; with no identity it resolves
// to NotSaved without any network call.
//
// An Indicator belongs to a single event loop, mirroring its UI origin:
// it is not safe for concurrent use.
type Indicator struct {
	svc    *Service
	movie  tmdb.Movie
	userID int // 0 means anonymous
	state  State
	entry  *Entry
}

// NewIndicator creates an indicator for one movie, in StateUnknown with
// no identity.
func NewIndicator(svc *Service, movie tmdb.Movie) *Indicator {
	return &Indicator{svc: svc, movie: movie, state: StateUnknown}
}

// State returns the current state.
func (i *Indicator) State() State {
	return i.state
}

// Entry returns the known watchlist entry, or nil. Valid in StateSaved.
func (i *Indicator) Entry() *Entry {
	return i.entry
}

// Mount resolves membership for the given identity. Anonymous mounts
// resolve straight to NotSaved with no network call.
func (i *Indicator) Mount(ctx context.Context, userID int) {
	i.userID = userID
	if userID == 0 {
		i.state = StateNotSaved
		i.entry = nil
		return
	}
	i.entry = i.svc.IsSaved(ctx, i.movie.ID, userID)
	if i.entry != nil {
		i.state = StateSaved
	} else {
		i.state = StateNotSaved
	}
}

// SetIdentity records a new identity and invalidates the resolved state.
// Resolution happens lazily: the next Mount or Toggle re-resolves, so a
// login or logout does not trigger a lookup for cards that are never
// interacted with again.
func (i *Indicator) SetIdentity(userID int) {
	i.userID = userID
	i.state = StateUnknown
	i.entry = nil
}

// Toggle adds or removes the movie depending on current known state.
// Anonymous toggles are rejected up front with an auth error and make no
// network call; the indicator resolves to NotSaved so the card can prompt
// for login. On transport failure the state is left as it was: the
// indicator never flips before the operation resolves.
func (i *Indicator) Toggle(ctx context.Context) (Status, error) {
	if i.userID == 0 {
		i.state = StateNotSaved
		i.entry = nil
		return StatusError, apperror.NewAuthError("please login to manage your watchlist", nil)
	}
	if i.state == StateUnknown {
		i.Mount(ctx, i.userID)
	}

	if i.state == StateSaved {
		status, err := i.svc.Remove(ctx, i.entry.ID)
		if status == StatusRemoved {
			i.state = StateNotSaved
			i.entry = nil
		}
		return status, err
	}

	// Add hands back the entry (created or already existing), record id
	// included, so no second lookup can desynchronize the state.
	status, entry, err := i.svc.Add(ctx, i.movie, i.userID)
	if status == StatusAdded || status == StatusExists {
		i.entry = entry
		i.state = StateSaved
	}
	return status, err
}
