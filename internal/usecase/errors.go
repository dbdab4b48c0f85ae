package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")

	// ErrNoActiveGameSet rejects any ledger mutation while no game set is
	// active.
	ErrNoActiveGameSet = errors.New("no active game set")
	// ErrNoReplacementAvailable rejects a checkout whose vacated slot must be
	// backfilled but the waiting line is empty.
	ErrNoReplacementAvailable = errors.New("no replacement available")

	ErrCheckinNotFound = errors.New("checkin not found")
	ErrGameNotFound    = errors.New("game not found")
)
