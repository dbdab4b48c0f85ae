package checkin

import "context"

// Repository is the queue ledger's persistence surface. Every mutating call
// must leave active positions for a set dense: distinct integers with no gap
// introduced beyond the single position intentionally freed by the caller.
type Repository interface {
	Insert(ctx context.Context, item Checkin) error
	GetByID(ctx context.Context, id string) (Checkin, bool, error)
	GetActiveByUser(ctx context.Context, gameSetID, userID string) (Checkin, bool, error)
	// ListActiveBySet returns active rows ordered by queue position.
	ListActiveBySet(ctx context.Context, gameSetID string) ([]Checkin, error)
	ListActiveByGame(ctx context.Context, gameID string) ([]Checkin, error)
	// ShiftPositionsAfter adds delta to the position of every active row of
	// the set with position > threshold. A non-zero minPosition additionally
	// restricts the shift to rows at or beyond it, protecting in-game rows
	// during tail-side rebalances.
	ShiftPositionsAfter(ctx context.Context, gameSetID string, threshold, delta, minPosition int) error
	// AssignSlot moves a row into a vacated slot, inheriting the position and
	// the (possibly empty) game binding of the row that left it.
	AssignSlot(ctx context.Context, id string, queuePosition int, gameID *string, team *int) error
	// AssignGame binds a row to a started game.
	AssignGame(ctx context.Context, id string, gameID string, team int) error
	Deactivate(ctx context.Context, id string) error
	// Retire deactivates a row and zeroes its position as a removal tombstone.
	Retire(ctx context.Context, id string) error
}
