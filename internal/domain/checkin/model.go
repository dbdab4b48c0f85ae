package checkin

import "time"

// Type records how a check-in entered the queue.
type Type string

const (
	TypeManual       Type = "manual"
	TypeAutoUp       Type = "autoup"
	TypeWinPromoted  Type = "win_promoted"
	TypeLossPromoted Type = "loss_promoted"
	TypeBump         Type = "bump"
	TypeCheckout     Type = "checkout"
	TypeSwap         Type = "swap"
)

// Checkin is one player's presence in a game set's queue. Positions among
// active rows of a set are dense and unique; rows are deactivated, never
// deleted.
type Checkin struct {
	ID            string
	UserID        string
	GameSetID     string
	QueuePosition int
	IsActive      bool
	GameID        *string
	Team          *int
	Type          Type
	CreatedAt     time.Time
}

// Assigned reports whether the check-in is bound to a started game.
func (c Checkin) Assigned() bool {
	return c.GameID != nil
}
