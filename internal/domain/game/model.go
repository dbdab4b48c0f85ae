package game

import "time"

const (
	StateStarted = "started"
	StateFinal   = "final"

	TeamHome = 1
	TeamAway = 2
)

// Game is one match on a court. The only transition is started -> final;
// a finalized game's scores are immutable.
type Game struct {
	ID         string
	SetID      string
	Court      string
	State      string
	Team1Score *int
	Team2Score *int
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Winner returns the winning team of a finalized game. Equal scores fall to
// team 2 because the winner is computed with a strict greater-than; this
// mirrors the historical behavior and is deliberately left unchanged.
func (g Game) Winner() int {
	if g.Team1Score == nil || g.Team2Score == nil {
		return 0
	}
	if *g.Team1Score > *g.Team2Score {
		return TeamHome
	}
	return TeamAway
}

// Player is the durable roster record. It survives after the matching
// check-in is deactivated and is the system of record for who played on
// which team in which game.
type Player struct {
	GameID    string
	UserID    string
	Team      int
	Slot      int
	CreatedAt time.Time
}
