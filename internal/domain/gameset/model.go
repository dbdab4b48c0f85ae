package gameset

import "time"

const (
	MinPlayersPerTeam = 1
	MaxPlayersPerTeam = 5
)

// GameSet is one bounded session (one gym, one day) with its own queue
// configuration. At most one set is active at a time; the registry owns the
// two queue pointers exclusively.
type GameSet struct {
	ID                   string
	PlayersPerTeam       int
	NumberOfCourts       int
	MaxConsecutiveGames  int
	CurrentQueuePosition int
	QueueNextUp          int
	IsActive             bool
	CreatedAt            time.Time
	EndedAt              *time.Time
}
