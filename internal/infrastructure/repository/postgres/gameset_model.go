package postgres

import "time"

type gameSetTableModel struct {
	ID                   string     `db:"id"`
	PlayersPerTeam       int        `db:"players_per_team"`
	NumberOfCourts       int        `db:"number_of_courts"`
	MaxConsecutiveGames  int        `db:"max_consecutive_games"`
	CurrentQueuePosition int        `db:"current_queue_position"`
	QueueNextUp          int        `db:"queue_next_up"`
	IsActive             bool       `db:"is_active"`
	CreatedAt            time.Time  `db:"created_at"`
	EndedAt              *time.Time `db:"ended_at"`
}
