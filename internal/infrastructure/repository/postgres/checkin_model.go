package postgres

import "time"

type checkinTableModel struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	GameSetID     string    `db:"game_set_id"`
	QueuePosition int       `db:"queue_position"`
	IsActive      bool      `db:"is_active"`
	GameID        *string   `db:"game_id"`
	Team          *int      `db:"team"`
	Type          string    `db:"type"`
	CreatedAt     time.Time `db:"created_at"`
}
