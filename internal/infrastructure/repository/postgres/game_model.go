package postgres

import "time"

type gameTableModel struct {
	ID         string     `db:"id"`
	GameSetID  string     `db:"game_set_id"`
	Court      string     `db:"court"`
	State      string     `db:"state"`
	Team1Score *int       `db:"team_1_score"`
	Team2Score *int       `db:"team_2_score"`
	CreatedAt  time.Time  `db:"created_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

type gamePlayerTableModel struct {
	GameID    string    `db:"game_id"`
	UserID    string    `db:"user_id"`
	Team      int       `db:"team"`
	Slot      int       `db:"slot"`
	CreatedAt time.Time `db:"created_at"`
}
