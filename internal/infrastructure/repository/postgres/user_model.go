package postgres

import "time"

type userTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	AutoUp    bool      `db:"auto_up"`
	CreatedAt time.Time `db:"created_at"`
}
