package user

import "time"

// User carries the small slice of player identity this service needs. Auth
// and profile management live in the account service; only the auto-up
// preference matters to the queue.
type User struct {
	ID        string
	Name      string
	AutoUp    bool
	CreatedAt time.Time
}
