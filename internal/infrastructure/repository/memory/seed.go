package memory

import (
	"time"

	"github.com/courtside/pickup-queue/internal/domain/user"
)

// SeedUsers is the default roster for in-memory deployments: enough players
// to fill two five-a-side windows with a waiting line left over.
func SeedUsers() []user.User {
	created := time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC)

	return []user.User{
		{ID: "u-amir", Name: "Amir Rahman", AutoUp: true, CreatedAt: created},
		{ID: "u-bella", Name: "Bella Ortiz", AutoUp: true, CreatedAt: created},
		{ID: "u-chris", Name: "Chris Nakamura", AutoUp: false, CreatedAt: created},
		{ID: "u-dewi", Name: "Dewi Santoso", AutoUp: true, CreatedAt: created},
		{ID: "u-eli", Name: "Eli Thompson", AutoUp: false, CreatedAt: created},
		{ID: "u-farah", Name: "Farah Haddad", AutoUp: true, CreatedAt: created},
		{ID: "u-gio", Name: "Gio Marchetti", AutoUp: true, CreatedAt: created},
		{ID: "u-hana", Name: "Hana Kowalski", AutoUp: false, CreatedAt: created},
		{ID: "u-ivan", Name: "Ivan Petrov", AutoUp: true, CreatedAt: created},
		{ID: "u-jade", Name: "Jade Okafor", AutoUp: true, CreatedAt: created},
		{ID: "u-karim", Name: "Karim Benali", AutoUp: false, CreatedAt: created},
		{ID: "u-lena", Name: "Lena Fischer", AutoUp: true, CreatedAt: created},
		{ID: "u-marco", Name: "Marco Silva", AutoUp: true, CreatedAt: created},
		{ID: "u-nadia", Name: "Nadia Osei", AutoUp: false, CreatedAt: created},
		{ID: "u-omar", Name: "Omar Farouk", AutoUp: true, CreatedAt: created},
		{ID: "u-priya", Name: "Priya Sharma", AutoUp: true, CreatedAt: created},
	}
}
