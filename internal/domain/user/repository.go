package user

import "context"

// Repository exposes user lookups and preference writes.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	Upsert(ctx context.Context, item User) error
}
