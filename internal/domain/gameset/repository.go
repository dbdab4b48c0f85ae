package gameset

import "context"

// Repository is the registry of game sets. It is the only writer of the
// queue pointer pair.
type Repository interface {
	Create(ctx context.Context, set GameSet) error
	GetActive(ctx context.Context) (GameSet, bool, error)
	GetByID(ctx context.Context, id string) (GameSet, bool, error)
	SetPointers(ctx context.Context, id string, currentQueuePosition, queueNextUp int) error
	Deactivate(ctx context.Context, id string) error
}
