package storage

import "context"

// Runner executes a function atomically with respect to the backing store.
// The postgres implementation wraps fn in one database transaction so a
// failed write aborts every position shift made before it; the memory
// implementation runs fn directly, relying on the per-game-set lock the
// services already hold.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DirectRunner runs the function without transactional semantics.
type DirectRunner struct{}

func (DirectRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
