package memory

import (
	"context"
	"sync"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/gameset"
)

type GameSetRepository struct {
	mu    sync.RWMutex
	items map[string]gameset.GameSet
}

func NewGameSetRepository(sets []gameset.GameSet) *GameSetRepository {
	items := make(map[string]gameset.GameSet, len(sets))
	for _, s := range sets {
		items[s.ID] = s
	}

	return &GameSetRepository{items: items}
}

func (r *GameSetRepository) Create(_ context.Context, set gameset.GameSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[set.ID] = set
	return nil
}

func (r *GameSetRepository) GetActive(_ context.Context) (gameset.GameSet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.items {
		if s.IsActive {
			return s, true, nil
		}
	}

	return gameset.GameSet{}, false, nil
}

func (r *GameSetRepository) GetByID(_ context.Context, id string) (gameset.GameSet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return gameset.GameSet{}, false, nil
	}

	return s, true, nil
}

func (r *GameSetRepository) SetPointers(_ context.Context, id string, currentQueuePosition, queueNextUp int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil
	}
	s.CurrentQueuePosition = currentQueuePosition
	s.QueueNextUp = queueNextUp
	r.items[id] = s
	return nil
}

func (r *GameSetRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil
	}
	if s.IsActive {
		s.IsActive = false
		now := time.Now().UTC()
		s.EndedAt = &now
		r.items[id] = s
	}
	return nil
}
