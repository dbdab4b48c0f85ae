package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
)

type CheckinRepository struct {
	mu    sync.RWMutex
	items map[string]checkin.Checkin
}

func NewCheckinRepository(checkins []checkin.Checkin) *CheckinRepository {
	items := make(map[string]checkin.Checkin, len(checkins))
	for _, c := range checkins {
		items[c.ID] = cloneCheckin(c)
	}

	return &CheckinRepository{items: items}
}

func (r *CheckinRepository) Insert(_ context.Context, item checkin.Checkin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneCheckin(item)
	return nil
}

func (r *CheckinRepository) GetByID(_ context.Context, id string) (checkin.Checkin, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return checkin.Checkin{}, false, nil
	}

	return cloneCheckin(c), true, nil
}

func (r *CheckinRepository) GetActiveByUser(_ context.Context, gameSetID, userID string) (checkin.Checkin, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.IsActive && c.GameSetID == gameSetID && c.UserID == userID {
			return cloneCheckin(c), true, nil
		}
	}

	return checkin.Checkin{}, false, nil
}

func (r *CheckinRepository) ListActiveBySet(_ context.Context, gameSetID string) ([]checkin.Checkin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkin.Checkin, 0)
	for _, c := range r.items {
		if c.IsActive && c.GameSetID == gameSetID {
			out = append(out, cloneCheckin(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QueuePosition < out[j].QueuePosition
	})

	return out, nil
}

func (r *CheckinRepository) ListActiveByGame(_ context.Context, gameID string) ([]checkin.Checkin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkin.Checkin, 0)
	for _, c := range r.items {
		if c.IsActive && c.GameID != nil && *c.GameID == gameID {
			out = append(out, cloneCheckin(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QueuePosition < out[j].QueuePosition
	})

	return out, nil
}

func (r *CheckinRepository) ShiftPositionsAfter(_ context.Context, gameSetID string, threshold, delta, minPosition int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if !c.IsActive || c.GameSetID != gameSetID {
			continue
		}
		if c.QueuePosition <= threshold {
			continue
		}
		if minPosition > 0 && c.QueuePosition < minPosition {
			continue
		}
		c.QueuePosition += delta
		r.items[id] = c
	}

	return nil
}

func (r *CheckinRepository) AssignSlot(_ context.Context, id string, queuePosition int, gameID *string, team *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil
	}
	c.QueuePosition = queuePosition
	c.GameID = cloneStringPtr(gameID)
	c.Team = cloneIntPtr(team)
	r.items[id] = c
	return nil
}

func (r *CheckinRepository) AssignGame(_ context.Context, id string, gameID string, team int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil
	}
	c.GameID = &gameID
	c.Team = &team
	r.items[id] = c
	return nil
}

func (r *CheckinRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil
	}
	c.IsActive = false
	r.items[id] = c
	return nil
}

func (r *CheckinRepository) Retire(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil
	}
	c.IsActive = false
	c.QueuePosition = 0
	r.items[id] = c
	return nil
}

func cloneCheckin(c checkin.Checkin) checkin.Checkin {
	out := c
	out.GameID = cloneStringPtr(c.GameID)
	out.Team = cloneIntPtr(c.Team)
	return out
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
