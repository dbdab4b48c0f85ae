package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/game"
)

type GameRepository struct {
	mu      sync.RWMutex
	items   map[string]game.Game
	players map[string][]game.Player
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = cloneGame(g)
	}

	return &GameRepository{
		items:   items,
		players: make(map[string][]game.Player),
	}
}

func (r *GameRepository) Insert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneGame(item)
	return nil
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[id]
	if !ok {
		return game.Game{}, false, nil
	}

	return cloneGame(g), true, nil
}

func (r *GameRepository) Finalize(_ context.Context, id string, team1Score, team2Score int, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.items[id]
	if !ok {
		return nil
	}
	g.State = game.StateFinal
	g.Team1Score = &team1Score
	g.Team2Score = &team2Score
	g.FinishedAt = &finishedAt
	r.items[id] = g
	return nil
}

func (r *GameRepository) ListFinalizedByCourt(_ context.Context, setID, court string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.items {
		if g.SetID == setID && g.Court == court && g.State == game.StateFinal {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return finishedAfter(out[i], out[j])
	})

	return out, nil
}

func (r *GameRepository) ListBySet(_ context.Context, setID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.items {
		if g.SetID == setID {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *GameRepository) CountBySet(_ context.Context, setID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, g := range r.items {
		if g.SetID == setID {
			count++
		}
	}

	return count, nil
}

func (r *GameRepository) InsertPlayers(_ context.Context, players []game.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.players[p.GameID] = append(r.players[p.GameID], p)
	}
	return nil
}

func (r *GameRepository) ListPlayers(_ context.Context, gameID string) ([]game.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Player, len(r.players[gameID]))
	copy(out, r.players[gameID])
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Slot < out[j].Slot
	})

	return out, nil
}

func (r *GameRepository) ReplacePlayer(_ context.Context, gameID, fromUserID, toUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roster := r.players[gameID]
	for i := range roster {
		if roster[i].UserID == fromUserID {
			roster[i].UserID = toUserID
			break
		}
	}
	return nil
}

func cloneGame(g game.Game) game.Game {
	out := g
	out.Team1Score = cloneIntPtr(g.Team1Score)
	out.Team2Score = cloneIntPtr(g.Team2Score)
	if g.FinishedAt != nil {
		finished := *g.FinishedAt
		out.FinishedAt = &finished
	}
	return out
}

// finishedAfter orders finalized games newest first, falling back to the
// creation time when two games share a finish timestamp.
func finishedAfter(a, b game.Game) bool {
	if a.FinishedAt != nil && b.FinishedAt != nil && !a.FinishedAt.Equal(*b.FinishedAt) {
		return a.FinishedAt.After(*b.FinishedAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
