package game

import (
	"context"
	"time"
)

// Repository exposes game and roster persistence.
type Repository interface {
	Insert(ctx context.Context, item Game) error
	GetByID(ctx context.Context, id string) (Game, bool, error)
	// Finalize persists the scores and moves the game to its terminal state.
	Finalize(ctx context.Context, id string, team1Score, team2Score int, finishedAt time.Time) error
	// ListFinalizedByCourt returns finalized games of a set on one court,
	// most recent first.
	ListFinalizedByCourt(ctx context.Context, setID, court string) ([]Game, error)
	ListBySet(ctx context.Context, setID string) ([]Game, error)
	CountBySet(ctx context.Context, setID string) (int, error)

	InsertPlayers(ctx context.Context, players []Player) error
	// ListPlayers returns the roster ordered by team then slot.
	ListPlayers(ctx context.Context, gameID string) ([]Player, error)
	// ReplacePlayer swaps one roster seat to another user mid-game.
	ReplacePlayer(ctx context.Context, gameID, fromUserID, toUserID string) error
}
