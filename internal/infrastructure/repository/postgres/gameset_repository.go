package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtside/pickup-queue/internal/domain/gameset"
)

type GameSetRepository struct {
	db *sqlx.DB
}

func NewGameSetRepository(db *sqlx.DB) *GameSetRepository {
	return &GameSetRepository{db: db}
}

func (r *GameSetRepository) Create(ctx context.Context, set gameset.GameSet) error {
	const query = `
		INSERT INTO game_sets (
			id, players_per_team, number_of_courts, max_consecutive_games,
			current_queue_position, queue_next_up, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query,
		set.ID, set.PlayersPerTeam, set.NumberOfCourts, set.MaxConsecutiveGames,
		set.CurrentQueuePosition, set.QueueNextUp, set.IsActive, set.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert game set: %w", err)
	}
	return nil
}

func (r *GameSetRepository) GetActive(ctx context.Context) (gameset.GameSet, bool, error) {
	const query = `SELECT * FROM game_sets WHERE is_active ORDER BY created_at DESC LIMIT 1`

	var row gameSetTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query); err != nil {
		if isNotFound(err) {
			return gameset.GameSet{}, false, nil
		}
		return gameset.GameSet{}, false, fmt.Errorf("get active game set: %w", err)
	}

	return gameSetFromModel(row), true, nil
}

func (r *GameSetRepository) GetByID(ctx context.Context, id string) (gameset.GameSet, bool, error) {
	const query = `SELECT * FROM game_sets WHERE id = $1`

	var row gameSetTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query, id); err != nil {
		if isNotFound(err) {
			return gameset.GameSet{}, false, nil
		}
		return gameset.GameSet{}, false, fmt.Errorf("get game set by id: %w", err)
	}

	return gameSetFromModel(row), true, nil
}

func (r *GameSetRepository) SetPointers(ctx context.Context, id string, currentQueuePosition, queueNextUp int) error {
	const query = `
		UPDATE game_sets
		SET current_queue_position = $2, queue_next_up = $3
		WHERE id = $1`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id, currentQueuePosition, queueNextUp); err != nil {
		return fmt.Errorf("update game set pointers: %w", err)
	}
	return nil
}

func (r *GameSetRepository) Deactivate(ctx context.Context, id string) error {
	const query = `
		UPDATE game_sets
		SET is_active = FALSE, ended_at = now()
		WHERE id = $1 AND is_active`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate game set: %w", err)
	}
	return nil
}

func gameSetFromModel(row gameSetTableModel) gameset.GameSet {
	return gameset.GameSet{
		ID:                   row.ID,
		PlayersPerTeam:       row.PlayersPerTeam,
		NumberOfCourts:       row.NumberOfCourts,
		MaxConsecutiveGames:  row.MaxConsecutiveGames,
		CurrentQueuePosition: row.CurrentQueuePosition,
		QueueNextUp:          row.QueueNextUp,
		IsActive:             row.IsActive,
		CreatedAt:            row.CreatedAt,
		EndedAt:              row.EndedAt,
	}
}
