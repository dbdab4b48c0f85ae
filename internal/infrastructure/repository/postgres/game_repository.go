package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtside/pickup-queue/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) error {
	const query = `
		INSERT INTO games (
			id, game_set_id, court, state, team_1_score, team_2_score,
			created_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query,
		item.ID, item.SetID, item.Court, item.State,
		item.Team1Score, item.Team2Score, item.CreatedAt, item.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	const query = `SELECT * FROM games WHERE id = $1`

	var row gameTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query, id); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromModel(row), true, nil
}

func (r *GameRepository) Finalize(ctx context.Context, id string, team1Score, team2Score int, finishedAt time.Time) error {
	const query = `
		UPDATE games
		SET state = $2, team_1_score = $3, team_2_score = $4, finished_at = $5
		WHERE id = $1 AND state <> $2`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query,
		id, game.StateFinal, team1Score, team2Score, finishedAt,
	); err != nil {
		return fmt.Errorf("finalize game: %w", err)
	}
	return nil
}

func (r *GameRepository) ListFinalizedByCourt(ctx context.Context, setID, court string) ([]game.Game, error) {
	const query = `
		SELECT * FROM games
		WHERE game_set_id = $1 AND court = $2 AND state = $3
		ORDER BY finished_at DESC, created_at DESC`

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, setID, court, game.StateFinal); err != nil {
		return nil, fmt.Errorf("select finalized games by court: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromModel(row))
	}
	return out, nil
}

func (r *GameRepository) ListBySet(ctx context.Context, setID string) ([]game.Game, error) {
	const query = `
		SELECT * FROM games
		WHERE game_set_id = $1
		ORDER BY created_at DESC`

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, setID); err != nil {
		return nil, fmt.Errorf("select games by set: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromModel(row))
	}
	return out, nil
}

func (r *GameRepository) CountBySet(ctx context.Context, setID string) (int, error) {
	const query = `SELECT COUNT(*) FROM games WHERE game_set_id = $1`

	var count int
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &count, query, setID); err != nil {
		return 0, fmt.Errorf("count games by set: %w", err)
	}
	return count, nil
}

func (r *GameRepository) InsertPlayers(ctx context.Context, players []game.Player) error {
	if len(players) == 0 {
		return nil
	}

	const query = `
		INSERT INTO game_players (game_id, user_id, team, slot, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	for _, p := range players {
		if _, err := execer(ctx, r.db).ExecContext(ctx, query,
			p.GameID, p.UserID, p.Team, p.Slot, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert game player %s: %w", p.UserID, err)
		}
	}
	return nil
}

func (r *GameRepository) ListPlayers(ctx context.Context, gameID string) ([]game.Player, error) {
	const query = `
		SELECT * FROM game_players
		WHERE game_id = $1
		ORDER BY team, slot`

	var rows []gamePlayerTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("select game players: %w", err)
	}

	out := make([]game.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Player{
			GameID:    row.GameID,
			UserID:    row.UserID,
			Team:      row.Team,
			Slot:      row.Slot,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *GameRepository) ReplacePlayer(ctx context.Context, gameID, fromUserID, toUserID string) error {
	const query = `
		UPDATE game_players
		SET user_id = $3
		WHERE game_id = $1 AND user_id = $2`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, gameID, fromUserID, toUserID); err != nil {
		return fmt.Errorf("replace game player: %w", err)
	}
	return nil
}

func gameFromModel(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		SetID:      row.GameSetID,
		Court:      row.Court,
		State:      row.State,
		Team1Score: row.Team1Score,
		Team2Score: row.Team2Score,
		CreatedAt:  row.CreatedAt,
		FinishedAt: row.FinishedAt,
	}
}
