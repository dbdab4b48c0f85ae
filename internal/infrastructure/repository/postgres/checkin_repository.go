package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
)

type CheckinRepository struct {
	db *sqlx.DB
}

func NewCheckinRepository(db *sqlx.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

func (r *CheckinRepository) Insert(ctx context.Context, item checkin.Checkin) error {
	const query = `
		INSERT INTO checkins (
			id, user_id, game_set_id, queue_position, is_active,
			game_id, team, type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query,
		item.ID, item.UserID, item.GameSetID, item.QueuePosition, item.IsActive,
		item.GameID, item.Team, string(item.Type), item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}
	return nil
}

func (r *CheckinRepository) GetByID(ctx context.Context, id string) (checkin.Checkin, bool, error) {
	const query = `SELECT * FROM checkins WHERE id = $1`

	var row checkinTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query, id); err != nil {
		if isNotFound(err) {
			return checkin.Checkin{}, false, nil
		}
		return checkin.Checkin{}, false, fmt.Errorf("get checkin by id: %w", err)
	}

	return checkinFromModel(row), true, nil
}

func (r *CheckinRepository) GetActiveByUser(ctx context.Context, gameSetID, userID string) (checkin.Checkin, bool, error) {
	const query = `
		SELECT * FROM checkins
		WHERE game_set_id = $1 AND user_id = $2 AND is_active
		LIMIT 1`

	var row checkinTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query, gameSetID, userID); err != nil {
		if isNotFound(err) {
			return checkin.Checkin{}, false, nil
		}
		return checkin.Checkin{}, false, fmt.Errorf("get active checkin by user: %w", err)
	}

	return checkinFromModel(row), true, nil
}

func (r *CheckinRepository) ListActiveBySet(ctx context.Context, gameSetID string) ([]checkin.Checkin, error) {
	const query = `
		SELECT * FROM checkins
		WHERE game_set_id = $1 AND is_active
		ORDER BY queue_position`

	var rows []checkinTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, gameSetID); err != nil {
		return nil, fmt.Errorf("select active checkins by set: %w", err)
	}

	out := make([]checkin.Checkin, 0, len(rows))
	for _, row := range rows {
		out = append(out, checkinFromModel(row))
	}
	return out, nil
}

func (r *CheckinRepository) ListActiveByGame(ctx context.Context, gameID string) ([]checkin.Checkin, error) {
	const query = `
		SELECT * FROM checkins
		WHERE game_id = $1 AND is_active
		ORDER BY queue_position`

	var rows []checkinTableModel
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("select active checkins by game: %w", err)
	}

	out := make([]checkin.Checkin, 0, len(rows))
	for _, row := range rows {
		out = append(out, checkinFromModel(row))
	}
	return out, nil
}

func (r *CheckinRepository) ShiftPositionsAfter(ctx context.Context, gameSetID string, threshold, delta, minPosition int) error {
	const query = `
		UPDATE checkins
		SET queue_position = queue_position + $3
		WHERE game_set_id = $1 AND is_active
		  AND queue_position > $2
		  AND ($4 = 0 OR queue_position >= $4)`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, gameSetID, threshold, delta, minPosition); err != nil {
		return fmt.Errorf("shift checkin positions: %w", err)
	}
	return nil
}

func (r *CheckinRepository) AssignSlot(ctx context.Context, id string, queuePosition int, gameID *string, team *int) error {
	const query = `
		UPDATE checkins
		SET queue_position = $2, game_id = $3, team = $4
		WHERE id = $1`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id, queuePosition, gameID, team); err != nil {
		return fmt.Errorf("assign checkin slot: %w", err)
	}
	return nil
}

func (r *CheckinRepository) AssignGame(ctx context.Context, id string, gameID string, team int) error {
	const query = `
		UPDATE checkins
		SET game_id = $2, team = $3
		WHERE id = $1`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id, gameID, team); err != nil {
		return fmt.Errorf("assign checkin game: %w", err)
	}
	return nil
}

func (r *CheckinRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE checkins SET is_active = FALSE WHERE id = $1`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate checkin: %w", err)
	}
	return nil
}

func (r *CheckinRepository) Retire(ctx context.Context, id string) error {
	const query = `UPDATE checkins SET is_active = FALSE, queue_position = 0 WHERE id = $1`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("retire checkin: %w", err)
	}
	return nil
}

func checkinFromModel(row checkinTableModel) checkin.Checkin {
	return checkin.Checkin{
		ID:            row.ID,
		UserID:        row.UserID,
		GameSetID:     row.GameSetID,
		QueuePosition: row.QueuePosition,
		IsActive:      row.IsActive,
		GameID:        row.GameID,
		Team:          row.Team,
		Type:          checkin.Type(row.Type),
		CreatedAt:     row.CreatedAt,
	}
}
