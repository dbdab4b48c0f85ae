package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtside/pickup-queue/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	const query = `SELECT * FROM users WHERE id = $1`

	var row userTableModel
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &row, query, id); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return user.User{
		ID:        row.ID,
		Name:      row.Name,
		AutoUp:    row.AutoUp,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	const query = `
		INSERT INTO users (id, name, auto_up, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, auto_up = EXCLUDED.auto_up`

	if _, err := execer(ctx, r.db).ExecContext(ctx, query,
		item.ID, item.Name, item.AutoUp, item.CreatedAt,
	); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
