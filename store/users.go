package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/users"
)

type userRepository struct {
	db *sqlx.DB
}

var _ users.UserRepo = (*userRepository)(nil)

// Upsert inserts the user or, when the username exists, updates its display
// name and password hash. user.ID is set from the stored row.
func (r *userRepository) Upsert(ctx context.Context, user *users.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO users (username, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			display_name = excluded.display_name,
			password_hash = excluded.password_hash
		RETURNING id`)

	if err := r.db.QueryRowxContext(ctx, query, user.Username, user.DisplayName, user.PasswordHash, user.CreatedAt).Scan(&user.ID); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.get(ctx, `SELECT id, username, display_name, password_hash, created_at, last_login FROM users WHERE username = ?`, username)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return r.get(ctx, `SELECT id, username, display_name, password_hash, created_at, last_login FROM users WHERE id = ?`, id)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET last_login = ? WHERE id = ?`), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return requireAffected(res, apperrors.ErrUserNotFound)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*users.User, error) {
	var user users.User
	if err := r.db.GetContext(ctx, &user, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
