package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

// RegisterUser inserts a new login account. A duplicate username surfaces as
// ErrConflict straight from the primary key constraint; there is deliberately
// no existence pre-check that could race.
func (s *SQLiteStore) RegisterUser(ctx context.Context, user *models.User) error {
	if user.Username == "" {
		return storage.Validationf("username", "is required")
	}
	if user.PasswordHash == "" {
		return storage.Validationf("passwordHash", "is required")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		user.Username, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", user.Username, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash FROM users WHERE username = ?", username,
	).Scan(&user.Username, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account and reports whether a row was deleted.
// A missing username is not an error.
func (s *SQLiteStore) DeleteUser(ctx context.Context, username string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n > 0, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
