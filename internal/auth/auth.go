// Package auth implements the local login gate: username/password accounts
// stored alongside the ledger, checked before the app unlocks.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
)

// UserStorage is the slice of the store the gate needs.
type UserStorage interface {
	RegisterUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, username string) (bool, error)
}

// Gate authenticates against accounts in the store. Passwords are stored as
// unsalted SHA-256 hex digests: a deliberate trade-off for a single-tenant
// local device, not a pattern for networked services.
type Gate struct {
	storage UserStorage
	admin   string
}

// NewGate creates a gate over storage. admin names the account allowed to
// manage other accounts.
func NewGate(storage UserStorage, admin string) *Gate {
	return &Gate{storage: storage, admin: admin}
}

// HashPassword returns the SHA-256 hex digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new account. Returns ErrUsernameTaken when the username
// exists; the uniqueness check is the store's primary key constraint.
func (g *Gate) Register(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: HashPassword(password),
	}
	if err := g.storage.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the credentials. A missing user and a wrong password
// both return ErrInvalidCredentials, so callers cannot probe for usernames.
func (g *Gate) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := g.storage.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash != HashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Delete removes an account. Reports whether it existed.
func (g *Gate) Delete(ctx context.Context, username string) (bool, error) {
	return g.storage.DeleteUser(ctx, username)
}

// IsAdmin reports whether username is the configured admin account.
func (g *Gate) IsAdmin(username string) bool {
	return g.admin != "" && username == g.admin
}

// EnsureUser registers the account if it does not exist yet. Used at startup
// to seed the admin login; an already-registered username is not an error.
func (g *Gate) EnsureUser(ctx context.Context, username, password string) error {
	_, err := g.Register(ctx, username, password)
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	return err
}
