package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

// UpsertClient inserts the client, or overwrites every field of the row with
// the same id. Registration and edit are the same operation.
func (s *SQLiteStore) UpsertClient(ctx context.Context, client *models.Client) error {
	if client.Name == "" {
		return storage.Validationf("name", "is required")
	}
	if client.Phone == "" {
		return storage.Validationf("phone", "is required")
	}
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, phone, email, address)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			email = excluded.email,
			address = excluded.address`,
		client.ID, client.Name, client.Phone,
		nullString(client.Email), nullString(client.Address),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by id.
func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	client := &models.Client{}
	var phone, email, address sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, email, address FROM clients WHERE id = ?", id,
	).Scan(&client.ID, &client.Name, &phone, &email, &address)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	client.Phone = phone.String
	client.Email = email.String
	client.Address = address.String
	return client, nil
}

// ListClients returns all clients ordered by name.
func (s *SQLiteStore) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.queryClients(ctx,
		"SELECT id, name, phone, email, address FROM clients ORDER BY name ASC")
}

// SearchClientsByName returns clients whose name contains term. The substring
// filter runs in SQL so large tables are never loaded into memory.
func (s *SQLiteStore) SearchClientsByName(ctx context.Context, term string) ([]models.Client, error) {
	return s.queryClients(ctx,
		"SELECT id, name, phone, email, address FROM clients WHERE name LIKE ? ORDER BY name ASC",
		"%"+term+"%")
}

// DeleteClient removes the client; sales, line items and payments follow via
// ON DELETE CASCADE. Deleting an unknown id is a no-op.
func (s *SQLiteStore) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryClients(ctx context.Context, query string, args ...any) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		var phone, email, address sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &phone, &email, &address); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.Phone = phone.String
		c.Email = email.String
		c.Address = address.String
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}
