// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mvalle/caderneta/internal/models"
)

// Store defines the persistence operations of the bookkeeping core.
// The SQLite implementation lives in the sqlite subpackage; the interface
// exists so tests and the composition root can inject the backend instead of
// sharing a global connection.
//
// All mutating calls are durable on return. Multi-row operations (sale
// creation, payment registration with its installment counter) are atomic.
type Store interface {
	// UpsertClient inserts the client if its id is unseen, otherwise
	// overwrites every field of the existing row. Idempotent.
	UpsertClient(ctx context.Context, client *models.Client) error

	// GetClient retrieves a client by id. Returns ErrNotFound when absent.
	GetClient(ctx context.Context, id string) (*models.Client, error)

	// ListClients returns all clients ordered by name ascending.
	ListClients(ctx context.Context) ([]models.Client, error)

	// SearchClientsByName returns clients whose name contains term,
	// ordered by name ascending. The filter runs inside the database.
	SearchClientsByName(ctx context.Context, term string) ([]models.Client, error)

	// DeleteClient removes the client and, via cascade, all of its sales,
	// line items and payments.
	DeleteClient(ctx context.Context, id string) error

	// CreateSale validates the input, snapshots the client's name and phone,
	// and persists the sale with all line items in one transaction.
	// Returns ErrNotFound when the client does not exist.
	CreateSale(ctx context.Context, input *models.SaleInput) (*models.Sale, error)

	// GetSale retrieves a sale with its items and payments.
	GetSale(ctx context.Context, id string) (*models.Sale, error)

	// ListSales returns all sales, newest first, with items and payments.
	ListSales(ctx context.Context) ([]models.Sale, error)

	// ListSalesByClient returns the client's sales, newest first.
	ListSalesByClient(ctx context.Context, clientID string) ([]models.Sale, error)

	// ListSalesByPeriod returns sales whose date falls inside [from, to],
	// newest first. Callers normalize the bounds to day boundaries.
	ListSalesByPeriod(ctx context.Context, from, to time.Time) ([]models.Sale, error)

	// DeleteSale removes the sale and its items and payments.
	DeleteSale(ctx context.Context, id string) error

	// RegisterPayment records a payment against a sale. For installment sales
	// the installments-paid counter is incremented in the same transaction.
	// Rejects non-positive amounts and amounts exceeding the pending balance.
	RegisterPayment(ctx context.Context, saleID string, amount float64, when time.Time) (*models.Payment, error)

	// DeletePayment removes a payment. For installment sales the
	// installments-paid counter is decremented (floor zero) in the same
	// transaction.
	DeletePayment(ctx context.Context, paymentID string) error

	// SetInstallmentsPaid overwrites the installments-paid counter, clamped
	// to [0, installmentsTotal]. Manual-correction escape hatch.
	SetInstallmentsPaid(ctx context.Context, saleID string, count int) error

	// ImportSnapshot writes a full set of pre-existing records in one
	// transaction: all rows or none. Re-running the same snapshot is
	// idempotent; existing rows are overwritten, never duplicated.
	// Used by the legacy importer only.
	ImportSnapshot(ctx context.Context, clients []models.Client, sales []models.Sale) error

	// RegisterUser creates a login account. Returns ErrConflict when the
	// username is taken; uniqueness comes from the primary key constraint,
	// not a pre-check.
	RegisterUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by username. Returns ErrNotFound when absent.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// DeleteUser removes an account. Reports whether a row was actually
	// deleted; a missing username is not an error.
	DeleteUser(ctx context.Context, username string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
