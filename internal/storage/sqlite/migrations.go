package sqlite

import (
	"database/sql"
	"fmt"
)

// A migration brings the schema from version-1 to version. Statements of one
// migration commit atomically together; a failure leaves the database at the
// last completed version.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered schema history. Never edit an entry after it has
// shipped; append a new version instead.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS clients (
				id TEXT PRIMARY KEY NOT NULL,
				name TEXT NOT NULL,
				phone TEXT,
				email TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS sales (
				id TEXT PRIMARY KEY NOT NULL,
				client_id TEXT NOT NULL,
				client_name TEXT NOT NULL,
				client_phone TEXT,
				sale_date TEXT NOT NULL,
				total REAL NOT NULL,
				subtotal REAL,
				discount REAL,
				payment_type TEXT NOT NULL,
				installments_total INTEGER,
				installments_paid INTEGER,
				first_installment_date TEXT,
				FOREIGN KEY (client_id) REFERENCES clients (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS line_items (
				id TEXT PRIMARY KEY NOT NULL,
				sale_id TEXT NOT NULL,
				description TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				unit_value REAL NOT NULL,
				FOREIGN KEY (sale_id) REFERENCES sales (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS payments (
				id TEXT PRIMARY KEY NOT NULL,
				sale_id TEXT NOT NULL,
				paid_at TEXT NOT NULL,
				amount REAL NOT NULL,
				FOREIGN KEY (sale_id) REFERENCES sales (id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS users (
				username TEXT PRIMARY KEY NOT NULL,
				password_hash TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_client_id ON sales(client_id)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_sale_id ON line_items(sale_id)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_sale_id ON payments(sale_id)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`ALTER TABLE clients ADD COLUMN address TEXT`,
		},
	},
}

// ensureSchema applies every migration past the current PRAGMA user_version.
// Idempotent: a database already at the latest version is left untouched.
func ensureSchema(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
		}

		// The version bump commits atomically with the migration's statements,
		// so a crash can never leave the schema half-applied.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record version %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
		current = m.version
	}

	return nil
}
