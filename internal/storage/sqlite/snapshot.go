package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvalle/caderneta/internal/models"
)

// ImportSnapshot writes a full set of pre-existing records in one transaction.
// The rows come from the legacy key-value store with their original ids, so a
// repeated run (e.g. the completion flag was lost) must overwrite rather than
// duplicate:
//
//   - clients upsert in place; a plain REPLACE would cascade-delete their sales
//   - sales use INSERT OR REPLACE, whose delete half cascades away the stale
//     line items and payments before the fresh ones are inserted
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, clients []models.Client, sales []models.Sale) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range clients {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clients (id, name, phone, email, address)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				phone = excluded.phone,
				email = excluded.email,
				address = excluded.address`,
			c.ID, c.Name, nullString(c.Phone), nullString(c.Email), nullString(c.Address),
		)
		if err != nil {
			return fmt.Errorf("failed to import client %s: %w", c.ID, err)
		}
	}

	for _, sale := range sales {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO sales (id, client_id, client_name, client_phone,
				sale_date, total, subtotal, discount, payment_type,
				installments_total, installments_paid, first_installment_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sale.ID, sale.ClientID, sale.ClientName, nullString(sale.ClientPhone),
			formatTime(sale.SaleDate), sale.Total, sale.Subtotal, nullFloat(sale.Discount),
			string(sale.PaymentType), nullInt(sale.InstallmentsTotal),
			installmentsPaidValue(&sale), nullTime(sale.FirstInstallmentDate),
		)
		if err != nil {
			return fmt.Errorf("failed to import sale %s: %w", sale.ID, err)
		}

		for _, item := range sale.Items {
			if item.ID == "" {
				item.ID = uuid.New().String()
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO line_items (id, sale_id, description, quantity, unit_value) VALUES (?, ?, ?, ?, ?)",
				item.ID, sale.ID, item.Description, item.Quantity, item.UnitValue,
			)
			if err != nil {
				return fmt.Errorf("failed to import line item for sale %s: %w", sale.ID, err)
			}
		}

		for _, p := range sale.Payments {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO payments (id, sale_id, paid_at, amount) VALUES (?, ?, ?, ?)",
				p.ID, sale.ID, formatTime(p.PaidAt), p.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to import payment for sale %s: %w", sale.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
