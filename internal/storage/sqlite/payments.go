package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

// balanceEpsilon is the tolerance for currency comparisons. Amounts are
// float64, so "paid in full" can overshoot the total by a hair.
const balanceEpsilon = 0.001

// RegisterPayment records a payment against a sale. The payment row and, for
// installment sales, the installments-paid counter are written in a single
// transaction, so a crash can never leave the counter out of step with the
// payment rows.
func (s *SQLiteStore) RegisterPayment(ctx context.Context, saleID string, amount float64, when time.Time) (*models.Payment, error) {
	if amount <= 0 {
		return nil, storage.Validationf("amount", "must be positive")
	}
	if when.IsZero() {
		when = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := lockSaleCounters(ctx, tx, saleID)
	if err != nil {
		return nil, err
	}

	var paid float64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE sale_id = ?", saleID,
	).Scan(&paid)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	if paid+amount > sale.total+balanceEpsilon {
		return nil, storage.Validationf("amount",
			"payment of %.2f exceeds pending balance of %.2f", amount, sale.total-paid)
	}

	payment := &models.Payment{
		ID:     uuid.New().String(),
		SaleID: saleID,
		PaidAt: when,
		Amount: amount,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (id, sale_id, paid_at, amount) VALUES (?, ?, ?, ?)",
		payment.ID, payment.SaleID, formatTime(payment.PaidAt), payment.Amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	if sale.installment {
		next := sale.paidCount + 1
		if next > sale.totalCount {
			next = sale.totalCount
		}
		if err := updateInstallmentsPaid(ctx, tx, saleID, next); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return payment, nil
}

// DeletePayment removes a payment and, for installment sales, decrements the
// installments-paid counter (floor zero) in the same transaction.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var saleID string
	err = tx.QueryRowContext(ctx,
		"SELECT sale_id FROM payments WHERE id = ?", paymentID,
	).Scan(&saleID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	sale, err := lockSaleCounters(ctx, tx, saleID)
	if err != nil {
		return err
	}
	if sale.installment && sale.paidCount > 0 {
		if err := updateInstallmentsPaid(ctx, tx, saleID, sale.paidCount-1); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetInstallmentsPaid overwrites the installments-paid counter, clamped to
// [0, installmentsTotal]. Intended for manual correction only; normal payment
// flow maintains the counter itself.
func (s *SQLiteStore) SetInstallmentsPaid(ctx context.Context, saleID string, count int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := lockSaleCounters(ctx, tx, saleID)
	if err != nil {
		return err
	}
	if !sale.installment {
		return storage.Validationf("paymentType", "sale %s is not an installment sale", saleID)
	}
	if count < 0 {
		count = 0
	}
	if count > sale.totalCount {
		count = sale.totalCount
	}
	if err := updateInstallmentsPaid(ctx, tx, saleID, count); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// saleCounters is the slice of a sale row needed for payment bookkeeping.
type saleCounters struct {
	total       float64
	installment bool
	totalCount  int
	paidCount   int
}

func lockSaleCounters(ctx context.Context, tx *sql.Tx, saleID string) (*saleCounters, error) {
	var sc saleCounters
	var paymentType string
	var totalCount, paidCount sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT total, payment_type, installments_total, installments_paid FROM sales WHERE id = ?",
		saleID,
	).Scan(&sc.total, &paymentType, &totalCount, &paidCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %s: %w", saleID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sale: %w", err)
	}
	sc.installment = models.PaymentType(paymentType) == models.PaymentInstallment
	sc.totalCount = int(totalCount.Int64)
	sc.paidCount = int(paidCount.Int64)
	return &sc, nil
}

func updateInstallmentsPaid(ctx context.Context, tx *sql.Tx, saleID string, count int) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE sales SET installments_paid = ? WHERE id = ?", count, saleID); err != nil {
		return fmt.Errorf("failed to update installments paid: %w", err)
	}
	return nil
}
