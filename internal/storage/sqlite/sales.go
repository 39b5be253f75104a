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

// CreateSale validates the input, snapshots the client's name and phone into
// the sale row, and persists the sale together with all line items in one
// transaction.
func (s *SQLiteStore) CreateSale(ctx context.Context, input *models.SaleInput) (*models.Sale, error) {
	subtotal := 0.0
	for _, item := range input.Items {
		subtotal += float64(item.Quantity) * item.UnitValue
	}
	if err := validateSaleInput(input, subtotal); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	total := subtotal - input.Discount
	if total < 0 {
		total = 0
	}

	saleDate := input.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	sale := &models.Sale{
		ID:       uuid.New().String(),
		ClientID: client.ID,
		// Snapshot: the sale keeps the client data it was issued under even if
		// the client record is edited afterwards.
		ClientName:           client.Name,
		ClientPhone:          client.Phone,
		SaleDate:             saleDate,
		Subtotal:             subtotal,
		Discount:             input.Discount,
		Total:                total,
		PaymentType:          input.PaymentType,
		InstallmentsTotal:    input.InstallmentsTotal,
		InstallmentsPaid:     0,
		FirstInstallmentDate: input.FirstInstallmentDate,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, client_id, client_name, client_phone, sale_date,
			total, subtotal, discount, payment_type,
			installments_total, installments_paid, first_installment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.ClientID, sale.ClientName, nullString(sale.ClientPhone),
		formatTime(sale.SaleDate), sale.Total, sale.Subtotal, nullFloat(sale.Discount),
		string(sale.PaymentType), nullInt(sale.InstallmentsTotal),
		installmentsPaidValue(sale), nullTime(sale.FirstInstallmentDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, in := range input.Items {
		item := models.LineItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitValue:   in.UnitValue,
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO line_items (id, sale_id, description, quantity, unit_value) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.SaleID, item.Description, item.Quantity, item.UnitValue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert line item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return sale, nil
}

func validateSaleInput(input *models.SaleInput, subtotal float64) error {
	if input.ClientID == "" {
		return storage.Validationf("clientId", "is required")
	}
	if len(input.Items) == 0 {
		return storage.Validationf("items", "a sale needs at least one line item")
	}
	for i, item := range input.Items {
		if item.Description == "" {
			return storage.Validationf(fmt.Sprintf("items[%d].description", i), "is required")
		}
		if item.Quantity < 1 {
			return storage.Validationf(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		if item.UnitValue <= 0 {
			return storage.Validationf(fmt.Sprintf("items[%d].unitValue", i), "must be positive")
		}
	}
	if input.Discount < 0 {
		return storage.Validationf("discount", "must not be negative")
	}
	if input.Discount > subtotal {
		return storage.Validationf("discount", "must not exceed subtotal %.2f", subtotal)
	}
	switch input.PaymentType {
	case models.PaymentCash:
		if input.InstallmentsTotal != 0 {
			return storage.Validationf("installmentsTotal", "not allowed for cash sales")
		}
	case models.PaymentInstallment:
		if input.InstallmentsTotal < 2 {
			return storage.Validationf("installmentsTotal", "installment sales need at least 2 installments")
		}
	default:
		return storage.Validationf("paymentType", "unknown payment type %q", input.PaymentType)
	}
	return nil
}

// installmentsPaidValue returns the stored counter: NULL for cash sales,
// the running count (starting at 0) for installment sales.
func installmentsPaidValue(sale *models.Sale) any {
	if sale.PaymentType != models.PaymentInstallment {
		return nil
	}
	return sale.InstallmentsPaid
}

const saleColumns = `id, client_id, client_name, client_phone, sale_date,
	total, subtotal, discount, payment_type,
	installments_total, installments_paid, first_installment_date`

// GetSale retrieves one sale with its line items and payments.
func (s *SQLiteStore) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE id = ?", id)
	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	sales := []models.Sale{*sale}
	if err := s.attachChildren(ctx, sales); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

// ListSales returns every sale, newest first.
func (s *SQLiteStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.querySales(ctx,
		"SELECT "+saleColumns+" FROM sales ORDER BY sale_date DESC")
}

// ListSalesByClient returns the client's sales, newest first.
func (s *SQLiteStore) ListSalesByClient(ctx context.Context, clientID string) ([]models.Sale, error) {
	return s.querySales(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE client_id = ? ORDER BY sale_date DESC",
		clientID)
}

// ListSalesByPeriod returns sales with from <= sale_date <= to, newest first.
// Timestamps are stored in a fixed-width UTC layout so the comparison can run
// directly on the text column.
func (s *SQLiteStore) ListSalesByPeriod(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return s.querySales(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE sale_date >= ? AND sale_date <= ? ORDER BY sale_date DESC",
		formatTime(from), formatTime(to))
}

// DeleteSale removes the sale; line items and payments follow via cascade.
func (s *SQLiteStore) DeleteSale(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

func (s *SQLiteStore) querySales(ctx context.Context, query string, args ...any) ([]models.Sale, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	if err := s.attachChildren(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachChildren batch-loads line items and payments for the given sales with
// one IN query per table instead of a query per sale.
func (s *SQLiteStore) attachChildren(ctx context.Context, sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byID := make(map[string]*models.Sale, len(sales))
	args := make([]any, len(sales))
	for i := range sales {
		byID[sales[i].ID] = &sales[i]
		args[i] = sales[i].ID
	}
	in := "(?" + repeatPlaceholder(len(sales)-1) + ")"

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, sale_id, description, quantity, unit_value FROM line_items WHERE sale_id IN "+in,
		args...)
	if err != nil {
		return fmt.Errorf("failed to query line items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item models.LineItem
		if err := itemRows.Scan(&item.ID, &item.SaleID, &item.Description, &item.Quantity, &item.UnitValue); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		if sale, ok := byID[item.SaleID]; ok {
			sale.Items = append(sale.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate line items: %w", err)
	}

	paymentRows, err := s.db.QueryContext(ctx,
		"SELECT id, sale_id, paid_at, amount FROM payments WHERE sale_id IN "+in+" ORDER BY paid_at ASC",
		args...)
	if err != nil {
		return fmt.Errorf("failed to query payments: %w", err)
	}
	defer paymentRows.Close()
	for paymentRows.Next() {
		var p models.Payment
		var paidAt string
		if err := paymentRows.Scan(&p.ID, &p.SaleID, &paidAt, &p.Amount); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.PaidAt, err = parseTime(paidAt); err != nil {
			return fmt.Errorf("failed to parse payment time: %w", err)
		}
		if sale, ok := byID[p.SaleID]; ok {
			sale.Payments = append(sale.Payments, p)
		}
	}
	if err := paymentRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payments: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (*models.Sale, error) {
	var sale models.Sale
	var clientPhone, firstInstallment sql.NullString
	var saleDate, paymentType string
	var subtotal, discount sql.NullFloat64
	var installmentsTotal, installmentsPaid sql.NullInt64

	err := row.Scan(&sale.ID, &sale.ClientID, &sale.ClientName, &clientPhone,
		&saleDate, &sale.Total, &subtotal, &discount, &paymentType,
		&installmentsTotal, &installmentsPaid, &firstInstallment)
	if err != nil {
		return nil, err
	}

	sale.ClientPhone = clientPhone.String
	sale.Subtotal = subtotal.Float64
	sale.Discount = discount.Float64
	sale.PaymentType = models.PaymentType(paymentType)
	sale.InstallmentsTotal = int(installmentsTotal.Int64)
	sale.InstallmentsPaid = int(installmentsPaid.Int64)

	if sale.SaleDate, err = parseTime(saleDate); err != nil {
		return nil, fmt.Errorf("failed to parse sale date: %w", err)
	}
	if firstInstallment.Valid {
		if sale.FirstInstallmentDate, err = parseTime(firstInstallment.String); err != nil {
			return nil, fmt.Errorf("failed to parse first installment date: %w", err)
		}
	}
	return &sale, nil
}
