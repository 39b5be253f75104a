package models

import "time"

// PaymentType distinguishes one-shot sales from installment plans.
type PaymentType string

const (
	PaymentCash        PaymentType = "CASH"
	PaymentInstallment PaymentType = "INSTALLMENT"
)

// Sale represents a single transaction recording items sold to a client.
type Sale struct {
	// ID is the unique identifier for the sale (UUID format).
	ID string

	// ClientID references the owning client. Immutable after creation.
	ClientID string

	// ClientName and ClientPhone are snapshots of the client record taken at
	// creation time. They are deliberately NOT re-synced when the client is
	// edited later: an invoice keeps the name it was issued under.
	ClientName  string
	ClientPhone string

	// SaleDate is when the sale happened.
	SaleDate time.Time

	// Subtotal is the sum of all line items before discount.
	Subtotal float64

	// Discount is the amount taken off the subtotal. Never exceeds it.
	Discount float64

	// Total is subtotal minus discount, never negative.
	Total float64

	// PaymentType is CASH or INSTALLMENT.
	PaymentType PaymentType

	// InstallmentsTotal is the agreed number of installments (>= 2).
	// Only meaningful for installment sales.
	InstallmentsTotal int

	// InstallmentsPaid counts installments already settled. Maintained by the
	// store together with payment registration and deletion.
	InstallmentsPaid int

	// FirstInstallmentDate is the due date of the first installment.
	// Zero for cash sales.
	FirstInstallmentDate time.Time

	// Items are the line items sold. Created atomically with the sale.
	Items []LineItem

	// Payments are the payments registered against this sale so far.
	Payments []Payment
}

// LineItem represents one product line inside a sale.
type LineItem struct {
	// ID is the unique identifier for the line item (UUID format).
	ID string

	// SaleID references the owning sale.
	SaleID string

	// Description is the product description (e.g. "Perfume").
	Description string

	// Quantity is the number of units sold. At least 1.
	Quantity int

	// UnitValue is the price of a single unit. Positive.
	UnitValue float64
}

// SaleInput carries the caller-provided fields for creating a sale.
// The store resolves the client, snapshots its name and phone, computes
// subtotal and total, and assigns fresh IDs.
type SaleInput struct {
	ClientID             string
	SaleDate             time.Time
	Discount             float64
	PaymentType          PaymentType
	InstallmentsTotal    int
	FirstInstallmentDate time.Time
	Items                []LineItemInput
}

// LineItemInput is one line of a SaleInput.
type LineItemInput struct {
	Description string
	Quantity    int
	UnitValue   float64
}
