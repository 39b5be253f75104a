package models

import "time"

// Payment represents one payment registered against a sale.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// SaleID references the owning sale.
	SaleID string

	// PaidAt is when the payment was received.
	PaidAt time.Time

	// Amount is the paid value. Positive, and the store rejects payments that
	// would push the sale's paid sum past its total.
	Amount float64
}
