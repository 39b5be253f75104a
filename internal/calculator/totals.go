// Package calculator computes derived figures over sales: paid and pending
// amounts, per-client grouping and global totals.
//
// Everything here is a stateless function of the sales passed in. Nothing is
// cached and nothing needs invalidation; callers recompute on every read.
package calculator

import "github.com/mvalle/caderneta/internal/models"

// Epsilon is the fixed tolerance for currency comparisons. Amounts are
// float64, so a fully paid sale may carry a residue of a fraction of a cent.
const Epsilon = 0.001

// PaidAmount returns the sum of all payments registered against the sale.
// Zero for a sale with no payments.
func PaidAmount(sale *models.Sale) float64 {
	paid := 0.0
	for _, p := range sale.Payments {
		paid += p.Amount
	}
	return paid
}

// PendingAmount returns the outstanding balance: total minus payments.
// May be slightly negative due to floating point; use IsSettled to decide
// whether a sale is paid off.
func PendingAmount(sale *models.Sale) float64 {
	return sale.Total - PaidAmount(sale)
}

// IsSettled reports whether the sale's payments cover its total, within Epsilon.
func IsSettled(sale *models.Sale) bool {
	return PendingAmount(sale) <= Epsilon
}

// ClientGroup is the set of sales belonging to one client, carrying the
// client metadata snapshotted on the first sale seen for that client.
type ClientGroup struct {
	ClientID    string
	ClientName  string
	ClientPhone string
	Sales       []models.Sale
}

// GroupSalesByClient partitions sales by client id. Group order follows first
// appearance in the input, which the store returns newest-sale first, and the
// name/phone of a group come from the first sale seen.
func GroupSalesByClient(sales []models.Sale) []ClientGroup {
	index := make(map[string]int)
	var groups []ClientGroup
	for _, sale := range sales {
		i, ok := index[sale.ClientID]
		if !ok {
			i = len(groups)
			index[sale.ClientID] = i
			groups = append(groups, ClientGroup{
				ClientID:    sale.ClientID,
				ClientName:  sale.ClientName,
				ClientPhone: sale.ClientPhone,
			})
		}
		groups[i].Sales = append(groups[i].Sales, sale)
	}
	return groups
}

// Totals is the aggregate view over a list of sales.
type Totals struct {
	TotalSold    float64
	TotalPaid    float64
	TotalPending float64
	SettledCount int
	PendingCount int
}

// GlobalTotals aggregates an arbitrary sale list in one pass. Used for both
// the all-sales report and the date-range variant.
func GlobalTotals(sales []models.Sale) Totals {
	var t Totals
	for i := range sales {
		sale := &sales[i]
		paid := PaidAmount(sale)
		t.TotalSold += sale.Total
		t.TotalPaid += paid
		if sale.Total-paid <= Epsilon {
			t.SettledCount++
		} else {
			t.PendingCount++
		}
	}
	t.TotalPending = t.TotalSold - t.TotalPaid
	return t
}

// InstallmentReminderAmount returns the amount to ask for in a payment
// reminder: zero when settled, the full pending balance for cash sales, and
// for installment sales the pending balance spread evenly over the remaining
// installments. The even spread is a policy choice, not a stored value.
func InstallmentReminderAmount(sale *models.Sale) float64 {
	pending := PendingAmount(sale)
	if pending <= Epsilon {
		return 0
	}
	if sale.PaymentType != models.PaymentInstallment {
		return pending
	}
	remaining := sale.InstallmentsTotal - sale.InstallmentsPaid
	if remaining < 1 {
		remaining = 1
	}
	return pending / float64(remaining)
}
