package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvalle/caderneta/internal/models"
)

func saleWith(total float64, paid ...float64) *models.Sale {
	sale := &models.Sale{Total: total, PaymentType: models.PaymentCash}
	for _, amount := range paid {
		sale.Payments = append(sale.Payments, models.Payment{Amount: amount})
	}
	return sale
}

func TestPaidAndPending(t *testing.T) {
	tests := []struct {
		name        string
		sale        *models.Sale
		wantPaid    float64
		wantPending float64
		wantSettled bool
	}{
		{"no payments", saleWith(90.0), 0, 90.0, false},
		{"partial", saleWith(90.0, 30.0), 30.0, 60.0, false},
		{"exact", saleWith(90.0, 30.0, 60.0), 90.0, 0, true},
		{"within epsilon", saleWith(90.0, 89.9995), 89.9995, 0.0005, true},
		{"overshoot", saleWith(90.0, 90.0005), 90.0005, -0.0005, true},
		{"zero total", saleWith(0), 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantPaid, PaidAmount(tt.sale), 1e-9)
			assert.InDelta(t, tt.wantPending, PendingAmount(tt.sale), 1e-9)
			assert.Equal(t, tt.wantSettled, IsSettled(tt.sale))
		})
	}
}

func TestSettledAfterDiscount(t *testing.T) {
	// Subtotal 100, discount 10: payments of 30+60 settle the sale.
	sale := &models.Sale{
		Subtotal:    100.0,
		Discount:    10.0,
		Total:       90.0,
		PaymentType: models.PaymentCash,
		Payments: []models.Payment{
			{Amount: 30.0},
			{Amount: 60.0},
		},
	}
	assert.InDelta(t, 0.0, PendingAmount(sale), 1e-9)
	assert.True(t, IsSettled(sale))
}

func TestGroupSalesByClient(t *testing.T) {
	sales := []models.Sale{
		{ID: "s1", ClientID: "c1", ClientName: "Ana", ClientPhone: "111"},
		{ID: "s2", ClientID: "c2", ClientName: "Bia"},
		{ID: "s3", ClientID: "c1", ClientName: "Ana Editada"},
	}

	groups := GroupSalesByClient(sales)
	if assert.Len(t, groups, 2) {
		assert.Equal(t, "c1", groups[0].ClientID, "first-seen order")
		assert.Equal(t, "Ana", groups[0].ClientName, "metadata from the first sale seen")
		assert.Equal(t, "111", groups[0].ClientPhone)
		assert.Len(t, groups[0].Sales, 2)
		assert.Equal(t, "c2", groups[1].ClientID)
	}

	assert.Empty(t, GroupSalesByClient(nil))
}

func TestGlobalTotals(t *testing.T) {
	sales := []models.Sale{
		*saleWith(90.0, 90.0),
		*saleWith(50.0, 20.0),
		*saleWith(30.0),
	}

	totals := GlobalTotals(sales)
	assert.InDelta(t, 170.0, totals.TotalSold, 1e-9)
	assert.InDelta(t, 110.0, totals.TotalPaid, 1e-9)
	assert.InDelta(t, 60.0, totals.TotalPending, 1e-9)
	assert.Equal(t, 1, totals.SettledCount)
	assert.Equal(t, 2, totals.PendingCount)
}

func TestInstallmentReminderAmount(t *testing.T) {
	tests := []struct {
		name string
		sale *models.Sale
		want float64
	}{
		{
			name: "settled sale asks for nothing",
			sale: saleWith(90.0, 90.0),
			want: 0,
		},
		{
			name: "cash sale asks for the full pending amount",
			sale: saleWith(90.0, 30.0),
			want: 60.0,
		},
		{
			name: "installment sale spreads the pending amount",
			// Total 90 over 3 installments, one paid via a 30 payment:
			// (90-30)/(3-1) = 30.
			sale: &models.Sale{
				Total:             90.0,
				PaymentType:       models.PaymentInstallment,
				InstallmentsTotal: 3,
				InstallmentsPaid:  1,
				Payments:          []models.Payment{{Amount: 30.0}},
			},
			want: 30.0,
		},
		{
			name: "remaining count floors at one",
			sale: &models.Sale{
				Total:             90.0,
				PaymentType:       models.PaymentInstallment,
				InstallmentsTotal: 3,
				InstallmentsPaid:  3,
				Payments:          []models.Payment{{Amount: 45.0}},
			},
			want: 45.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, InstallmentReminderAmount(tt.sale), 1e-9)
		})
	}
}
