// Package reminder builds WhatsApp payment-reminder messages and the deep
// links that open them in the client's chat.
package reminder

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mvalle/caderneta/internal/calculator"
	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

// Reminder is a payment reminder ready to render for one sale.
type Reminder struct {
	ClientName        string
	Phone             string // normalized, country code included
	PurchaseDate      time.Time
	DueDate           time.Time
	Amount            float64
	Discount          float64
	InstallmentNumber int // 0 for cash sales
	InstallmentsTotal int
}

// NormalizePhone reduces a stored phone to the digits-only form WhatsApp
// expects. Brazilian numbers without a country code (10 or 11 digits) get
// "55" prefixed; numbers already carrying it (12 or 13 digits starting with
// 55) pass through. Anything else is a validation error.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()

	if strings.HasPrefix(clean, "55") && (len(clean) == 12 || len(clean) == 13) {
		return clean, nil
	}
	if len(clean) == 10 || len(clean) == 11 {
		return "55" + clean, nil
	}
	return "", storage.Validationf("phone", "unexpected phone format %q", raw)
}

// ForSale builds the reminder for a sale's next payment. The amount comes
// from the even-distribution policy of the calculator; the due date is the
// first installment date for installment sales, otherwise the sale date.
// Settled sales and sales without a client phone yield a validation error.
func ForSale(sale *models.Sale) (*Reminder, error) {
	if sale.ClientPhone == "" {
		return nil, storage.Validationf("clientPhone", "sale has no client phone on record")
	}
	phone, err := NormalizePhone(sale.ClientPhone)
	if err != nil {
		return nil, err
	}

	amount := calculator.InstallmentReminderAmount(sale)
	if amount <= 0 {
		return nil, storage.Validationf("amount", "sale is settled, nothing to remind")
	}

	r := &Reminder{
		ClientName:   sale.ClientName,
		Phone:        phone,
		PurchaseDate: sale.SaleDate,
		DueDate:      sale.SaleDate,
		Amount:       amount,
		Discount:     sale.Discount,
	}
	if sale.PaymentType == models.PaymentInstallment {
		r.InstallmentNumber = sale.InstallmentsPaid + 1
		r.InstallmentsTotal = sale.InstallmentsTotal
		if !sale.FirstInstallmentDate.IsZero() {
			r.DueDate = sale.FirstInstallmentDate
		}
	}
	return r, nil
}

// Message renders the Portuguese reminder text. The discount line appears
// only when a discount was applied.
func (r *Reminder) Message() string {
	subject := "sobre o pagamento da sua compra"
	if r.InstallmentNumber > 0 {
		subject = fmt.Sprintf("da sua parcela %d/%d", r.InstallmentNumber, r.InstallmentsTotal)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", r.ClientName)
	fmt.Fprintf(&b, "Estou passando só pra lembrar %s, da compra realizada em %s. ",
		subject, r.PurchaseDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "O valor de R$ %.2f vence em %s.\n", r.Amount, r.DueDate.Format("02/01/2006"))
	if r.Discount > 0 {
		fmt.Fprintf(&b, "(Desconto aplicado na compra: R$ %.2f)\n", r.Discount)
	}
	b.WriteString("\nObrigada desde já.")
	return b.String()
}

// URL builds the whatsapp:// deep link carrying the message. Spaces are
// percent-encoded, not "+": WhatsApp shows the raw "+" otherwise.
func (r *Reminder) URL() string {
	text := strings.ReplaceAll(url.QueryEscape(r.Message()), "+", "%20")
	return fmt.Sprintf("whatsapp://send?phone=%s&text=%s", r.Phone, text)
}
