// Package report turns the sales ledger into a consolidated report document
// and serializes it as CSV, XLSX or HTML. The document is built once; each
// writer only formats it.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mvalle/caderneta/internal/calculator"
	"github.com/mvalle/caderneta/internal/models"
)

// Row is one sale flattened for tabular output.
type Row struct {
	ClientID    string
	ClientName  string
	ClientPhone string
	SaleID      string
	SaleDate    time.Time
	Items       string // "2x Perfume; 1x Batom"
	Subtotal    float64
	Discount    float64
	Total       float64
	Paid        float64
	Pending     float64
	Settled     bool
}

// Document is the consolidated report: the flat row set for spreadsheets, the
// per-client grouping for the printable layout, and the global totals.
type Document struct {
	Rows        []Row
	Groups      []calculator.ClientGroup
	Totals      calculator.Totals
	GeneratedAt time.Time
}

// Build aggregates sales into a Document. Sales keep the order they arrive in,
// which the store already sorts newest first.
func Build(sales []models.Sale) *Document {
	doc := &Document{
		Rows:        make([]Row, 0, len(sales)),
		Groups:      calculator.GroupSalesByClient(sales),
		Totals:      calculator.GlobalTotals(sales),
		GeneratedAt: time.Now(),
	}
	for i := range sales {
		sale := &sales[i]
		paid := calculator.PaidAmount(sale)
		doc.Rows = append(doc.Rows, Row{
			ClientID:    sale.ClientID,
			ClientName:  sale.ClientName,
			ClientPhone: sale.ClientPhone,
			SaleID:      sale.ID,
			SaleDate:    sale.SaleDate,
			Items:       ItemSummary(sale.Items),
			Subtotal:    sale.Subtotal,
			Discount:    sale.Discount,
			Total:       sale.Total,
			Paid:        paid,
			Pending:     calculator.PendingAmount(sale),
			Settled:     calculator.IsSettled(sale),
		})
	}
	return doc
}

// ItemSummary renders line items as "2x Perfume; 1x Batom", or "N/A" when the
// sale carries none.
func ItemSummary(items []models.LineItem) string {
	if len(items) == 0 {
		return "N/A"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%dx %s", item.Quantity, item.Description)
	}
	return strings.Join(parts, "; ")
}

// Period is an inclusive date range for filtered reports.
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod widens [from, to] to whole days: from at 00:00:00 and to at the
// last representable instant of its day, so a sale at 18:30 on the end date
// is still inside.
func NewPeriod(from, to time.Time) Period {
	return Period{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()),
		To:   time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), to.Location()),
	}
}

// ptBR renders amounts the way the reports have always shown them,
// "1.234,56".
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func formatMoney(v float64) string {
	return ptBR.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
