package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader matches the column set of the exports users already have on disk.
var csvHeader = []string{
	"ID Cliente", "Nome Cliente", "Telefone Cliente", "ID Venda", "Data Venda",
	"Itens da Venda", "Subtotal", "Desconto", "Valor Total Venda",
	"Valor Pago Venda", "Saldo Devedor Venda",
}

// WriteCSV writes the flat row set followed by a blank record and three
// aggregate records. Amounts use dot decimals so spreadsheet imports parse
// them as numbers; only the sale date is rendered in pt-BR day/month/year.
func (d *Document) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range d.Rows {
		record := []string{
			row.ClientID,
			row.ClientName,
			row.ClientPhone,
			row.SaleID,
			formatDate(row.SaleDate),
			row.Items,
			fmt.Sprintf("%.2f", row.Subtotal),
			fmt.Sprintf("%.2f", row.Discount),
			fmt.Sprintf("%.2f", row.Total),
			fmt.Sprintf("%.2f", row.Paid),
			fmt.Sprintf("%.2f", row.Pending),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	// Trailing aggregates, each value in the column it totals.
	aggregates := [][]string{
		{""},
		paddedRecord("TOTAL GERAL VENDIDO (LÍQUIDO):", 8, d.Totals.TotalSold),
		paddedRecord("TOTAL GERAL RECEBIDO:", 9, d.Totals.TotalPaid),
		paddedRecord("TOTAL GERAL PENDENTE:", 10, d.Totals.TotalPending),
	}
	for _, record := range aggregates {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv totals: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func paddedRecord(label string, valueColumn int, value float64) []string {
	record := make([]string, valueColumn+1)
	record[0] = label
	record[valueColumn] = fmt.Sprintf("%.2f", value)
	return record
}
