package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Relatório de Vendas"

var xlsxHeader = []any{
	"Nome do Cliente", "Telefone", "Data da Venda", "Itens", "Subtotal",
	"Desconto", "Valor Total", "Valor Pago", "Saldo Devedor", "Status",
}

// Column widths carried over from the spreadsheets users are used to.
var xlsxWidths = []float64{25, 15, 12, 40, 10, 10, 10, 10, 12, 10}

// WriteXLSX writes the row set as a single-sheet workbook. Amounts go in as
// numbers so spreadsheet formulas keep working; the Status column renders the
// settled flag as Quitada/Pendente.
func (d *Document) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range d.Rows {
		status := "Pendente"
		if row.Settled {
			status = "Quitada"
		}
		cells := []any{
			row.ClientName,
			row.ClientPhone,
			formatDate(row.SaleDate),
			row.Items,
			row.Subtotal,
			row.Discount,
			row.Total,
			row.Paid,
			row.Pending,
			status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for i, width := range xlsxWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}
		if err := f.SetColWidth(xlsxSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
