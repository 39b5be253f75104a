package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/mvalle/caderneta/internal/calculator"
)

// The HTML document is handed to the platform's print service to produce the
// PDF, so the markup is the contract: consolidated summary up top, then one
// block per client with a sales table and per-client subtotals.
const htmlReport = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <style>
      body { font-family: Arial, Helvetica, sans-serif; margin: 20px; color: #333; }
      h1 { color: #6200EE; text-align: center; border-bottom: 2px solid #6200EE; padding-bottom: 10px; }
      h2 { color: #3700B3; margin-top: 30px; border-bottom: 1px solid #ccc; padding-bottom: 5px; }
      h3 { color: #444; margin-top: 20px; }
      table { width: 100%; border-collapse: collapse; margin-bottom: 15px; font-size: 0.9em; }
      th, td { border: 1px solid #ddd; padding: 6px; text-align: left; }
      th { background-color: #f0f0f0; font-weight: bold; }
      .resumo-geral { background-color: #e9e0ff; padding: 15px; margin-bottom: 25px; border-radius: 8px; }
      .resumo-geral p, .subtotal-cliente p { margin: 5px 0; }
      .cliente-bloco { page-break-inside: avoid; margin-bottom: 25px; padding-bottom: 15px; border-bottom: 1px dashed #aaa; }
      .total-geral strong { font-size: 1.1em; }
      .text-right { text-align: right; }
      .currency:before { content: "R$ "; }
    </style>
  </head>
  <body>
    <h1>Relatório Consolidado de Vendas</h1>
    <div class="resumo-geral">
      <h2>Resumo Geral Consolidado</h2>
      <p>Total de Clientes com Vendas Registradas: {{.ClientCount}}</p>
      <p class="total-geral"><strong>Valor Total Vendido (Líquido): <span class="currency">{{.TotalSold}}</span></strong></p>
      <p class="total-geral"><strong>Total Geral Recebido: <span class="currency">{{.TotalPaid}}</span></strong></p>
      <p class="total-geral"><strong>Total Geral Pendente: <span class="currency">{{.TotalPending}}</span></strong></p>
    </div>
    <h2>Clientes e Suas Vendas</h2>
    {{range .Groups}}<div class="cliente-bloco">
      <h3>Cliente: {{.Name}}</h3>
      {{if .Phone}}<p>Telefone: {{.Phone}}</p>{{end}}
      <table>
        <thead><tr><th>Data</th><th>Itens da Venda</th><th class="text-right">Valor Venda</th><th class="text-right">Pago</th><th class="text-right">Pendente</th></tr></thead>
        <tbody>
          {{range .Sales}}<tr>
            <td>{{.Date}}</td>
            <td>{{range $i, $item := .Items}}{{if $i}}<br>{{end}}{{$item}}{{end}}</td>
            <td class="text-right"><span class="currency">{{.Total}}</span></td>
            <td class="text-right"><span class="currency">{{.Paid}}</span></td>
            <td class="text-right"><span class="currency">{{.Pending}}</span></td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <div class="subtotal-cliente">
        <p><strong>Subtotal para {{.Name}}:</strong></p>
        <p>Vendido: <span class="currency">{{.Sold}}</span> | Recebido: <span class="currency">{{.Received}}</span> | Pendente: <span class="currency">{{.Pending}}</span></p>
      </div>
    </div>
    {{end}}
  </body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlReport))

type htmlPage struct {
	ClientCount  int
	TotalSold    string
	TotalPaid    string
	TotalPending string
	Groups       []htmlGroup
}

type htmlGroup struct {
	Name     string
	Phone    string
	Sales    []htmlSale
	Sold     string
	Received string
	Pending  string
}

type htmlSale struct {
	Date    string
	Items   []string
	Total   string
	Paid    string
	Pending string
}

// WriteHTML renders the printable report. Amounts use pt-BR separators since
// this output is read, not parsed.
func (d *Document) WriteHTML(w io.Writer) error {
	page := htmlPage{
		ClientCount:  len(d.Groups),
		TotalSold:    formatMoney(d.Totals.TotalSold),
		TotalPaid:    formatMoney(d.Totals.TotalPaid),
		TotalPending: formatMoney(d.Totals.TotalPending),
		Groups:       make([]htmlGroup, 0, len(d.Groups)),
	}

	for _, group := range d.Groups {
		view := htmlGroup{
			Name:  group.ClientName,
			Phone: group.ClientPhone,
			Sales: make([]htmlSale, 0, len(group.Sales)),
		}
		var sold, received float64
		for i := range group.Sales {
			sale := &group.Sales[i]
			paid := calculator.PaidAmount(sale)
			sold += sale.Total
			received += paid

			items := make([]string, len(sale.Items))
			for j, item := range sale.Items {
				items[j] = fmt.Sprintf("%dx %s", item.Quantity, item.Description)
			}
			if len(items) == 0 {
				items = []string{"N/A"}
			}
			view.Sales = append(view.Sales, htmlSale{
				Date:    formatDate(sale.SaleDate),
				Items:   items,
				Total:   formatMoney(sale.Total),
				Paid:    formatMoney(paid),
				Pending: formatMoney(calculator.PendingAmount(sale)),
			})
		}
		view.Sold = formatMoney(sold)
		view.Received = formatMoney(received)
		view.Pending = formatMoney(sold - received)
		page.Groups = append(page.Groups, view)
	}

	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}
