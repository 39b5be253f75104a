package legacy

import (
	"time"

	"github.com/mvalle/caderneta/internal/models"
)

// The legacy records keep the JSON shape the old build wrote to AsyncStorage,
// Portuguese field names included. Do not rename the tags.

type legacyClient struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Phone   string `json:"telefone"`
	Email   string `json:"email"`
	Address string `json:"endereco"`
}

type legacyItem struct {
	ID          string  `json:"id"`
	SaleID      string  `json:"idVenda"`
	Description string  `json:"descricao"`
	Quantity    int     `json:"quantidade"`
	UnitValue   float64 `json:"valor"`
}

type legacyPayment struct {
	ID     string  `json:"id"`
	SaleID string  `json:"idVenda"`
	PaidAt string  `json:"dataPagamento"`
	Amount float64 `json:"valorPago"`
}

type legacySale struct {
	ID                   string          `json:"id"`
	ClientID             string          `json:"idCliente"`
	ClientName           string          `json:"clienteNome"`
	ClientPhone          string          `json:"clienteTelefone"`
	SaleDate             string          `json:"dataVenda"`
	Subtotal             float64         `json:"subtotal"`
	Total                float64         `json:"valorTotal"`
	Discount             float64         `json:"desconto"`
	PaymentType          string          `json:"tipoPagamento"`
	InstallmentsTotal    int             `json:"parcelasTotais"`
	InstallmentsPaid     int             `json:"parcelasPagas"`
	FirstInstallmentDate string          `json:"dataPrimeiraParcela"`
	Items                []legacyItem    `json:"itens"`
	Payments             []legacyPayment `json:"pagamentos"`
}

// legacyInstallmentType is the literal the old build stored for installment
// sales; anything else is treated as cash.
const legacyInstallmentType = "Parcelado"

func (c legacyClient) toModel() models.Client {
	return models.Client{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}

func (s legacySale) toModel() models.Sale {
	paymentType := models.PaymentCash
	if s.PaymentType == legacyInstallmentType {
		paymentType = models.PaymentInstallment
	}

	sale := models.Sale{
		ID:                   s.ID,
		ClientID:             s.ClientID,
		ClientName:           s.ClientName,
		ClientPhone:          s.ClientPhone,
		SaleDate:             parseLegacyTime(s.SaleDate),
		Subtotal:             s.Subtotal,
		Discount:             s.Discount,
		Total:                s.Total,
		PaymentType:          paymentType,
		InstallmentsTotal:    s.InstallmentsTotal,
		InstallmentsPaid:     s.InstallmentsPaid,
		FirstInstallmentDate: parseLegacyTime(s.FirstInstallmentDate),
	}
	for _, item := range s.Items {
		sale.Items = append(sale.Items, models.LineItem{
			ID:          item.ID,
			SaleID:      s.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitValue:   item.UnitValue,
		})
	}
	for _, p := range s.Payments {
		sale.Payments = append(sale.Payments, models.Payment{
			ID:     p.ID,
			SaleID: s.ID,
			PaidAt: parseLegacyTime(p.PaidAt),
			Amount: p.Amount,
		})
	}
	return sale
}

func parseLegacyTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
