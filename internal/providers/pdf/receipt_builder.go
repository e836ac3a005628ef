package pdf

import (
	"github.com/casekit/lexbill/internal/money"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
)

// ReceiptFromQuote shapes a stored renewal quote into receipt rows.
func ReceiptFromQuote(quote *renewaldomain.QuoteResponse, clientName string) ReceiptData {
	items := make([]ReceiptItem, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		items = append(items, ReceiptItem{
			Description: item.Name,
			Qty:         int(item.Quantity),
			UnitPrice:   money.FormatUSD(item.UnitAmountCents),
			Amount:      money.FormatUSD(item.ExtendedAmountCents()),
		})
	}

	return ReceiptData{
		ReceiptNumber: quote.ID,
		DatePaid:      quote.CreatedAt.Format("Jan 2, 2006"),
		ClientName:    clientName,
		Items:         items,
		Total:         quote.TotalDisplay,
	}
}
