package cart

import "github.com/shopspring/decimal"

// CartDTO is the full cart snapshot returned after every operation.
type CartDTO struct {
	Items      []Line          `json:"items"`
	TotalCount int             `json:"total_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newCartDTO(doc *Document) *CartDTO {
	items := make([]Line, len(doc.Items))
	copy(items, doc.Items)

	totalCount := 0
	totalPrice := decimal.Zero
	for _, line := range items {
		totalCount += line.Count
		totalPrice = totalPrice.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Count))))
	}

	return &CartDTO{
		Items:      items,
		TotalCount: totalCount,
		TotalPrice: totalPrice,
	}
}
