package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyunwoo-dev/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// OrderDTO is the purchase snapshot returned to clients.
type OrderDTO struct {
	ID              uuid.UUID          `json:"id"`
	ReceiverName    string             `json:"receiver_name"`
	ShippingAddress string             `json:"shipping_address"`
	Phone           string             `json:"phone"`
	Requests        *string            `json:"requests,omitempty"`
	PaymentMethod   string             `json:"payment_method"`
	TotalCount      int                `json:"total_count"`
	TotalPrice      decimal.Decimal    `json:"total_price"`
	Items           []OrderLineItemDTO `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
}

// OrderLineItemDTO freezes one purchased line.
type OrderLineItemDTO struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Count     int             `json:"count"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderLineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineItemDTO{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Count:     item.Count,
		})
	}

	return &OrderDTO{
		ID:              order.ID,
		ReceiverName:    order.ReceiverName,
		ShippingAddress: order.ShippingAddress,
		Phone:           order.Phone,
		Requests:        order.Requests,
		PaymentMethod:   order.PaymentMethod,
		TotalCount:      order.TotalCount,
		TotalPrice:      order.TotalPrice,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
