package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order captures a completed purchase snapshot for one user.
type Order struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ReceiverName    string          `gorm:"column:receiver_name;not null"`
	ShippingAddress string          `gorm:"column:shipping_address;not null"`
	Phone           string          `gorm:"column:phone;not null"`
	Requests        *string         `gorm:"column:requests"`
	PaymentMethod   string          `gorm:"column:payment_method;not null"`
	TotalCount      int             `gorm:"column:total_count;not null"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	Items           []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem freezes the product data a purchase was made against.
type OrderLineItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID string          `gorm:"column:product_id;not null"`
	Title     string          `gorm:"column:title;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Count     int             `gorm:"column:count;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
