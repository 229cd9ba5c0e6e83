package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing. IDs are small monotonically assigned integers
// handed out by the registration transaction, not a database sequence.
type Product struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title        string          `gorm:"column:title;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Description  *string         `gorm:"column:description"`
	CategoryID   string          `gorm:"column:category_id;not null"`
	CategoryName string          `gorm:"column:category_name;not null"`
	ImageURL     string          `gorm:"column:image_url;not null;default:''"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
